// Package wireoid adapts github.com/lib/pq's Oid/width modeling idiom for
// the handful of scalar types this server ever reports. lib/pq itself is a
// client-side driver and cannot be used server-side, so only the idiom —
// a typed Oid alias plus a -1 "variable length" width sentinel — is
// borrowed, not the driver.
package wireoid

// Oid is a PostgreSQL type OID, mirroring lib/pq's internal oid.Oid.
type Oid uint32

const (
	// Int4 is the OID for a 4-byte signed integer.
	Int4 Oid = 23
	// Text is the OID for a variable-length text value.
	Text Oid = 25
)

// Width returns the wire type size PostgreSQL reports for a column of the
// given Oid: a positive byte count for fixed-width types, or -1 for
// variable-width types — the same sentinel lib/pq's row description
// decoder treats as "read the length prefix instead".
func Width(o Oid) int16 {
	switch o {
	case Int4:
		return 4
	default:
		return -1
	}
}
