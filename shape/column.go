// Package shape turns raw hook data into wire-ready rows: it applies the
// "*"-expansion law, projects and aliases requested columns, and produces
// the column descriptors RowDescription needs.
package shape

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pgshim/pgshim/internal/wireoid"
)

// Column describes one output column. Every value this server emits goes
// out as text regardless of the declared Oid (see stream.WriteDataRow).
type Column struct {
	Name string
	Oid  uint32
	Size int16
}

// TextColumn builds a Column for PostgreSQL's variable-length text type.
func TextColumn(name string) Column {
	return Column{Name: name, Oid: pgtype.TextOID, Size: wireoid.Width(wireoid.Text)}
}

// IntColumn builds a Column for PostgreSQL's 4-byte integer type.
func IntColumn(name string) Column {
	return Column{Name: name, Oid: pgtype.Int4OID, Size: wireoid.Width(wireoid.Int4)}
}
