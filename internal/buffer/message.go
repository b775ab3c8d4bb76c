package buffer

// ErrFieldType represents a field code inside an ErrorResponse message.
// This server emits fields S (severity), C (SQLSTATE), and M (message), in
// that order, followed by a zero terminator byte.
// http://www.postgresql.org/docs/current/static/protocol-error-fields.html
type ErrFieldType byte

const (
	ErrFieldSeverity   ErrFieldType = 'S'
	ErrFieldSQLState   ErrFieldType = 'C'
	ErrFieldMsgPrimary ErrFieldType = 'M'
)

// DescribeKind distinguishes the two variants of the Describe/Close messages:
// a named prepared statement or a named portal.
type DescribeKind byte

const (
	DescribeStatement DescribeKind = 'S'
	DescribePortal    DescribeKind = 'P'
)
