// Package codes enumerates the subset of real PostgreSQL SQLSTATE codes that
// this server raises. See https://www.postgresql.org/docs/current/errcodes-appendix.html
// for the full, authoritative list this is drawn from.
package codes

// Code represents a Postgres error SQLSTATE code.
type Code string

var (
	// Uncategorized is used for errors this server cannot attribute to a more
	// specific SQLSTATE. The wire protocol default for an error that carries
	// no further SQLSTATE annotation is the literal string "0".
	Uncategorized Code = "0"
	// Internal represents an internal, unexpected server error.
	Internal Code = "XX001"

	// Class 08 - Connection Exception
	ConnectionException    Code = "08000"
	ConnectionDoesNotExist Code = "08003"
	ConnectionFailure      Code = "08006"
	ProtocolViolation      Code = "08P01"

	// Class 0A - Feature Not Supported
	FeatureNotSupported Code = "0A000"

	// Class 22 - Data Exception
	DataException Code = "22000"
	DataCorrupted Code = "22P02"

	// Class 28 - Invalid Authorization Specification
	InvalidAuthorizationSpecification Code = "28000"
	InvalidPassword                   Code = "28P01"

	// Class 26 - Invalid SQL Statement Name
	InvalidPreparedStatementDefinition Code = "26000"

	// Class 42 - Syntax Error or Access Rule Violation
	Syntax          Code = "42601"
	UndefinedTable  Code = "42P01"
	UndefinedColumn Code = "42703"

	// Class 53 - Insufficient Resources
	ProgramLimitExceeded Code = "53400"
	TooManyConnections   Code = "53300"
)
