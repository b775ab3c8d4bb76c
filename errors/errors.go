package errors

import "github.com/pgshim/pgshim/codes"

// Error contains the Postgres wire protocol error fields this server emits:
// severity, SQLSTATE, and a human-readable message (fields S, C, M).
// See https://www.postgresql.org/docs/current/static/protocol-error-fields.html
type Error struct {
	Code     codes.Code
	Message  string
	Severity Severity
}

// Flatten returns a flattened error which could be used to construct Postgres
// wire error messages.
func Flatten(err error) Error {
	if err == nil {
		return Error{
			Code:     codes.Internal,
			Message:  "unknown error, an internal process attempted to throw an error",
			Severity: LevelFatal,
		}
	}

	return Error{
		Code:     GetCode(err),
		Message:  err.Error(),
		Severity: DefaultSeverity(GetSeverity(err)),
	}
}
