package server

import (
	"errors"
	"fmt"

	"github.com/pgshim/pgshim/codes"
	psqlerr "github.com/pgshim/pgshim/errors"
)

var (
	errUnknownStatement      = errors.New("unknown prepared statement")
	errUnknownPortal         = errors.New("unknown portal")
	errProtocolViolation     = errors.New("message not valid in current session state")
	errInvalidPassword       = errors.New("password authentication failed")
	errEncryptionRequired    = errors.New("encryption required but client declined negotiation")
	errTooManyConnections    = errors.New("server has reached its maximum client connection limit")
	errStarMixedProjection   = errors.New("select * cannot be aliased or used with other columns")
	errStatementNotSupported = errors.New("statement type not supported")
)

func unknownStatementError(name string) error {
	err := fmt.Errorf("%w: %q", errUnknownStatement, name)
	return psqlerr.WithSeverity(psqlerr.WithCode(err, codes.InvalidPreparedStatementDefinition), psqlerr.LevelError)
}

func unknownPortalError(name string) error {
	err := fmt.Errorf("%w: %q", errUnknownPortal, name)
	return psqlerr.WithSeverity(psqlerr.WithCode(err, codes.InvalidPreparedStatementDefinition), psqlerr.LevelError)
}

func protocolViolationError() error {
	return psqlerr.WithSeverity(psqlerr.WithCode(errProtocolViolation, codes.ProtocolViolation), psqlerr.LevelFatal)
}

func invalidPasswordError() error {
	return psqlerr.WithSeverity(psqlerr.WithCode(errInvalidPassword, codes.InvalidAuthorizationSpecification), psqlerr.LevelFatal)
}

func encryptionRequiredError() error {
	return psqlerr.WithSeverity(psqlerr.WithCode(errEncryptionRequired, codes.ConnectionException), psqlerr.LevelFatal)
}

func tooManyConnectionsError() error {
	return psqlerr.WithSeverity(psqlerr.WithCode(errTooManyConnections, codes.TooManyConnections), psqlerr.LevelFatal)
}

func starMixedError() error {
	return psqlerr.WithSeverity(psqlerr.WithCode(errStarMixedProjection, codes.Syntax), psqlerr.LevelError)
}

func statementTypeNotSupportedError(stmtType string) error {
	err := fmt.Errorf("%w: %q", errStatementNotSupported, stmtType)
	return psqlerr.WithSeverity(psqlerr.WithCode(err, codes.FeatureNotSupported), psqlerr.LevelError)
}
