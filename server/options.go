package server

import (
	"crypto/tls"
	"log/slog"

	"github.com/pgshim/pgshim/auth"
)

// OptionFn configures a Server at construction time.
type OptionFn func(*Server)

// WithLogger sets the structured logger threaded through every
// connection's stream and session.
func WithLogger(logger *slog.Logger) OptionFn {
	return func(s *Server) { s.logger = logger }
}

// WithHooks sets the application hooks this server dispatches real
// SELECTs and information_schema probes to.
func WithHooks(h Hooks) OptionFn {
	return func(s *Server) { s.hooks = h }
}

// WithAuthenticator sets the password authenticator used during the
// handshake. Defaults to auth.Open{}, which never requires a password.
func WithAuthenticator(a auth.Authenticator) OptionFn {
	return func(s *Server) { s.authenticator = a }
}

// WithBufferSize overrides the default per-connection buffer size.
func WithBufferSize(n int) OptionFn {
	return func(s *Server) { s.bufferSize = n }
}

// WithApplicationName overrides the application_name parameter announced
// during the handshake.
func WithApplicationName(name string) OptionFn {
	return func(s *Server) { s.applicationName = name }
}

// WithTLSConfig enables SSLRequest negotiation using cfg. Without this
// option every SSLRequest is declined.
func WithTLSConfig(cfg *tls.Config) OptionFn {
	return func(s *Server) { s.tlsConfig = cfg }
}

// WithRequireEncryption rejects any connection that does not negotiate
// TLS during startup.
func WithRequireEncryption(v bool) OptionFn {
	return func(s *Server) { s.requireEncryption = v }
}

// WithMaxClients caps the number of concurrently open connections.
// Acceptance beyond the limit is fatal for that connection only; zero
// (the default) means unlimited.
func WithMaxClients(n int) OptionFn {
	return func(s *Server) { s.maxClients = n }
}

// WithIgnoreMissingStatementTypes sets the statement types that are
// acknowledged with a bare CommandComplete instead of being routed
// anywhere. SET, BEGIN, COMMIT, ROLLBACK, DEALLOCATE and DISCARD are always
// acknowledged this way, whatever this set holds.
func WithIgnoreMissingStatementTypes(types ...string) OptionFn {
	return func(s *Server) {
		set := make(map[string]bool, len(types))
		for _, t := range types {
			set[t] = true
		}
		s.ignoreMissingStatementTypes = set
	}
}

// WithSurfaceExecuteErrors makes Execute re-raise a dispatch error instead
// of the default lenient behavior of swallowing it and returning
// EmptyQueryResponse.
func WithSurfaceExecuteErrors(v bool) OptionFn {
	return func(s *Server) { s.surfaceExecuteErrors = v }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *Metrics) OptionFn {
	return func(s *Server) { s.metrics = m }
}
