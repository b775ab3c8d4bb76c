package server

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"

	"github.com/pgshim/pgshim/internal/stream"
	"github.com/pgshim/pgshim/internal/types"
	"github.com/pgshim/pgshim/server/prepared"
)

// Session runs one client connection end to end: the startup handshake,
// authentication, parameter announcement, and then the command loop that
// services simple and extended query protocol messages until the client
// terminates the connection or a fatal error occurs.
type Session struct {
	srv      *Server
	conn     net.Conn
	stream   *stream.Stream
	registry *prepared.Registry
	user     string
	database string
}

func newSession(srv *Server, conn net.Conn) *Session {
	return &Session{
		srv:      srv,
		conn:     conn,
		stream:   newSessionStream(srv, conn),
		registry: prepared.NewRegistry(),
	}
}

func newSessionStream(srv *Server, conn net.Conn) *stream.Stream {
	return stream.New(srv.logger, conn, srv.bufferSize)
}

// run drives the session's entire lifecycle.
func (s *Session) run(ctx context.Context) error {
	startup, err := s.handshake(ctx)
	if err != nil {
		_ = s.stream.WriteError(err)
		return err
	}

	if startup == nil {
		// A cancel request: nothing further to do on this connection.
		return nil
	}

	if err := s.authenticate(ctx, startup.Parameters); err != nil {
		_ = s.stream.WriteError(err)
		return err
	}

	if err := s.announceParameters(startup.Parameters); err != nil {
		return err
	}

	if err := s.stream.WriteReady(stream.TxIdle); err != nil {
		return err
	}

	return s.commandLoop(ctx)
}

// handshake negotiates the startup message, looping through any number of
// SSLRequest/GSSENCRequest encryption probes before the client sends its
// real startup parameters. It returns a nil message, nil error for a
// cancel request, which this server does not act on.
func (s *Session) handshake(ctx context.Context) (*stream.StartupMessage, error) {
	for {
		msg, err := s.stream.ReadStartupMessage()
		if err != nil {
			return nil, err
		}

		if !msg.IsEncryptionNegotiation() {
			if s.srv.requireEncryption {
				if _, ok := s.conn.(*tls.Conn); !ok {
					return nil, encryptionRequiredError()
				}
			}
			return msg, nil
		}

		switch msg.Version {
		case types.VersionCancel:
			return nil, nil

		case types.VersionSSLRequest:
			if err := s.negotiateTLS(); err != nil {
				return nil, err
			}

		default:
			if err := s.stream.WriteEncryptionResponse(stream.EncryptionDecline); err != nil {
				return nil, err
			}
		}
	}
}

func (s *Session) negotiateTLS() error {
	if s.srv.tlsConfig == nil || len(s.srv.tlsConfig.Certificates) == 0 {
		if s.srv.requireEncryption {
			return encryptionRequiredError()
		}
		return s.stream.WriteEncryptionResponse(stream.EncryptionDecline)
	}

	if err := s.stream.WriteEncryptionResponse(stream.EncryptionAccept); err != nil {
		return err
	}

	tlsConn := tls.Server(s.conn, s.srv.tlsConfig)
	s.conn = tlsConn
	s.stream.Rebind(tlsConn, s.srv.bufferSize)
	return nil
}

func (s *Session) authenticate(ctx context.Context, params map[string]string) error {
	s.user = params["user"]
	s.database = params["database"]
	if s.database == "" {
		s.database = s.user
	}

	if !s.srv.authenticator.IsAuthenticationNeeded(ctx, s.user, s.database) {
		return s.stream.WriteAuthOK()
	}

	if err := s.stream.WriteAuthCleartextPassword(); err != nil {
		return err
	}

	password, err := s.stream.ReadPassword()
	if err != nil {
		return err
	}

	if !s.srv.authenticator.Authenticate(ctx, s.user, password, s.database) {
		return invalidPasswordError()
	}

	return s.stream.WriteAuthOK()
}

// announceParameters emits the fixed set of ParameterStatus messages every
// client driver expects to see right after authentication.
func (s *Session) announceParameters(params map[string]string) error {
	name := s.srv.applicationName
	if v := params["application_name"]; v != "" {
		name = v
	}

	announcements := []struct{ key, value string }{
		{"server_version", "130000"},
		{"server_encoding", "UTF8"},
		{"client_encoding", "UTF8"},
		{"is_superuser", "off"},
		{"session_authorization", "off"},
		{"DateStyle", "ISO, MDY"},
		{"IntervalStyle", "postgres"},
		{"TimeZone", "GMT"},
		{"integer_datetimes", "on"},
		{"standard_conforming_strings", "on"},
		{"application_name", name},
	}

	for _, a := range announcements {
		if err := s.stream.WriteParameterStatus(a.key, a.value); err != nil {
			return err
		}
	}

	return nil
}

// commandLoop reads and dispatches messages until the client terminates
// the connection or a fatal error occurs. A non-fatal dispatch error is
// reported to the client and the loop continues.
func (s *Session) commandLoop(ctx context.Context) error {
	for {
		tag, err := s.stream.ReadMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if tag == types.ClientTerminate {
			return nil
		}

		if s.srv.metrics != nil {
			s.srv.metrics.CommandDispatched(tag.String())
		}

		dispatchErr := safeDispatch(func() error { return s.dispatch(ctx, tag) })
		if dispatchErr == nil {
			continue
		}

		if err := s.stream.WriteError(dispatchErr); err != nil {
			return err
		}

		if stream.IsFatal(dispatchErr) {
			return dispatchErr
		}
	}
}
