// Package server implements the session and connection-acceptance layer of
// the wire protocol shim: a Server accepts connections, runs each through
// the startup handshake, and hands it off to a Session that loops over
// simple and extended query protocol messages, dispatching every SELECT to
// an embedding application's Hooks.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/pgshim/pgshim/auth"
)

// defaultBufferSize bounds both the read buffer and the largest single
// message a connection accepts, matching the teacher's default.
const defaultBufferSize = 8192

// defaultApplicationName is announced as the application_name parameter
// when no WithApplicationName option overrides it.
const defaultApplicationName = "postgres-proto"

// Server accepts Postgres wire protocol connections and serves them against
// a configured set of Hooks.
type Server struct {
	logger                      *slog.Logger
	hooks                       Hooks
	authenticator               auth.Authenticator
	bufferSize                  int
	applicationName             string
	tlsConfig                   *tls.Config
	requireEncryption           bool
	maxClients                  int
	ignoreMissingStatementTypes map[string]bool
	surfaceExecuteErrors        bool
	metrics                     *Metrics

	mu      sync.Mutex
	clients int

	closing atomic.Bool
	closer  chan struct{}
	wg      sync.WaitGroup
}

// New constructs a Server. Without WithHooks it answers every real query
// with zero rows, and without WithAuthenticator it never solicits a
// password.
func New(opts ...OptionFn) *Server {
	srv := &Server{
		logger:                      slog.Default(),
		hooks:                       NoopHooks{},
		authenticator:               auth.Open{},
		bufferSize:                  defaultBufferSize,
		applicationName:             defaultApplicationName,
		ignoreMissingStatementTypes: map[string]bool{},
		closer:                      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(srv)
	}

	return srv
}

// ListenAndServe opens a TCP listener on address and serves connections
// until the server is closed.
func (srv *Server) ListenAndServe(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}

	return srv.Serve(listener)
}

// Serve accepts and serves connections from listener until Close is
// called, at which point listener is closed and Serve returns nil.
func (srv *Server) Serve(listener net.Listener) error {
	defer srv.logger.Info("closing server")
	srv.logger.Info("serving incoming connections", slog.String("addr", listener.Addr().String()))

	srv.wg.Add(1)
	go func() {
		defer srv.wg.Done()
		<-srv.closer

		if err := listener.Close(); err != nil {
			srv.logger.Error("unexpected error closing listener", "err", err)
		}
	}()

	for {
		conn, err := listener.Accept()
		if errors.Is(err, net.ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		go func() {
			ctx := context.Background()
			if err := srv.handleConn(ctx, conn); err != nil {
				srv.logger.Error("connection ended with an error", "err", err)
			}
		}()
	}
}

// Close gracefully stops the server: the listener is closed and Serve
// returns once the accept loop notices. In-flight connections are not
// forcibly terminated.
func (srv *Server) Close() error {
	if srv.closing.Load() {
		return nil
	}

	srv.closing.Store(true)
	close(srv.closer)
	srv.wg.Wait()
	return nil
}

func (srv *Server) handleConn(ctx context.Context, conn net.Conn) error {
	defer conn.Close()

	if !srv.acquireSlot() {
		srv.logger.Warn("rejecting connection, max client limit reached")
		return srv.rejectTooManyConnections(conn)
	}
	defer srv.releaseSlot()

	if srv.metrics != nil {
		srv.metrics.ConnectionOpened()
		defer srv.metrics.ConnectionClosed()
	}

	session := newSession(srv, conn)
	return session.run(ctx)
}

// acquireSlot reports whether the connection is admitted under maxClients.
// maxClients of zero means unlimited.
func (srv *Server) acquireSlot() bool {
	if srv.maxClients <= 0 {
		return true
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.clients >= srv.maxClients {
		return false
	}

	srv.clients++
	return true
}

func (srv *Server) releaseSlot() {
	if srv.maxClients <= 0 {
		return
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.clients--
}

// rejectTooManyConnections writes a bare error response without running
// the handshake, since the client has not yet negotiated a buffer size or
// encryption.
func (srv *Server) rejectTooManyConnections(conn net.Conn) error {
	s := newSessionStream(srv, conn)
	if err := s.WriteError(tooManyConnectionsError()); err != nil {
		return fmt.Errorf("writing too-many-connections error: %w", err)
	}
	return nil
}
