// Package stream implements the PostgreSQL v3 message layer on top of the
// byte-level codec in internal/buffer: one method per message type, as
// described by the startup handshake and the simple/extended query flows.
package stream

import (
	"errors"
	"io"
	"log/slog"

	"github.com/pgshim/pgshim/codes"
	psqlerr "github.com/pgshim/pgshim/errors"
	"github.com/pgshim/pgshim/internal/buffer"
	"github.com/pgshim/pgshim/internal/types"
)

// Stream binds a buffer.Reader/Writer pair to a connection and exposes the
// protocol's message vocabulary.
type Stream struct {
	logger *slog.Logger
	reader *buffer.Reader
	writer *buffer.Writer
}

// New constructs a Stream over rw. bufferSize bounds both the read buffer
// and the largest single message accepted.
func New(logger *slog.Logger, rw io.ReadWriter, bufferSize int) *Stream {
	return &Stream{
		logger: logger,
		reader: buffer.NewReader(logger, rw, bufferSize),
		writer: buffer.NewWriter(logger, rw),
	}
}

// Rebind swaps the transport underneath the Stream, used after a TLS
// upgrade completes and the client re-sends its startup message over the
// now-encrypted connection.
func (s *Stream) Rebind(rw io.ReadWriter, bufferSize int) {
	s.reader = buffer.NewReader(s.logger, rw, bufferSize)
	s.writer = buffer.NewWriter(s.logger, rw)
}

// StartupMessage is the client's untagged opening message: a protocol
// version together with startup parameters (or none, for an
// encryption-negotiation sentinel version).
type StartupMessage struct {
	Version    types.Version
	Parameters map[string]string
}

// IsEncryptionNegotiation reports whether the startup message is an
// SSLRequest, GSSENCRequest, or CancelRequest sentinel rather than a real
// startup.
func (m *StartupMessage) IsEncryptionNegotiation() bool {
	switch m.Version {
	case types.VersionSSLRequest, types.VersionGSSENC, types.VersionCancel:
		return true
	default:
		return false
	}
}

// ReadStartupMessage reads the client's first, untagged message: an
// int32 length, an int32 version, and (for a real startup) a sequence of
// NUL-terminated key/value pairs terminated by an empty string.
func (s *Stream) ReadStartupMessage() (*StartupMessage, error) {
	size, err := s.reader.ReadMsgSize()
	if err != nil {
		return nil, err
	}

	if err := s.reader.Slurp(size); err != nil {
		return nil, err
	}

	v, err := s.reader.GetUint32()
	if err != nil {
		return nil, err
	}

	msg := &StartupMessage{Version: types.Version(v), Parameters: map[string]string{}}
	if msg.IsEncryptionNegotiation() {
		return msg, nil
	}

	for {
		key, err := s.reader.GetString()
		if err != nil {
			return nil, err
		}
		if key == "" {
			break
		}

		value, err := s.reader.GetString()
		if err != nil {
			return nil, err
		}

		msg.Parameters[key] = value
	}

	return msg, nil
}

// Encryption negotiation responses. These are single, unframed bytes, not
// tagged messages.
const (
	EncryptionAccept  byte = 'S'
	EncryptionGSSAuth byte = 'G'
	EncryptionDecline byte = 'N'
)

// WriteEncryptionResponse writes a single raw byte in reply to an
// SSLRequest/GSSENCRequest.
func (s *Stream) WriteEncryptionResponse(b byte) error {
	_, err := s.writer.Write([]byte{b})
	return err
}

// WriteAuthCleartextPassword requests a cleartext password
// (AuthenticationCleartextPassword, auth type 3).
func (s *Stream) WriteAuthCleartextPassword() error {
	s.writer.Start(types.ServerAuth)
	s.writer.AddInt32(3)
	return s.writer.End()
}

// WriteAuthOK sends AuthenticationOk (auth type 0).
func (s *Stream) WriteAuthOK() error {
	s.writer.Start(types.ServerAuth)
	s.writer.AddInt32(0)
	return s.writer.End()
}

// ReadPassword reads a PasswordMessage. Any tag other than 'p' yields an
// empty password rather than an error, per the handshake's tolerant
// handling of non-password replies.
func (s *Stream) ReadPassword() (string, error) {
	typed, _, err := s.reader.ReadTypedMsg()
	if err != nil {
		return "", err
	}

	if typed != types.ClientPassword {
		return "", nil
	}

	return s.reader.GetString()
}

// WriteParameterStatus emits one ParameterStatus message.
func (s *Stream) WriteParameterStatus(key, value string) error {
	s.writer.Start(types.ServerParameterStatus)
	s.writer.AddString(key)
	s.writer.AddNullTerminate()
	s.writer.AddString(value)
	s.writer.AddNullTerminate()
	return s.writer.End()
}

// Transaction status bytes reported at ReadyForQuery. This server is
// always idle: it never opens a real transaction.
const (
	TxIdle   byte = 'I'
	TxActive byte = 'T'
	TxFailed byte = 'E'
)

// WriteReady emits ReadyForQuery with the given transaction status byte.
func (s *Stream) WriteReady(status byte) error {
	s.writer.Start(types.ServerReady)
	s.writer.AddByte(status)
	return s.writer.End()
}

// WriteCommandComplete emits CommandComplete with the given command tag
// (e.g. "SELECT 3").
func (s *Stream) WriteCommandComplete(tag string) error {
	s.writer.Start(types.ServerCommandComplete)
	s.writer.AddString(tag)
	s.writer.AddNullTerminate()
	return s.writer.End()
}

// WriteEmptyQueryResponse emits EmptyQueryResponse.
func (s *Stream) WriteEmptyQueryResponse() error {
	s.writer.Start(types.ServerEmptyQuery)
	return s.writer.End()
}

// WriteError flattens err into severity/SQLSTATE/message and emits
// ErrorResponse carrying exactly those three fields, in that order.
func (s *Stream) WriteError(err error) error {
	flat := psqlerr.Flatten(err)

	s.writer.Start(types.ServerErrorResponse)
	s.writer.AddByte(byte(buffer.ErrFieldSeverity))
	s.writer.AddString(string(flat.Severity))
	s.writer.AddNullTerminate()
	s.writer.AddByte(byte(buffer.ErrFieldSQLState))
	s.writer.AddString(string(flat.Code))
	s.writer.AddNullTerminate()
	s.writer.AddByte(byte(buffer.ErrFieldMsgPrimary))
	s.writer.AddString(flat.Message)
	s.writer.AddNullTerminate()
	s.writer.AddByte(0)
	return s.writer.End()
}

// IsFatal reports whether err carries FATAL severity, meaning the session
// must end once the ErrorResponse has been flushed.
func IsFatal(err error) bool {
	return psqlerr.GetSeverity(err) == psqlerr.LevelFatal
}

// ReadQuery reads the payload of a simple Query ('Q') message: a single
// NUL-terminated SQL string.
func (s *Stream) ReadQuery() (string, error) {
	return s.reader.GetString()
}

// ReadMessage reads the tag and payload of the next tagged message. The
// payload is left decoded inside the Stream's buffer.Reader for the
// matching Read* method to consume.
func (s *Stream) ReadMessage() (types.ClientMessage, error) {
	typed, _, err := s.reader.ReadTypedMsg()
	return typed, err
}

var errUnsupported = errors.New("unsupported command")

// ErrUnsupportedCommand is raised when the command loop reads a tag it
// does not dispatch to any handler.
func ErrUnsupportedCommand() error {
	return psqlerr.WithSeverity(psqlerr.WithCode(errUnsupported, codes.FeatureNotSupported), psqlerr.LevelError)
}
