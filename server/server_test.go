package server

import (
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pgshim/pgshim/internal/buffer"
	"github.com/pgshim/pgshim/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testClient drives the client side of the wire protocol directly over
// internal/buffer, standing in for a real driver during these tests.
type testClient struct {
	t      *testing.T
	conn   net.Conn
	reader *buffer.Reader
	writer *buffer.Writer
}

func newTestClient(t *testing.T, conn net.Conn) *testClient {
	return &testClient{
		t:      t,
		conn:   conn,
		reader: buffer.NewReader(discardLogger(), conn, 8192),
		writer: buffer.NewWriter(discardLogger(), conn),
	}
}

func (c *testClient) sendStartup(params map[string]string) {
	bw := buffer.NewWriter(discardLogger(), io.Discard)
	bw.AddInt32(196608) // protocol version 3.0
	for k, v := range params {
		bw.AddString(k)
		bw.AddNullTerminate()
		bw.AddString(v)
		bw.AddNullTerminate()
	}
	bw.AddNullTerminate()
	payload := append([]byte{}, bw.Bytes()...)

	frame := make([]byte, 4)
	length := uint32(len(payload) + 4)
	frame[0] = byte(length >> 24)
	frame[1] = byte(length >> 16)
	frame[2] = byte(length >> 8)
	frame[3] = byte(length)

	_, err := c.conn.Write(append(frame, payload...))
	require.NoError(c.t, err)
}

func (c *testClient) sendPassword(password string) {
	c.writer.Start(types.ServerMessage(types.ClientPassword))
	c.writer.AddString(password)
	c.writer.AddNullTerminate()
	require.NoError(c.t, c.writer.End())
}

func (c *testClient) sendSimpleQuery(sql string) {
	c.writer.Start(types.ServerMessage(types.ClientSimpleQuery))
	c.writer.AddString(sql)
	c.writer.AddNullTerminate()
	require.NoError(c.t, c.writer.End())
}

func (c *testClient) readTag() types.ServerMessage {
	typed, _, err := c.reader.ReadTypedMsg()
	require.NoError(c.t, err)
	return types.ServerMessage(typed)
}

func (c *testClient) readUntilTag(target types.ServerMessage) {
	for {
		tag := c.readTag()
		if tag == target {
			return
		}
	}
}

func TestServerHandshakeAndSimpleQuery(t *testing.T) {
	srv := New(
		WithLogger(discardLogger()),
		WithHooks(&stubHooks{
			rows:      []map[string]string{{"id": "1", "name": "sprocket"}},
			available: []string{"id", "name"},
		}),
	)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go srv.Serve(listener)
	defer srv.Close()

	conn, err := net.DialTimeout("tcp", listener.Addr().String(), time.Second)
	require.NoError(t, err)
	defer conn.Close()

	client := newTestClient(t, conn)
	client.sendStartup(map[string]string{"user": "tester", "database": "tester"})

	// AuthenticationOk, then a run of ParameterStatus messages, then
	// ReadyForQuery before the connection will accept a query.
	client.readUntilTag(types.ServerMessage(types.ServerReady))

	client.sendSimpleQuery("SELECT * FROM widgets")

	client.readUntilTag(types.ServerMessage(types.ServerRowDescription))
	client.readUntilTag(types.ServerMessage(types.ServerDataRow))
	client.readUntilTag(types.ServerMessage(types.ServerCommandComplete))
	client.readUntilTag(types.ServerMessage(types.ServerReady))
}
