package stream_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgshim/pgshim/internal/stream"
	"github.com/pgshim/pgshim/internal/types"
	"github.com/pgshim/pgshim/shape"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteReadRowDescriptionAndDataRow(t *testing.T) {
	buf := &bytes.Buffer{}
	s := stream.New(discardLogger(), buf, 0)

	cols := []shape.Column{shape.TextColumn("id"), shape.TextColumn("name")}
	require.NoError(t, s.WriteRowDescription(cols))
	require.NoError(t, s.WriteDataRow(shape.Row{"1", "ada"}))

	typed, err := s.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, types.ServerRowDescription, types.ServerMessage(typed))

	typed, err = s.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, types.ServerDataRow, types.ServerMessage(typed))
}

func TestWriteCommandCompleteFramesLengthCorrectly(t *testing.T) {
	buf := &bytes.Buffer{}
	s := stream.New(discardLogger(), buf, 0)

	require.NoError(t, s.WriteCommandComplete("SELECT 1"))

	raw := buf.Bytes()
	require.Equal(t, byte('C'), raw[0])

	// length field covers itself plus the NUL-terminated tag
	expected := 4 + len("SELECT 1") + 1
	assert.Equal(t, expected, int(raw[1])<<24|int(raw[2])<<16|int(raw[3])<<8|int(raw[4]))
}

func TestReadParseRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	s := stream.New(discardLogger(), buf, 0)

	writer := bytes.Buffer{}
	writer.WriteString("stmt1\x00")
	writer.WriteString("select 1\x00")
	writer.Write([]byte{0, 0}) // zero declared param OIDs

	payload := writer.Bytes()
	buf.WriteByte('P')
	length := 4 + len(payload)
	buf.Write([]byte{byte(length >> 24), byte(length >> 16), byte(length >> 8), byte(length)})
	buf.Write(payload)

	typed, err := s.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, types.ClientParse, typed)

	msg, err := s.ReadParse()
	require.NoError(t, err)
	assert.Equal(t, "stmt1", msg.Statement)
	assert.Equal(t, "select 1", msg.Query)
	assert.Empty(t, msg.ParamOIDs)
}

func TestWriteErrorEmitsSeverityCodeMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	s := stream.New(discardLogger(), buf, 0)

	require.NoError(t, s.WriteError(stream.ErrUnsupportedCommand()))

	raw := buf.Bytes()
	assert.Equal(t, byte('E'), raw[0])
	assert.Contains(t, string(raw), "unsupported command")
}
