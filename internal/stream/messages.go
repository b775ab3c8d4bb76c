package stream

import (
	"github.com/pgshim/pgshim/internal/buffer"
	"github.com/pgshim/pgshim/internal/types"
	"github.com/pgshim/pgshim/shape"
)

// ParseMessage is the payload of a Parse ('P') message.
type ParseMessage struct {
	Statement string
	Query     string
	ParamOIDs []int32
}

// ReadParse reads a Parse message: statement name, query text, and a list
// of declared parameter type OIDs (ignored semantically by this server).
func (s *Stream) ReadParse() (*ParseMessage, error) {
	name, err := s.reader.GetString()
	if err != nil {
		return nil, err
	}

	query, err := s.reader.GetString()
	if err != nil {
		return nil, err
	}

	count, err := s.reader.GetInt16()
	if err != nil {
		return nil, err
	}

	oids := make([]int32, count)
	for i := range oids {
		oids[i], err = s.reader.GetInt32()
		if err != nil {
			return nil, err
		}
	}

	return &ParseMessage{Statement: name, Query: query, ParamOIDs: oids}, nil
}

// WriteParseComplete emits ParseComplete.
func (s *Stream) WriteParseComplete() error {
	s.writer.Start(types.ServerParseComplete)
	return s.writer.End()
}

// BindMessage is the payload of a Bind ('B') message. A nil entry in
// Params represents a SQL NULL parameter.
type BindMessage struct {
	Portal        string
	Statement     string
	ParamFormats  []int16
	Params        [][]byte
	ResultFormats []int16
}

// ReadBind reads a Bind message: portal and statement name, parameter
// format codes, parameter values (length-prefixed, -1 meaning NULL), and
// result column format codes.
func (s *Stream) ReadBind() (*BindMessage, error) {
	portal, err := s.reader.GetString()
	if err != nil {
		return nil, err
	}

	statement, err := s.reader.GetString()
	if err != nil {
		return nil, err
	}

	nFormats, err := s.reader.GetInt16()
	if err != nil {
		return nil, err
	}

	formats := make([]int16, nFormats)
	for i := range formats {
		formats[i], err = s.reader.GetInt16()
		if err != nil {
			return nil, err
		}
	}

	nParams, err := s.reader.GetInt16()
	if err != nil {
		return nil, err
	}

	params := make([][]byte, nParams)
	for i := range params {
		length, err := s.reader.GetInt32()
		if err != nil {
			return nil, err
		}

		if length == -1 {
			params[i] = nil
			continue
		}

		params[i], err = s.reader.GetBytes(int(length))
		if err != nil {
			return nil, err
		}
	}

	nResults, err := s.reader.GetInt16()
	if err != nil {
		return nil, err
	}

	results := make([]int16, nResults)
	for i := range results {
		results[i], err = s.reader.GetInt16()
		if err != nil {
			return nil, err
		}
	}

	return &BindMessage{
		Portal:        portal,
		Statement:     statement,
		ParamFormats:  formats,
		Params:        params,
		ResultFormats: results,
	}, nil
}

// WriteBindComplete emits BindComplete.
func (s *Stream) WriteBindComplete() error {
	s.writer.Start(types.ServerBindComplete)
	return s.writer.End()
}

// ExecuteMessage is the payload of an Execute ('E') message.
type ExecuteMessage struct {
	Portal  string
	MaxRows int32
}

// ReadExecute reads an Execute message: portal name and max row count (0
// meaning unlimited).
func (s *Stream) ReadExecute() (*ExecuteMessage, error) {
	portal, err := s.reader.GetString()
	if err != nil {
		return nil, err
	}

	maxRows, err := s.reader.GetInt32()
	if err != nil {
		return nil, err
	}

	return &ExecuteMessage{Portal: portal, MaxRows: maxRows}, nil
}

// DescribeMessage is the shared payload shape of Describe ('D') and Close
// ('C') input messages: a portal-or-statement kind byte, then a name.
type DescribeMessage struct {
	Kind buffer.DescribeKind
	Name string
}

// ReadDescribe reads a Describe message.
func (s *Stream) ReadDescribe() (*DescribeMessage, error) {
	kind, err := s.reader.GetDescribeKind()
	if err != nil {
		return nil, err
	}

	name, err := s.reader.GetString()
	if err != nil {
		return nil, err
	}

	return &DescribeMessage{Kind: kind, Name: name}, nil
}

// ReadClose reads a Close message. It has the identical wire shape as
// Describe.
func (s *Stream) ReadClose() (*DescribeMessage, error) {
	return s.ReadDescribe()
}

// WriteCloseComplete emits CloseComplete.
func (s *Stream) WriteCloseComplete() error {
	s.writer.Start(types.ServerCloseComplete)
	return s.writer.End()
}

// WriteNoData emits NoData.
func (s *Stream) WriteNoData() error {
	s.writer.Start(types.ServerNoData)
	return s.writer.End()
}

// WriteRowDescription emits RowDescription for the given columns. Every
// column is reported with table OID 0, column attribute number 0, type
// modifier -1, and text format (0), matching this server's text-only
// result contract.
func (s *Stream) WriteRowDescription(cols []shape.Column) error {
	s.writer.Start(types.ServerRowDescription)
	s.writer.AddInt16(int16(len(cols)))

	for _, c := range cols {
		s.writer.AddString(c.Name)
		s.writer.AddNullTerminate()
		s.writer.AddInt32(0)
		s.writer.AddInt16(0)
		s.writer.AddInt32(int32(c.Oid))
		s.writer.AddInt16(c.Size)
		s.writer.AddInt32(-1)
		s.writer.AddInt16(0)
	}

	return s.writer.End()
}

// WriteDataRow emits one DataRow. Null fields are not supported by the
// shaper — a missing value surfaces as the empty string with length 0,
// never as a -1 length.
func (s *Stream) WriteDataRow(row shape.Row) error {
	s.writer.Start(types.ServerDataRow)
	s.writer.AddInt16(int16(len(row)))

	for _, v := range row {
		b := []byte(v)
		s.writer.AddInt32(int32(len(b)))
		s.writer.AddBytes(b)
	}

	return s.writer.End()
}
