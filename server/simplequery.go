package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgshim/pgshim/internal/stream"
	"github.com/pgshim/pgshim/server/prepared"
	"github.com/pgshim/pgshim/sql/token"
)

// simpleQuerySplitter splits a simple-query string into its semicolon
// separated sub-statements while still honoring quoted strings, nested
// parens, and CASE...END so a ';' inside any of those never splits the
// statement it belongs to.
var simpleQuerySplitter = &token.Tokenizer{
	StringDelimiters: []byte{'\'', '"'},
	GroupDelimiters: []token.Group{
		{Open: "(", Close: ")"},
		{Open: "CASE ", Close: " END"},
	},
	SplitDelimiters: []string{";"},
}

func splitSimpleQuery(sql string) ([]string, error) {
	tokens, err := simpleQuerySplitter.Tokenize(sql)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Text)
	}
	return out, nil
}

// handleSimpleQuery implements the simple query protocol: every
// sub-statement in the query string runs through the same dispatch path an
// extended-protocol Execute uses, and the whole batch always ends with
// ReadyForQuery, even when one of the sub-statements failed.
func (s *Session) handleSimpleQuery(ctx context.Context) error {
	raw, err := s.stream.ReadQuery()
	if err != nil {
		return err
	}

	raw = strings.TrimRight(raw, "\x00")
	if strings.TrimSpace(raw) == "" {
		if err := s.stream.WriteEmptyQueryResponse(); err != nil {
			return err
		}
		return s.stream.WriteReady(stream.TxIdle)
	}

	statements, err := splitSimpleQuery(raw)
	if err != nil {
		if werr := s.stream.WriteError(err); werr != nil {
			return werr
		}
		return s.stream.WriteReady(stream.TxIdle)
	}

	for _, stmt := range statements {
		if strings.TrimSpace(stmt) == "" {
			continue
		}

		result, err := ExecuteQuery(ctx, s.srv.hooks, s.srv.ignoreMissingStatementTypes, stmt)
		if err != nil {
			if werr := s.stream.WriteError(err); werr != nil {
				return werr
			}
			break
		}

		if err := s.writeSimpleResult(result); err != nil {
			return err
		}
	}

	return s.stream.WriteReady(stream.TxIdle)
}

func (s *Session) writeSimpleResult(result *prepared.Result) error {
	switch {
	case result.Empty, result.Failed:
		return s.stream.WriteEmptyQueryResponse()
	case result.PassThrough:
		return s.stream.WriteCommandComplete(result.CommandTag)
	}

	if err := s.stream.WriteRowDescription(result.Columns); err != nil {
		return err
	}

	for _, row := range result.Rows {
		if err := s.stream.WriteDataRow(row); err != nil {
			return err
		}
	}

	return s.stream.WriteCommandComplete(fmt.Sprintf("%s %d", result.CommandTag, len(result.Rows)))
}
