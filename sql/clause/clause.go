// Package clause implements the forgiving, non-grammar-based SQL splitter:
// it identifies a statement's type from its first keyword, decomposes the
// statement into named clauses using a fixed vocabulary per statement type,
// and hands SELECT off to a small structural parser. It never validates SQL
// the way a real parser would; unsupported constructs simply end up in the
// wrong clause or pass through untouched.
package clause

import (
	"errors"
	"strings"

	"github.com/pgshim/pgshim/codes"
	psqlerr "github.com/pgshim/pgshim/errors"
	"github.com/pgshim/pgshim/sql/token"
)

// ErrUnknownStatementType is raised when the minified statement's leading
// keyword is not in the known statement-type vocabulary.
var ErrUnknownStatementType = errors.New("unknown statement type")

// ErrEmptyStatement is raised when there is no SQL text to classify.
var ErrEmptyStatement = errors.New("empty statement")

// Keywords maps each supported statement type to its ordered clause
// vocabulary. Statement types present here with an empty slice are
// pass-through statements: they are recognized but never split further.
var Keywords = map[string][]string{
	"SELECT":     {"SELECT", "FROM", "WHERE", "GROUP BY", "ORDER BY", "LIMIT", "OFFSET"},
	"INSERT":     {"INTO", "VALUES", "RETURNING"},
	"UPDATE":     {"UPDATE", "SET", "FROM", "WHERE"},
	"DELETE":     {"FROM", "WHERE"},
	"PREPARE":    {"PREPARE", "AS"},
	"EXECUTE":    {"EXECUTE"},
	"SET":        {},
	"BEGIN":      {},
	"COMMIT":     {},
	"ROLLBACK":   {},
	"DEALLOCATE": {},
	"DISCARD":    {},
}

// MinifySQL strips line and block comments, collapses line breaks to
// spaces, and trims the result. It is only ever applied before statement
// type detection, never to clause values themselves.
func MinifySQL(sql string) string {
	var lines strings.Builder
	for _, line := range strings.Split(sql, "\n") {
		if idx := strings.Index(line, "--"); idx != -1 {
			line = line[:idx]
		}
		lines.WriteString(line)
		lines.WriteByte(' ')
	}

	s := lines.String()
	for {
		start := strings.Index(s, "/*")
		if start == -1 {
			break
		}

		rest := s[start+2:]
		end := strings.Index(rest, "*/")
		if end == -1 {
			s = s[:start]
			break
		}

		s = s[:start] + " " + rest[end+2:]
	}

	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}

// StatementType returns the uppercased leading keyword of the (minified)
// statement, validated against the known vocabulary.
func StatementType(sql string) (string, error) {
	minified := MinifySQL(sql)
	fields := strings.Fields(minified)
	if len(fields) == 0 {
		return "", syntaxError(ErrEmptyStatement)
	}

	stmtType := strings.ToUpper(fields[0])
	if _, ok := Keywords[stmtType]; !ok {
		return "", syntaxError(ErrUnknownStatementType)
	}

	return stmtType, nil
}

// Clauses is the set of clause values found in a statement, keyed by the
// snake_case form of the clause keyword ("GROUP BY" -> "group_by"). A
// keyword that appears more than once aggregates its values in order of
// appearance.
type Clauses map[string][]string

// First returns the first (or only) value recorded for key, and whether one
// was found at all.
func (c Clauses) First(key string) (string, bool) {
	values, ok := c[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

type boundary struct {
	key   string
	start int
	end   int
}

// Split walks the SQL text (honoring string/group delimiters via the
// tokenizer) looking for occurrences of each keyword in the given
// vocabulary, at token boundaries, case-insensitively. Keywords may be
// multi-word n-grams ("GROUP BY"). The raw text strictly between two
// consecutive keyword matches becomes the value of the earlier keyword.
func Split(sql string, keywords []string) (Clauses, error) {
	tk := token.New()
	tk.SplitDelimiters = []string{" "}

	toks, err := tk.Tokenize(sql)
	if err != nil {
		return nil, err
	}

	var bounds []boundary
	i := 0
	for i < len(toks) {
		kw, width, ok := matchKeyword(toks, i, keywords)
		if !ok {
			i++
			continue
		}

		last := toks[i+width-1]
		bounds = append(bounds, boundary{
			key:   normalizeKey(kw),
			start: toks[i].Pos,
			end:   last.Pos + len(last.Text),
		})
		i += width
	}

	clauses := Clauses{}
	for idx, b := range bounds {
		next := len(sql)
		if idx+1 < len(bounds) {
			next = bounds[idx+1].start
		}

		value := strings.TrimSpace(sql[b.end:next])
		clauses[b.key] = append(clauses[b.key], value)
	}

	return clauses, nil
}

func matchKeyword(toks []token.Token, pos int, keywords []string) (string, int, bool) {
	for _, kw := range keywords {
		words := strings.Fields(kw)
		if pos+len(words) > len(toks) {
			continue
		}

		match := true
		for w, word := range words {
			if !strings.EqualFold(toks[pos+w].Text, word) {
				match = false
				break
			}
		}

		if match {
			return kw, len(words), true
		}
	}

	return "", 0, false
}

func normalizeKey(keyword string) string {
	return strings.ToLower(strings.ReplaceAll(keyword, " ", "_"))
}

func syntaxError(err error) error {
	return psqlerr.WithSeverity(psqlerr.WithCode(err, codes.Syntax), psqlerr.LevelError)
}
