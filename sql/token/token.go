// Package token implements a forgiving, non-grammar-based SQL tokenizer. It
// does not understand SQL grammar; it only honors string quoting and
// balanced grouping delimiters while splitting on caller-supplied
// delimiters. It exists so the clause splitter can walk SQL text without
// accidentally cutting through a quoted literal or a nested expression.
package token

import (
	"errors"
	"strings"

	"github.com/pgshim/pgshim/codes"
	psqlerr "github.com/pgshim/pgshim/errors"
)

// ErrUnterminatedString is raised when a quoted string is never closed.
var ErrUnterminatedString = errors.New("expecting closing quote")

// ErrUnterminatedGroup is raised when a grouping delimiter is never closed.
var ErrUnterminatedGroup = errors.New("missing closing delimiter")

// Token is a single lexical unit together with its byte offset in the
// original input.
type Token struct {
	Text string
	Pos  int
}

// Group is a pair of opening/closing delimiters, matched case-insensitively
// and honoring nesting (e.g. "(" / ")", or "CASE " / " END").
type Group struct {
	Open  string
	Close string
}

// Tokenizer splits SQL-ish text into Tokens.
//
// Delimiters are checked, at every input position, in a fixed order:
// string delimiters first, then group delimiters, then split delimiters.
// Scanning left to right means the earliest match by byte position always
// wins; this fixed check order is the tie-break for delimiters that start
// at the very same position.
type Tokenizer struct {
	// StringDelimiters are single bytes that open and close a quoted run,
	// e.g. '\'' and '"'. The quote character closes on its own repetition;
	// there is no escape handling.
	StringDelimiters []byte
	// GroupDelimiters are nesting-aware open/close pairs.
	GroupDelimiters []Group
	// SplitDelimiters terminate the current token. Longer, more specific
	// delimiters should be listed before delimiters they are a prefix of
	// (e.g. ">=" before ">") since the first match in list order wins.
	SplitDelimiters []string
	// RemoveQuotes strips the enclosing quote characters from string runs.
	RemoveQuotes bool
	// SplitDelimitersAsTokens also emits the matched split delimiter as its
	// own token instead of silently discarding it.
	SplitDelimitersAsTokens bool
}

// New returns a Tokenizer configured with the defaults used throughout the
// clause splitter: double/single-quote strings, parenthesis grouping, and
// comma/space splitting.
func New() *Tokenizer {
	return &Tokenizer{
		StringDelimiters: []byte{'\'', '"'},
		GroupDelimiters:  []Group{{Open: "(", Close: ")"}},
		SplitDelimiters:  []string{",", " "},
	}
}

// TokenizeCommaSeparatedList tokenizes input using the caller's string and
// group delimiters but splitting only on commas.
func TokenizeCommaSeparatedList(t *Tokenizer, input string) ([]Token, error) {
	clone := *t
	clone.SplitDelimiters = []string{","}
	return clone.Tokenize(input)
}

// Tokenize splits input into Tokens honoring string and group delimiters.
func (t *Tokenizer) Tokenize(input string) ([]Token, error) {
	lower := strings.ToLower(input)
	n := len(input)

	var tokens []Token
	var raw strings.Builder
	rawStart := -1

	flush := func() {
		if rawStart == -1 {
			return
		}

		text := raw.String()
		trimmed := strings.TrimSpace(text)
		if trimmed != "" {
			leading := len(text) - len(strings.TrimLeft(text, " \t\r\n"))
			tokens = append(tokens, Token{Text: trimmed, Pos: rawStart + leading})
		}

		raw.Reset()
		rawStart = -1
	}

	i := 0
	for i < n {
		if isStringDelim(input[i], t.StringDelimiters) {
			if rawStart == -1 {
				rawStart = i
			}

			quote := input[i]
			j := i + 1
			for j < n && input[j] != quote {
				j++
			}
			if j >= n {
				return nil, syntaxError(ErrUnterminatedString)
			}

			if t.RemoveQuotes {
				raw.WriteString(input[i+1 : j])
			} else {
				raw.WriteString(input[i : j+1])
			}

			i = j + 1
			continue
		}

		if g, ok := matchGroupOpen(lower, i, t.GroupDelimiters); ok {
			if rawStart == -1 {
				rawStart = i
			}

			end, ok := scanGroup(lower, i, g)
			if !ok {
				return nil, syntaxError(ErrUnterminatedGroup)
			}

			raw.WriteString(input[i:end])
			i = end
			continue
		}

		if d, ok := matchSplit(lower, i, t.SplitDelimiters); ok {
			flush()

			if t.SplitDelimitersAsTokens {
				tokens = append(tokens, Token{Text: input[i : i+len(d)], Pos: i})
			}

			i += len(d)
			continue
		}

		if rawStart == -1 {
			rawStart = i
		}
		raw.WriteByte(input[i])
		i++
	}

	flush()
	return tokens, nil
}

func isStringDelim(b byte, delims []byte) bool {
	for _, d := range delims {
		if b == d {
			return true
		}
	}
	return false
}

func matchGroupOpen(lower string, pos int, groups []Group) (Group, bool) {
	for _, g := range groups {
		open := strings.ToLower(g.Open)
		if strings.HasPrefix(lower[pos:], open) {
			return g, true
		}
	}
	return Group{}, false
}

// scanGroup finds the end of a (possibly nested) group starting at pos,
// which must already be known to match g.Open. It returns the index
// immediately after the matching close delimiter.
func scanGroup(lower string, pos int, g Group) (int, bool) {
	open := strings.ToLower(g.Open)
	closeDelim := strings.ToLower(g.Close)

	depth := 1
	j := pos + len(open)
	n := len(lower)

	for j < n && depth > 0 {
		switch {
		case strings.HasPrefix(lower[j:], open):
			depth++
			j += len(open)
		case strings.HasPrefix(lower[j:], closeDelim):
			depth--
			j += len(closeDelim)
		default:
			j++
		}
	}

	if depth > 0 {
		return 0, false
	}

	return j, true
}

func matchSplit(lower string, pos int, delims []string) (string, bool) {
	for _, d := range delims {
		if d == "" {
			continue
		}
		if strings.HasPrefix(lower[pos:], strings.ToLower(d)) {
			return d, true
		}
	}
	return "", false
}

func syntaxError(err error) error {
	return psqlerr.WithSeverity(psqlerr.WithCode(err, codes.Syntax), psqlerr.LevelError)
}
