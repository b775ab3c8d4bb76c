package clause

import (
	"errors"
	"strings"

	"github.com/pgshim/pgshim/sql/token"
)

// ErrInvalidComparison is raised when a WHERE conjunct does not tokenize
// into exactly a left-hand side, an operator, and a right-hand side.
var ErrInvalidComparison = errors.New("invalid WHERE comparison")

// ErrColumnNotCompared is raised when no conjunct in the WHERE text
// compares the requested column.
var ErrColumnNotCompared = errors.New("column not compared in WHERE clause")

var conjunctTokenizer = &token.Tokenizer{
	StringDelimiters: []byte{'\'', '"'},
	GroupDelimiters:  []token.Group{{Open: "(", Close: ")"}},
	SplitDelimiters:  []string{" and ", " or "},
}

var comparisonTokenizer = &token.Tokenizer{
	StringDelimiters:        []byte{'\'', '"'},
	SplitDelimiters:         []string{">=", "<=", "<>", "!=", "=", "<", ">"},
	SplitDelimitersAsTokens: true,
	RemoveQuotes:            true,
}

// ExtractValueFromWhereComparison scans where for a top-level conjunct of
// the form "<col> <op> <value>" and returns value's raw text for the first
// conjunct whose left-hand side equals col (case-insensitively). and/or
// boundaries and comparison operators are recognized the same way
// regardless of statement type.
func ExtractValueFromWhereComparison(where, col string) (string, error) {
	conjuncts, err := conjunctTokenizer.Tokenize(where)
	if err != nil {
		return "", err
	}

	for _, conjunct := range conjuncts {
		parts, err := comparisonTokenizer.Tokenize(conjunct.Text)
		if err != nil {
			return "", err
		}

		if len(parts) != 3 {
			return "", syntaxError(ErrInvalidComparison)
		}

		lhs := strings.ToLower(strings.TrimSpace(parts[0].Text))
		if lhs == strings.ToLower(col) {
			return strings.TrimSpace(parts[2].Text), nil
		}
	}

	return "", syntaxError(ErrColumnNotCompared)
}
