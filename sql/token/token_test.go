package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgshim/pgshim/sql/token"
)

func TestTokenizeSplitsOnCommaAndSpace(t *testing.T) {
	tk := token.New()
	tokens, err := tk.Tokenize("foo, bar baz")
	require.NoError(t, err)

	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}

	assert.Equal(t, []string{"foo", "bar", "baz"}, texts)
}

func TestTokenizeHonorsQuotedStrings(t *testing.T) {
	tk := token.New()
	tokens, err := tk.Tokenize("'hello, world', next")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "'hello, world'", tokens[0].Text)
	assert.Equal(t, "next", tokens[1].Text)
}

func TestTokenizeRemoveQuotes(t *testing.T) {
	tk := token.New()
	tk.RemoveQuotes = true
	tokens, err := tk.Tokenize("'hello', 'world'")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "hello", tokens[0].Text)
	assert.Equal(t, "world", tokens[1].Text)
}

func TestTokenizeUnterminatedStringErrors(t *testing.T) {
	tk := token.New()
	_, err := tk.Tokenize("'unterminated")
	require.ErrorIs(t, err, token.ErrUnterminatedString)
}

func TestTokenizeNestedParens(t *testing.T) {
	tk := token.New()
	tokens, err := tk.Tokenize("count(foo(bar)) as cnt")
	require.NoError(t, err)

	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}

	assert.Equal(t, []string{"count(foo(bar))", "as", "cnt"}, texts)
}

func TestTokenizeCaseEndGroup(t *testing.T) {
	tk := &token.Tokenizer{
		StringDelimiters: []byte{'\'', '"'},
		GroupDelimiters: []token.Group{
			{Open: "(", Close: ")"},
			{Open: "CASE ", Close: " END"},
		},
		SplitDelimiters: []string{",", " "},
		RemoveQuotes:    true,
	}

	tokens, err := tk.Tokenize("CASE WHEN x = 1 THEN 'a' ELSE 'b' END AS result")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, "CASE WHEN x = 1 THEN 'a' ELSE 'b' END", tokens[0].Text)
	assert.Equal(t, "AS", tokens[1].Text)
	assert.Equal(t, "result", tokens[2].Text)
}

func TestTokenizeMissingGroupCloseErrors(t *testing.T) {
	tk := token.New()
	_, err := tk.Tokenize("count(foo")
	require.ErrorIs(t, err, token.ErrUnterminatedGroup)
}

func TestTokenizeSplitDelimitersAsTokens(t *testing.T) {
	tk := &token.Tokenizer{
		SplitDelimiters:         []string{">=", ">", "="},
		SplitDelimitersAsTokens: true,
	}

	tokens, err := tk.Tokenize("age >= 21")
	require.NoError(t, err)

	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}

	assert.Equal(t, []string{"age", ">=", "21"}, texts)
}

func TestTokenizeCommaSeparatedList(t *testing.T) {
	tokens, err := token.TokenizeCommaSeparatedList(token.New(), "a, b(c, d), e")
	require.NoError(t, err)

	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}

	assert.Equal(t, []string{"a", "b(c, d)", "e"}, texts)
}

func TestTokenizePositionsTrackByteOffsets(t *testing.T) {
	tk := token.New()
	tokens, err := tk.Tokenize("foo, bar")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, 0, tokens[0].Pos)
	assert.Equal(t, 5, tokens[1].Pos)
}
