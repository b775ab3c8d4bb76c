package clause_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgshim/pgshim/sql/clause"
)

func TestMinifySQLStripsComments(t *testing.T) {
	sql := "SELECT 1 -- trailing comment\n/* block\ncomment */ FROM foo"
	assert.Equal(t, "SELECT 1    FROM foo", clause.MinifySQL(sql))
}

func TestStatementTypeRecognizesKnownKeyword(t *testing.T) {
	stmtType, err := clause.StatementType("select * from foo")
	require.NoError(t, err)
	assert.Equal(t, "SELECT", stmtType)
}

func TestStatementTypeRejectsUnknownKeyword(t *testing.T) {
	_, err := clause.StatementType("vacuum foo")
	require.ErrorIs(t, err, clause.ErrUnknownStatementType)
}

func TestStatementTypeRejectsEmpty(t *testing.T) {
	_, err := clause.StatementType("   ")
	require.ErrorIs(t, err, clause.ErrEmptyStatement)
}

func TestSplitAggregatesRepeatedKeyword(t *testing.T) {
	clauses, err := clause.Split("UPDATE foo SET a = 1 WHERE a = 2", clause.Keywords["UPDATE"])
	require.NoError(t, err)

	value, ok := clauses.First("set")
	require.True(t, ok)
	assert.Equal(t, "a = 1", value)

	value, ok = clauses.First("where")
	require.True(t, ok)
	assert.Equal(t, "a = 2", value)

	clauses, err = clause.Split("SELECT a FROM t WHERE x = 1 WHERE y = 2", clause.Keywords["SELECT"])
	require.NoError(t, err)
	assert.Equal(t, []string{"x = 1", "y = 2"}, clauses["where"])
}

func TestSplitHonorsParensAndQuotes(t *testing.T) {
	clauses, err := clause.Split("SELECT foo(1, 'from bar') FROM baz", clause.Keywords["SELECT"])
	require.NoError(t, err)

	sel, ok := clauses.First("select")
	require.True(t, ok)
	assert.Equal(t, "foo(1, 'from bar')", sel)

	from, ok := clauses.First("from")
	require.True(t, ok)
	assert.Equal(t, "baz", from)
}
