package clause_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgshim/pgshim/sql/ast"
	"github.com/pgshim/pgshim/sql/clause"
)

func TestParseSelectStar(t *testing.T) {
	stmt, err := clause.ParseSelect("SELECT * FROM users")
	require.NoError(t, err)
	require.Len(t, stmt.Columns, 1)
	assert.True(t, stmt.IsStarProjection())
	require.Len(t, stmt.From, 1)
	assert.Equal(t, "users", stmt.From[0].Name)
}

func TestParseSelectColumnsWithAliasAndFunction(t *testing.T) {
	stmt, err := clause.ParseSelect("SELECT count(*) AS cnt, t.name FROM people t WHERE t.age > 18")
	require.NoError(t, err)

	require.Len(t, stmt.Columns, 2)
	assert.Equal(t, ast.SelectColumn{Name: "count(*)", Alias: "cnt"}, stmt.Columns[0])
	assert.Equal(t, ast.SelectColumn{Name: "t.name", Alias: "name"}, stmt.Columns[1])

	require.Len(t, stmt.From, 1)
	assert.Equal(t, ast.FromTable{Name: "people", Alias: "t"}, stmt.From[0])
	assert.Equal(t, "t.age > 18", stmt.Where)
}

func TestParseSelectQualifiedFromTable(t *testing.T) {
	stmt, err := clause.ParseSelect("SELECT * FROM information_schema.tables")
	require.NoError(t, err)
	require.Len(t, stmt.From, 1)
	assert.Equal(t, "information_schema", stmt.From[0].Schema)
	assert.Equal(t, "tables", stmt.From[0].Name)
}

func TestParseSelectWithoutFromHasNoTables(t *testing.T) {
	stmt, err := clause.ParseSelect("SELECT 1")
	require.NoError(t, err)
	assert.Empty(t, stmt.From)
}

func TestExtractValueFromWhereComparison(t *testing.T) {
	value, err := clause.ExtractValueFromWhereComparison("table_name = 'accounts' and schema = 'public'", "table_name")
	require.NoError(t, err)
	assert.Equal(t, "accounts", value)
}

func TestExtractValueFromWhereComparisonColumnNotFound(t *testing.T) {
	_, err := clause.ExtractValueFromWhereComparison("a = 1", "b")
	require.ErrorIs(t, err, clause.ErrColumnNotCompared)
}
