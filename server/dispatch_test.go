package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgshim/pgshim/sql/ast"
)

type stubHooks struct {
	rows      []map[string]string
	available []string
	tables    []string
	columns   map[string][]string
}

func (s *stubHooks) QueryTables(ctx context.Context, stmt *ast.SelectStatement) ([]map[string]string, []string, error) {
	return s.rows, s.available, nil
}

func (s *stubHooks) ListTables(ctx context.Context) ([]string, error) {
	return s.tables, nil
}

func (s *stubHooks) DescribeTable(ctx context.Context, table string) ([]string, error) {
	return s.columns[table], nil
}

func TestExecuteQueryPassThrough(t *testing.T) {
	result, err := ExecuteQuery(context.Background(), &stubHooks{}, nil, "BEGIN")
	require.NoError(t, err)
	assert.True(t, result.PassThrough)
	assert.Equal(t, "BEGIN", result.CommandTag)
}

func TestExecuteQueryEmpty(t *testing.T) {
	result, err := ExecuteQuery(context.Background(), &stubHooks{}, nil, "   ")
	require.NoError(t, err)
	assert.True(t, result.Empty)
}

func TestExecuteQueryBuiltin(t *testing.T) {
	result, err := ExecuteQuery(context.Background(), &stubHooks{}, nil, "SELECT version()")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Contains(t, result.Rows[0][0], "PostgreSQL")
}

func TestExecuteQueryApplicationTable(t *testing.T) {
	hooks := &stubHooks{
		rows:      []map[string]string{{"id": "1", "name": "sprocket"}},
		available: []string{"id", "name"},
	}

	result, err := ExecuteQuery(context.Background(), hooks, nil, "SELECT * FROM widgets")
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "1", result.Rows[0][0])
	assert.Equal(t, "sprocket", result.Rows[0][1])
}

func TestExecuteQueryInformationSchemaTables(t *testing.T) {
	hooks := &stubHooks{tables: []string{"widgets", "gadgets"}}

	result, err := ExecuteQuery(context.Background(), hooks, nil, "SELECT table_name FROM information_schema.tables")
	require.NoError(t, err)
	assert.Len(t, result.Rows, 2)
}

func TestExecuteQueryStarMixedRejected(t *testing.T) {
	_, err := ExecuteQuery(context.Background(), &stubHooks{}, nil, "SELECT *, id FROM widgets")
	assert.Error(t, err)
}

func TestExecuteQueryUnsupportedStatementType(t *testing.T) {
	_, err := ExecuteQuery(context.Background(), &stubHooks{}, nil, "INSERT INTO widgets VALUES (1)")
	assert.Error(t, err)
}

func TestExecuteQueryIgnoredStatementType(t *testing.T) {
	ignore := map[string]bool{"INSERT": true}
	result, err := ExecuteQuery(context.Background(), &stubHooks{}, ignore, "INSERT INTO widgets VALUES (1)")
	require.NoError(t, err)
	assert.True(t, result.PassThrough)
	assert.Equal(t, "INSERT", result.CommandTag)
}

func TestExecuteQueryPgCatalogTableIsEmpty(t *testing.T) {
	result, err := ExecuteQuery(context.Background(), &stubHooks{}, nil, "SELECT * FROM pg_type")
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
}
