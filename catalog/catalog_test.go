package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgshim/pgshim/catalog"
	"github.com/pgshim/pgshim/sql/ast"
)

func TestIsBuiltinFunctionProbe(t *testing.T) {
	stmt := &ast.SelectStatement{Columns: []ast.SelectColumn{{Name: "current_schema()"}, {Name: "version()"}}}
	assert.True(t, catalog.IsBuiltinFunctionProbe(stmt))

	rows, cols := catalog.BuiltinFunctionProbe(stmt)
	require.Len(t, rows, 1)
	assert.Equal(t, "public", rows[0][0])
	assert.Equal(t, catalog.ServerVersion, rows[0][1])
	require.Len(t, cols, 2)
}

func TestIsBuiltinFunctionProbeRejectsTablesOrWhere(t *testing.T) {
	stmt := &ast.SelectStatement{
		Columns: []ast.SelectColumn{{Name: "current_schema()"}},
		From:    []ast.FromTable{{Name: "pg_class"}},
	}
	assert.False(t, catalog.IsBuiltinFunctionProbe(stmt))

	withWhere := &ast.SelectStatement{
		Columns: []ast.SelectColumn{{Name: "current_schema()"}},
		Where:   "x = 1",
	}
	assert.False(t, catalog.IsBuiltinFunctionProbe(withWhere))
}

func TestIsPgCatalogTableProbe(t *testing.T) {
	stmt := &ast.SelectStatement{From: []ast.FromTable{{Name: "pg_class"}, {Name: "pg_namespace"}}}
	assert.True(t, catalog.IsPgCatalogTableProbe(stmt))

	rows, _ := catalog.EmptyTableProbe(&ast.SelectStatement{Columns: []ast.SelectColumn{{Name: "*"}}, From: stmt.From})
	assert.Len(t, rows, 0)
}

func TestInformationSchemaTablesProbe(t *testing.T) {
	stmt := &ast.SelectStatement{
		Columns: []ast.SelectColumn{{Name: "table_name"}},
		From:    []ast.FromTable{{Schema: "information_schema", Name: "tables"}},
	}
	require.True(t, catalog.ReferencesInformationSchema(stmt))
	require.True(t, catalog.IsTablesProbe(stmt))

	rows, cols := catalog.TablesProbe([]string{"accounts", "widgets"}, stmt)
	require.Len(t, rows, 2)
	assert.Equal(t, "accounts", rows[0][0])
	require.Len(t, cols, 1)
	assert.Equal(t, "table_name", cols[0].Name)
}

func TestInformationSchemaColumnsProbe(t *testing.T) {
	stmt := &ast.SelectStatement{
		Columns: []ast.SelectColumn{{Name: "*"}},
		From:    []ast.FromTable{{Schema: "information_schema", Name: "columns"}},
	}
	require.True(t, catalog.IsColumnsProbe(stmt))

	rows, cols := catalog.ColumnsProbe([]string{"id", "name"}, stmt)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0][1]) // ordinal_position column
	require.Len(t, cols, 4)
}
