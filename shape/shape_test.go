package shape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgshim/pgshim/sql/ast"
	"github.com/pgshim/pgshim/shape"
)

func TestShapeStarExpandsAllColumns(t *testing.T) {
	stmt := &ast.SelectStatement{Columns: []ast.SelectColumn{{Name: "*"}}}
	data := []map[string]string{{"id": "1", "name": "ada"}}

	rows, cols := shape.Shape(data, []string{"id", "name"}, stmt)
	require.Len(t, rows, 1)
	assert.Equal(t, shape.Row{"1", "ada"}, rows[0])
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "name", cols[1].Name)
}

func TestShapeProjectsAndAliases(t *testing.T) {
	stmt := &ast.SelectStatement{Columns: []ast.SelectColumn{
		{Name: "t.name", Alias: "full_name"},
	}}
	data := []map[string]string{{"name": "ada"}}

	rows, cols := shape.Shape(data, []string{"name"}, stmt)
	require.Len(t, rows, 1)
	assert.Equal(t, shape.Row{"ada"}, rows[0])
	require.Len(t, cols, 1)
	assert.Equal(t, "full_name", cols[0].Name)
}

func TestShapeMissingKeyYieldsEmptyString(t *testing.T) {
	stmt := &ast.SelectStatement{Columns: []ast.SelectColumn{{Name: "missing"}}}
	data := []map[string]string{{"other": "x"}}

	rows, _ := shape.Shape(data, []string{"other"}, stmt)
	require.Len(t, rows, 1)
	assert.Equal(t, shape.Row{""}, rows[0])
}
