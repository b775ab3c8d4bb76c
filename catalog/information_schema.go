package catalog

import (
	"strconv"

	"github.com/pgshim/pgshim/shape"
	"github.com/pgshim/pgshim/sql/ast"
)

// InformationSchemaSchema is the schema name that routes a SELECT to these
// probes instead of the application's QueryTables hook.
const InformationSchemaSchema = "information_schema"

// ReferencesInformationSchema reports whether any table in stmt's FROM
// clause is schema-qualified to information_schema.
func ReferencesInformationSchema(stmt *ast.SelectStatement) bool {
	for _, t := range stmt.From {
		if t.Schema == InformationSchemaSchema {
			return true
		}
	}
	return false
}

// referencesTable reports whether stmt's FROM clause names the given
// information_schema table.
func referencesTable(stmt *ast.SelectStatement, name string) bool {
	for _, t := range stmt.From {
		if t.Schema == InformationSchemaSchema && t.Name == name {
			return true
		}
	}
	return false
}

// IsTablesProbe reports whether stmt queries information_schema.tables.
func IsTablesProbe(stmt *ast.SelectStatement) bool {
	return referencesTable(stmt, "tables")
}

// IsCharacterSetsProbe reports whether stmt queries
// information_schema.character_sets.
func IsCharacterSetsProbe(stmt *ast.SelectStatement) bool {
	return referencesTable(stmt, "character_sets")
}

// IsColumnsProbe reports whether stmt queries information_schema.columns.
func IsColumnsProbe(stmt *ast.SelectStatement) bool {
	return referencesTable(stmt, "columns")
}

// TablesProbe answers information_schema.tables with one row per table
// name, reporting every table as a public base table.
func TablesProbe(tableNames []string, stmt *ast.SelectStatement) ([]shape.Row, []shape.Column) {
	data := make([]map[string]string, len(tableNames))
	for i, name := range tableNames {
		data[i] = map[string]string{
			"table_name":   name,
			"table_schema": "public",
			"table_type":   "BASE TABLE",
		}
	}

	cols := []string{"table_name", "table_schema", "table_type"}
	return shape.Shape(data, cols, stmt)
}

// CharacterSetsProbe answers information_schema.character_sets with the
// single UTF8 row this server supports.
func CharacterSetsProbe(stmt *ast.SelectStatement) ([]shape.Row, []shape.Column) {
	data := []map[string]string{{"character_set_name": "UTF8"}}
	cols := []string{"character_set_name"}
	return shape.Shape(data, cols, stmt)
}

// ColumnsProbe answers information_schema.columns with one row per column
// name, in order, with a 1-based ordinal_position, always nullable, always
// text.
func ColumnsProbe(columnNames []string, stmt *ast.SelectStatement) ([]shape.Row, []shape.Column) {
	data := make([]map[string]string, len(columnNames))
	for i, name := range columnNames {
		data[i] = map[string]string{
			"column_name":      name,
			"ordinal_position": strconv.Itoa(i + 1),
			"is_nullable":      "t",
			"data_type":        "text",
		}
	}

	cols := []string{"column_name", "ordinal_position", "is_nullable", "data_type"}
	return shape.Shape(data, cols, stmt)
}
