package catalog

import (
	"github.com/pgshim/pgshim/shape"
	"github.com/pgshim/pgshim/sql/ast"
)

// knownTables is the set of pg_catalog tables drivers are known to probe on
// connect. None of them are backed by real data; a query against any of
// them always answers with zero rows.
var knownTables = map[string]bool{
	"pg_matviews":  true,
	"pg_type":      true,
	"pg_index":     true,
	"pg_attribute": true,
	"pg_settings":  true,
	"pg_database":  true,
	"pg_roles":     true,
	"pg_user":      true,
	"pg_enum":      true,
	"pg_class":     true,
	"pg_namespace": true,
}

// IsPgCatalogTableProbe reports whether every table referenced by stmt is a
// recognized pg_catalog table.
func IsPgCatalogTableProbe(stmt *ast.SelectStatement) bool {
	if len(stmt.From) == 0 {
		return false
	}

	for _, t := range stmt.From {
		if !knownTables[t.Name] {
			return false
		}
	}

	return true
}

// EmptyTableProbe answers a recognized-but-empty pg_catalog SELECT with
// zero rows, still shaping column descriptors for whatever was requested.
func EmptyTableProbe(stmt *ast.SelectStatement) ([]shape.Row, []shape.Column) {
	return shape.Shape(nil, nil, stmt)
}
