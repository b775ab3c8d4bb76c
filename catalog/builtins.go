// Package catalog answers the driver bootstrap queries issued against
// pg_catalog and information_schema, without any real system catalog
// behind it. Every answer here is either a canned scalar value or derived
// from data the caller already fetched through an application hook.
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/pgshim/pgshim/shape"
	"github.com/pgshim/pgshim/sql/ast"
)

// ServerVersion is the version string reported by version().
const ServerVersion = "PostgreSQL 13.1 (pgshim)"

var pgBackendPID = decimal.NewFromInt(0)

// builtinScalar maps a recognized function-call column expression to the
// value this server returns for it. pg_backend_pid() is routed through
// decimal.Decimal before stringification since it is a numeric-looking
// value, the same way the rest of this codebase formats numeric scalars.
func builtinScalar(name string) (string, bool) {
	switch name {
	case "current_schema()":
		return "public", true
	case "version()":
		return ServerVersion, true
	case "pg_backend_pid()":
		return pgBackendPID.String(), true
	default:
		return "", false
	}
}

// IsBuiltinFunctionProbe reports whether stmt is a table-free, WHERE-free
// SELECT of nothing but recognized builtin scalar functions.
func IsBuiltinFunctionProbe(stmt *ast.SelectStatement) bool {
	if len(stmt.From) != 0 || stmt.Where != "" || len(stmt.Columns) == 0 {
		return false
	}

	for _, c := range stmt.Columns {
		if _, ok := builtinScalar(c.Name); !ok {
			return false
		}
	}

	return true
}

// BuiltinFunctionProbe answers a builtin scalar-function SELECT with a
// single row carrying each requested function's fixed value.
func BuiltinFunctionProbe(stmt *ast.SelectStatement) ([]shape.Row, []shape.Column) {
	row := make(shape.Row, len(stmt.Columns))
	cols := make([]shape.Column, len(stmt.Columns))

	for i, c := range stmt.Columns {
		value, _ := builtinScalar(c.Name)
		row[i] = value

		label := c.Alias
		if label == "" {
			label = c.Name
		}
		cols[i] = shape.TextColumn(label)
	}

	return []shape.Row{row}, cols
}
