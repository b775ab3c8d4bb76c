package server

import (
	"context"
	"strings"

	"github.com/pgshim/pgshim/catalog"
	"github.com/pgshim/pgshim/server/prepared"
	"github.com/pgshim/pgshim/shape"
	"github.com/pgshim/pgshim/sql/ast"
	"github.com/pgshim/pgshim/sql/clause"
)

// defaultIgnoredStatementTypes lists the statement types acknowledged with a
// bare CommandComplete by default, in addition to the unconditionally
// pass-through types already carried by an empty clause.Keywords vocabulary
// (SET, BEGIN, COMMIT, ROLLBACK, DEALLOCATE, DISCARD).
var defaultIgnoredStatementTypes = map[string]bool{}

// ExecuteQuery dispatches one already-extracted SQL statement: it
// classifies the statement type, routes recognized SELECT probes to the
// catalog package, routes every other SELECT to hooks.QueryTables, and
// acknowledges pass-through/ignored statement types without touching hooks
// at all.
func ExecuteQuery(ctx context.Context, hooks Hooks, ignoreMissingStatementTypes map[string]bool, sql string) (*prepared.Result, error) {
	minified := clause.MinifySQL(sql)
	if strings.TrimSpace(minified) == "" {
		return &prepared.Result{Empty: true}, nil
	}

	stmtType, err := clause.StatementType(minified)
	if err != nil {
		return nil, err
	}

	vocab := clause.Keywords[stmtType]
	if len(vocab) == 0 {
		return &prepared.Result{PassThrough: true, CommandTag: stmtType}, nil
	}

	if stmtType == "SELECT" {
		return executeSelect(ctx, hooks, minified)
	}

	if ignoreMissingStatementTypes[stmtType] {
		return &prepared.Result{PassThrough: true, CommandTag: stmtType}, nil
	}

	return nil, statementTypeNotSupportedError(stmtType)
}

func executeSelect(ctx context.Context, hooks Hooks, sql string) (*prepared.Result, error) {
	stmt, err := clause.ParseSelect(sql)
	if err != nil {
		return nil, err
	}

	if stmt.HasStar() && !stmt.IsStarProjection() {
		return nil, starMixedError()
	}

	var rows []shape.Row
	var cols []shape.Column

	switch {
	case catalog.IsBuiltinFunctionProbe(stmt):
		rows, cols = catalog.BuiltinFunctionProbe(stmt)

	case catalog.ReferencesInformationSchema(stmt):
		rows, cols, err = executeInformationSchema(ctx, hooks, stmt)
		if err != nil {
			return nil, err
		}

	case catalog.IsPgCatalogTableProbe(stmt):
		rows, cols = catalog.EmptyTableProbe(stmt)

	default:
		data, available, err := hooks.QueryTables(ctx, stmt)
		if err != nil {
			return nil, err
		}
		rows, cols = shape.Shape(data, available, stmt)
	}

	return &prepared.Result{CommandTag: "SELECT", Rows: rows, Columns: cols}, nil
}

func executeInformationSchema(ctx context.Context, hooks Hooks, stmt *ast.SelectStatement) ([]shape.Row, []shape.Column, error) {
	switch {
	case catalog.IsTablesProbe(stmt):
		names, err := hooks.ListTables(ctx)
		if err != nil {
			return nil, nil, err
		}
		rows, cols := catalog.TablesProbe(names, stmt)
		return rows, cols, nil

	case catalog.IsCharacterSetsProbe(stmt):
		rows, cols := catalog.CharacterSetsProbe(stmt)
		return rows, cols, nil

	case catalog.IsColumnsProbe(stmt):
		table, err := clause.ExtractValueFromWhereComparison(stmt.Where, "table_name")
		if err != nil {
			return nil, nil, err
		}
		table = strings.Trim(strings.TrimSpace(table), "'\"")

		names, err := hooks.DescribeTable(ctx, table)
		if err != nil {
			return nil, nil, err
		}
		rows, cols := catalog.ColumnsProbe(names, stmt)
		return rows, cols, nil

	default:
		rows, cols := shape.Shape(nil, nil, stmt)
		return rows, cols, nil
	}
}
