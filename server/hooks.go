package server

import (
	"context"
	"fmt"

	"github.com/pgshim/pgshim/sql/ast"
)

// Hooks is the contract the embedding application implements. The core
// never holds any data of its own: every real SELECT and every
// information_schema probe that needs real table/column names is answered
// through these three methods.
type Hooks interface {
	// QueryTables answers a parsed SELECT with rows (each a column-name ->
	// value mapping) and the full ordered set of column names the backend
	// has available, used for "*"-expansion.
	QueryTables(ctx context.Context, stmt *ast.SelectStatement) (rows []map[string]string, cols []string, err error)
	// ListTables returns every table name visible to
	// information_schema.tables.
	ListTables(ctx context.Context) ([]string, error)
	// DescribeTable returns the column names of table, used to answer
	// information_schema.columns.
	DescribeTable(ctx context.Context, table string) ([]string, error)
}

// NoopHooks answers every query with no rows and no tables. It is the
// default when a Server is built without WithHooks, so a freshly
// constructed server is runnable without panicking on a nil interface.
type NoopHooks struct{}

func (NoopHooks) QueryTables(context.Context, *ast.SelectStatement) ([]map[string]string, []string, error) {
	return nil, nil, nil
}

func (NoopHooks) ListTables(context.Context) ([]string, error) { return nil, nil }

func (NoopHooks) DescribeTable(context.Context, string) ([]string, error) { return nil, nil }

// RecoverHook wraps h so a panic inside any hook method is converted into
// a regular error instead of crashing the session, for applications that
// want the same leniency this server's own internals are given.
func RecoverHook(h Hooks) Hooks {
	return &recoveringHooks{inner: h}
}

type recoveringHooks struct{ inner Hooks }

func (r *recoveringHooks) QueryTables(ctx context.Context, stmt *ast.SelectStatement) (rows []map[string]string, cols []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("hook panic: %v", rec)
		}
	}()
	return r.inner.QueryTables(ctx, stmt)
}

func (r *recoveringHooks) ListTables(ctx context.Context) (names []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("hook panic: %v", rec)
		}
	}()
	return r.inner.ListTables(ctx)
}

func (r *recoveringHooks) DescribeTable(ctx context.Context, table string) (cols []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("hook panic: %v", rec)
		}
	}()
	return r.inner.DescribeTable(ctx, table)
}
