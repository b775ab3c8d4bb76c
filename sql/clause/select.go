package clause

import (
	"errors"
	"strings"

	"github.com/pgshim/pgshim/sql/ast"
	"github.com/pgshim/pgshim/sql/token"
)

// ErrMissingClause is raised when a statement lacks a clause required to
// build its structural description (a SELECT whose column list cannot be
// found). FROM is optional: a SELECT without it has no tables.
var ErrMissingClause = errors.New("missing required clause")

// ErrEmptyExpression is raised when a comma-separated list entry tokenizes
// to nothing at all (e.g. a stray trailing comma).
var ErrEmptyExpression = errors.New("empty expression")

var exprTokenizer = &token.Tokenizer{
	StringDelimiters: []byte{'\'', '"'},
	GroupDelimiters: []token.Group{
		{Open: "(", Close: ")"},
		{Open: "CASE ", Close: " END"},
	},
	SplitDelimiters: []string{" "},
	RemoveQuotes:    true,
}

var listTokenizer = token.New()

// ParseSelect builds the structural description of a SELECT statement: its
// column list, source tables, and the remaining clauses carried through
// unparsed.
func ParseSelect(sql string) (*ast.SelectStatement, error) {
	clauses, err := Split(sql, Keywords["SELECT"])
	if err != nil {
		return nil, err
	}

	selectText, ok := clauses.First("select")
	if !ok {
		return nil, syntaxError(ErrMissingClause)
	}

	fromText, _ := clauses.First("from")

	columns, err := parseSelectColumns(selectText)
	if err != nil {
		return nil, err
	}

	from, err := parseFromTables(fromText)
	if err != nil {
		return nil, err
	}

	where, _ := clauses.First("where")
	groupBy, _ := clauses.First("group_by")
	orderBy, _ := clauses.First("order_by")
	limit, _ := clauses.First("limit")
	offset, _ := clauses.First("offset")

	return &ast.SelectStatement{
		Columns: columns,
		From:    from,
		Where:   where,
		GroupBy: groupBy,
		OrderBy: orderBy,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

func parseSelectColumns(selectText string) ([]ast.SelectColumn, error) {
	items, err := token.TokenizeCommaSeparatedList(listTokenizer, selectText)
	if err != nil {
		return nil, err
	}

	columns := make([]ast.SelectColumn, 0, len(items))
	for _, item := range items {
		col, err := parseSelectColumn(item.Text)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	return columns, nil
}

func parseSelectColumn(expr string) (ast.SelectColumn, error) {
	toks, err := exprTokenizer.Tokenize(expr)
	if err != nil {
		return ast.SelectColumn{}, err
	}
	if len(toks) == 0 {
		return ast.SelectColumn{}, syntaxError(ErrEmptyExpression)
	}

	name := strings.ToLower(toks[0].Text)

	var alias string
	switch {
	case strings.Contains(toks[0].Text, "("):
		alias = strings.ToLower(toks[0].Text[:strings.Index(toks[0].Text, "(")])
	case strings.Contains(toks[0].Text, "."):
		alias = strings.ToLower(toks[0].Text[strings.LastIndex(toks[0].Text, ".")+1:])
	}

	if len(toks) > 1 {
		alias = strings.ToLower(toks[len(toks)-1].Text)
	}

	return ast.SelectColumn{Name: name, Alias: alias}, nil
}

func parseFromTables(fromText string) ([]ast.FromTable, error) {
	items, err := token.TokenizeCommaSeparatedList(listTokenizer, fromText)
	if err != nil {
		return nil, err
	}

	tables := make([]ast.FromTable, 0, len(items))
	for _, item := range items {
		ft, err := parseFromEntry(item.Text)
		if err != nil {
			return nil, err
		}
		tables = append(tables, ft)
	}

	return tables, nil
}

func parseFromEntry(expr string) (ast.FromTable, error) {
	toks, err := exprTokenizer.Tokenize(expr)
	if err != nil {
		return ast.FromTable{}, err
	}
	if len(toks) == 0 {
		return ast.FromTable{}, syntaxError(ErrEmptyExpression)
	}

	first := strings.ToLower(toks[0].Text)

	var schema, name string
	if idx := strings.Index(first, "."); idx != -1 {
		schema, name = first[:idx], first[idx+1:]
	} else {
		name = first
	}

	var alias string
	if len(toks) > 1 {
		alias = strings.ToLower(toks[len(toks)-1].Text)
	}

	return ast.FromTable{Name: name, Schema: schema, Alias: alias}, nil
}
