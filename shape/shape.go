package shape

import (
	"strings"

	"github.com/pgshim/pgshim/sql/ast"
)

// Row is one output row: ordered text values aligned with the column
// descriptors returned alongside it.
type Row []string

// Shape projects raw hook data onto the columns requested by stmt.
//
// data is a sequence of column-name -> value mappings, as returned by the
// application hook; cols is the full ordered set of column names the hook
// has available, used only for "*"-expansion. A requested column missing
// from a given data row yields the empty string rather than an error.
func Shape(data []map[string]string, cols []string, stmt *ast.SelectStatement) ([]Row, []Column) {
	if stmt.IsStarProjection() {
		return shapeAll(data, cols)
	}

	return shapeProjected(data, stmt.Columns)
}

func shapeAll(data []map[string]string, cols []string) ([]Row, []Column) {
	columns := make([]Column, 0, len(cols))
	for _, c := range cols {
		columns = append(columns, TextColumn(c))
	}

	rows := make([]Row, 0, len(data))
	for _, record := range data {
		row := make(Row, len(cols))
		for i, c := range cols {
			row[i] = record[c]
		}
		rows = append(rows, row)
	}

	return rows, columns
}

func shapeProjected(data []map[string]string, selected []ast.SelectColumn) ([]Row, []Column) {
	keys := make([]string, len(selected))
	columns := make([]Column, len(selected))

	for i, col := range selected {
		key := col.Name
		if idx := strings.LastIndex(key, "."); idx != -1 {
			key = key[idx+1:]
		}
		keys[i] = key

		label := col.Alias
		if label == "" {
			label = key
		}
		columns[i] = TextColumn(label)
	}

	rows := make([]Row, 0, len(data))
	for _, record := range data {
		row := make(Row, len(keys))
		for i, key := range keys {
			row[i] = record[key]
		}
		rows = append(rows, row)
	}

	return rows, columns
}
