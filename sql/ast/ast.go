// Package ast holds the structural description the clause splitter produces
// for a SELECT statement. There is no general expression tree: statements
// this system does not need to shape results for are passed through as a
// bare statement type, and SELECT itself is reduced to only what the query
// dispatch layer and result shaper need.
package ast

// SelectColumn is one entry of a SELECT column list.
type SelectColumn struct {
	// Name is the lowercased column expression, e.g. "count(*)", "t.id", "*".
	Name string
	// Alias is the user-visible output name, if one was given or inferred.
	Alias string
}

// FromTable is one entry of a FROM clause.
type FromTable struct {
	// Name is the lowercased table name.
	Name string
	// Schema is the lowercased schema qualifier, if any (e.g. "information_schema").
	Schema string
	// Alias is the table alias, if one was given.
	Alias string
}

// SelectStatement is the immutable structural description of a SELECT
// produced by the clause splitter. Clauses this system does not interpret
// (GroupBy, OrderBy, Limit, Offset) are carried through unparsed so they can
// still be echoed or ignored by the caller.
type SelectStatement struct {
	Columns []SelectColumn
	From    []FromTable
	Where   string
	GroupBy string
	OrderBy string
	Limit   string
	Offset  string
}

// IsStarProjection reports whether the column list is exactly a single,
// unaliased "*" — the only accepted use of "*" per the result shaper's
// expansion law.
func (s *SelectStatement) IsStarProjection() bool {
	return len(s.Columns) == 1 && s.Columns[0].Name == "*" && s.Columns[0].Alias == ""
}

// HasStar reports whether "*" appears anywhere in the column list, used to
// reject mixed "*, col" projections before IsStarProjection is checked.
func (s *SelectStatement) HasStar() bool {
	for _, c := range s.Columns {
		if c.Name == "*" {
			return true
		}
	}
	return false
}
