package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgshim/pgshim/server/prepared"
)

// substituteParams performs the naive textual "$i" parameter substitution
// this server uses instead of a real bind-value protocol: every parameter
// is quoted as a SQL string literal (NULL for a nil value) and spliced
// directly into the statement text before it is handed to the same
// dispatch path a simple-query SELECT goes through. Placeholders are
// replaced highest-index first so "$10" is never corrupted by a "$1"
// substitution running first.
func substituteParams(query string, params [][]byte) string {
	for i := len(params); i >= 1; i-- {
		placeholder := fmt.Sprintf("$%d", i)

		value := params[i-1]
		var literal string
		if value == nil {
			literal = "NULL"
		} else {
			literal = "'" + strings.ReplaceAll(string(value), "'", "''") + "'"
		}

		query = strings.ReplaceAll(query, placeholder, literal)
	}

	return query
}

// computePortalResult runs (and caches) a bound portal's execution. A
// dispatch error is swallowed into a Result.Failed unless surfaceErrors is
// set. This leniency applies to Describe-portal and Execute only; the
// simple query protocol reports the same errors as ErrorResponse.
func computePortalResult(ctx context.Context, hooks Hooks, ignoreMissingStatementTypes map[string]bool, stmt *prepared.Statement, portal *prepared.Portal, surfaceErrors bool) (*prepared.Result, error) {
	if cached, ok := portal.Result(); ok {
		return cached, nil
	}

	query := substituteParams(stmt.Query, portal.Params)

	result, err := ExecuteQuery(ctx, hooks, ignoreMissingStatementTypes, query)
	if err != nil {
		if surfaceErrors {
			return nil, err
		}
		result = &prepared.Result{Failed: true}
	}

	portal.SetResult(result)
	return result, nil
}
