package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgshim/pgshim/server/prepared"
)

func TestSubstituteParams(t *testing.T) {
	query := "SELECT * FROM widgets WHERE name = $1 AND id = $2"
	out := substituteParams(query, [][]byte{[]byte("o'brien"), []byte("3")})
	assert.Equal(t, "SELECT * FROM widgets WHERE name = 'o''brien' AND id = '3'", out)
}

func TestSubstituteParamsNull(t *testing.T) {
	out := substituteParams("SELECT $1", [][]byte{nil})
	assert.Equal(t, "SELECT NULL", out)
}

func TestSubstituteParamsHighIndexesDoNotCollide(t *testing.T) {
	params := make([][]byte, 10)
	for i := range params {
		params[i] = []byte("x")
	}
	out := substituteParams("a=$1 j=$10", params)
	assert.Equal(t, "a='x' j='x'", out)
}

func TestComputePortalResultCaches(t *testing.T) {
	hooks := &stubHooks{rows: []map[string]string{{"id": "1"}}, available: []string{"id"}}
	stmt := &prepared.Statement{Query: "SELECT * FROM widgets"}
	portal := &prepared.Portal{Statement: ""}

	first, err := computePortalResult(context.Background(), hooks, nil, stmt, portal, false)
	require.NoError(t, err)

	hooks.rows = nil // mutate the backing hook; a cached result must not reflect this
	second, err := computePortalResult(context.Background(), hooks, nil, stmt, portal, false)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestComputePortalResultSwallowsErrorByDefault(t *testing.T) {
	stmt := &prepared.Statement{Query: "INSERT INTO widgets VALUES (1)"}
	portal := &prepared.Portal{}

	result, err := computePortalResult(context.Background(), &stubHooks{}, nil, stmt, portal, false)
	require.NoError(t, err)
	assert.True(t, result.Failed)
}

func TestComputePortalResultSurfacesErrorWhenConfigured(t *testing.T) {
	stmt := &prepared.Statement{Query: "INSERT INTO widgets VALUES (1)"}
	portal := &prepared.Portal{}

	_, err := computePortalResult(context.Background(), &stubHooks{}, nil, stmt, portal, true)
	assert.Error(t, err)
}
