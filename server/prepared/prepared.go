// Package prepared holds a session's named prepared statements and
// portals, per §3's data model: the empty name is the unnamed
// statement/portal, legally overwritten by the next Parse/Bind.
package prepared

import (
	"sync"

	"github.com/pgshim/pgshim/shape"
)

// Statement is a registered prepared statement: raw SQL text and the
// declared parameter type OIDs, which this server never interprets.
type Statement struct {
	Query     string
	ParamOIDs []int32
}

// Result is a portal's lazily computed execution outcome. Empty marks a
// portal bound to blank SQL (after parameter substitution); Failed marks a
// swallowed dispatch error; PassThrough marks a recognized no-op statement
// type whose CommandComplete carries no row count.
type Result struct {
	CommandTag  string
	Rows        []shape.Row
	Columns     []shape.Column
	Empty       bool
	Failed      bool
	PassThrough bool
}

// Portal is a bound statement: parameter values and format codes, plus a
// cached Result invalidated on every re-bind.
type Portal struct {
	Statement     string
	ParamFormats  []int16
	Params        [][]byte
	ResultFormats []int16

	result *Result
}

// SetResult caches a computed result.
func (p *Portal) SetResult(r *Result) { p.result = r }

// Result returns the cached result, if one has been computed since the
// last bind.
func (p *Portal) Result() (*Result, bool) { return p.result, p.result != nil }

// Registry is a session's full set of named statements and portals. A
// connection is handled by exactly one goroutine, so the locking here
// guards against nothing real — it exists to match the defensive style the
// rest of this codebase uses around any shared map.
type Registry struct {
	mu         sync.Mutex
	statements map[string]*Statement
	portals    map[string]*Portal
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		statements: map[string]*Statement{},
		portals:    map[string]*Portal{},
	}
}

// AddStatement registers (or overwrites) a named statement.
func (r *Registry) AddStatement(name string, stmt *Statement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements[name] = stmt
}

// Statement looks up a registered statement.
func (r *Registry) Statement(name string) (*Statement, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.statements[name]
	return s, ok
}

// CloseStatement removes a named statement, reporting whether it existed.
// Closing a statement does not cascade to any portal bound from it.
func (r *Registry) CloseStatement(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.statements[name]; !ok {
		return false
	}
	delete(r.statements, name)
	return true
}

// Bind registers (or overwrites) a named portal.
func (r *Registry) Bind(name string, portal *Portal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.portals[name] = portal
}

// Portal looks up a bound portal.
func (r *Registry) Portal(name string) (*Portal, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.portals[name]
	return p, ok
}

// ClosePortal removes a named portal, reporting whether it existed.
func (r *Registry) ClosePortal(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.portals[name]; !ok {
		return false
	}
	delete(r.portals, name)
	return true
}
