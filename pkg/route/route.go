// Package route holds the static route table the dispatcher matches
// requests against.
package route

import (
	"github.com/Karim-Chrif/simple-http-server/pkg/response"
)

// Handler produces the response for a matched route. Handlers receive no
// request details; a route is the whole contract.
type Handler func() *response.Response

// Route binds one (method, path) pair to a handler
type Route struct {
	Method  string
	Path    string
	Handler Handler
}

// Matches reports whether the route covers the given method and path.
// Matching is exact string equality on both: no wildcards, no prefix
// matching, no trailing-slash normalization.
func (r Route) Matches(method, path string) bool {
	return r.Method == method && r.Path == path
}

// Table is the ordered, immutable set of routes built at startup
type Table struct {
	routes []Route
}

// NewTable builds a table from routes in registration order
func NewTable(routes []Route) *Table {
	t := &Table{routes: make([]Route, len(routes))}
	copy(t.routes, routes)
	return t
}

// Lookup scans the table in registration order and returns the first route
// matching (method, path). First match wins; a duplicate registration is
// unreachable.
func (t *Table) Lookup(method, path string) (Route, bool) {
	for _, r := range t.routes {
		if r.Matches(method, path) {
			return r, true
		}
	}
	return Route{}, false
}

// Len returns the number of registered routes
func (t *Table) Len() int {
	return len(t.routes)
}

// Routes returns a copy of the registered routes, for display purposes
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}
