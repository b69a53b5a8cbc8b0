// Package route holds the portal's static route table and the gating
// function that decides whether a visitor may see a page.
package route

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/stemsi/erp-portal/internal/model"
)

// Page identifies the handler that renders a route.
type Page string

// Access is who may reach a route. The zero value is public.
type Access struct {
	Role model.Role
}

// Public routes need no session.
var Public = Access{}

// RequireRole restricts a route to sessions of role.
func RequireRole(role model.Role) Access {
	return Access{Role: role}
}

// IsPublic reports whether no session is required.
func (a Access) IsPublic() bool {
	return a.Role == ""
}

func (a Access) String() string {
	if a.IsPublic() {
		return "public"
	}
	return string(a.Role)
}

// Route maps a method and path pattern to a page. Patterns use
// ":name" segments for parameters.
type Route struct {
	Method  string
	Pattern string
	Page    Page
	Access  Access

	segments []string
}

// Params are the values bound to a pattern's ":name" segments.
type Params map[string]string

// Match is the result of resolving a request path.
type Match struct {
	Route  Route
	Params Params
}

// NotFound reports whether the path matched no route.
func (m Match) NotFound() bool {
	return m.Route.Page == PageNotFound
}

var (
	ErrDuplicateRoute = errors.New("route: duplicate route")
	ErrBadPattern     = errors.New("route: bad pattern")
)

// Table is an immutable set of routes.
type Table struct {
	routes []Route
}

// NewTable validates routes and builds a Table. Two routes with the same
// method may never match the same path.
func NewTable(routes []Route) (*Table, error) {
	t := &Table{routes: make([]Route, 0, len(routes))}
	for _, r := range routes {
		if r.Method == "" {
			r.Method = http.MethodGet
		}
		segs, err := splitPattern(r.Pattern)
		if err != nil {
			return nil, err
		}
		if r.Page == "" {
			return nil, fmt.Errorf("%w: %s %s has no page", ErrBadPattern, r.Method, r.Pattern)
		}
		r.segments = segs
		for _, existing := range t.routes {
			if existing.Method == r.Method && overlaps(existing.segments, segs) {
				return nil, fmt.Errorf("%w: %s %s collides with %s", ErrDuplicateRoute, r.Method, r.Pattern, existing.Pattern)
			}
		}
		t.routes = append(t.routes, r)
	}
	return t, nil
}

// MustTable is NewTable for package-level tables.
func MustTable(routes []Route) *Table {
	t, err := NewTable(routes)
	if err != nil {
		panic(err)
	}
	return t
}

// Routes returns a copy of the table's routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Resolve finds the route for method and path. Unmatched paths resolve
// to the public not-found route.
func (t *Table) Resolve(method, path string) Match {
	segs := splitPath(path)
	for _, r := range t.routes {
		if r.Method != method {
			continue
		}
		if params, ok := bind(r.segments, segs); ok {
			return Match{Route: r, Params: params}
		}
	}
	return Match{
		Route:  Route{Method: method, Pattern: path, Page: PageNotFound, Access: Public},
		Params: Params{},
	}
}

// Lookup returns the route declared for page.
func (t *Table) Lookup(page Page) (Route, bool) {
	for _, r := range t.routes {
		if r.Page == page {
			return r, true
		}
	}
	return Route{}, false
}

// Path renders the route's pattern with params substituted.
func (r Route) Path(params Params) string {
	if len(r.segments) == 0 {
		return "/"
	}
	parts := make([]string, len(r.segments))
	for i, s := range r.segments {
		if strings.HasPrefix(s, ":") {
			parts[i] = params[s[1:]]
			continue
		}
		parts[i] = s
	}
	return "/" + strings.Join(parts, "/")
}

func splitPattern(pattern string) ([]string, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("%w: %q must start with /", ErrBadPattern, pattern)
	}
	segs := splitPath(pattern)
	seen := make(map[string]bool)
	for _, s := range segs {
		if s == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrBadPattern, pattern)
		}
		if strings.HasPrefix(s, ":") {
			name := s[1:]
			if name == "" || seen[name] {
				return nil, fmt.Errorf("%w: %q has a bad parameter", ErrBadPattern, pattern)
			}
			seen[name] = true
		}
	}
	return segs, nil
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func bind(pattern, path []string) (Params, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}
	params := Params{}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") {
			if path[i] == "" {
				return nil, false
			}
			params[seg[1:]] = path[i]
			continue
		}
		if seg != path[i] {
			return nil, false
		}
	}
	return params, true
}

func overlaps(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.HasPrefix(a[i], ":") || strings.HasPrefix(b[i], ":") {
			continue
		}
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
