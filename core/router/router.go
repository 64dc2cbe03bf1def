package router

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/message"
)

// AnyHost is the wildcard host. Its routes answer for every host without
// a more specific match.
const AnyHost = "*"

// Route is a registered endpoint. It is immutable once added.
type Route struct {
	Host    string
	Method  message.Method
	Pattern string
	Handler handler.HandlerFunc
}

// Match is the result of a successful lookup.
type Match struct {
	Route  *Route
	Params map[string]string
	Typed  map[string]any
}

// Router maps (host, method, path) to a route using one radix tree per host.
// Routes are added during setup; Match is safe for concurrent use.
type Router struct {
	mu    sync.RWMutex
	types *ParamTypes
	trees map[string]*node
	count int
}

// Option configures a Router.
type Option func(*Router)

// WithParamTypes replaces the default typed segment registry.
func WithParamTypes(types *ParamTypes) Option {
	return func(r *Router) {
		if types != nil {
			r.types = types
		}
	}
}

// New creates an empty router.
func New(opts ...Option) *Router {
	r := &Router{
		types: NewParamTypes(),
		trees: make(map[string]*node),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ParamTypes returns the typed segment registry used by the router.
func (r *Router) ParamTypes() *ParamTypes {
	return r.types
}

// Add registers route. An empty host is the wildcard host.
// Patterns may use ":name" as shorthand for "{name}".
func (r *Router) Add(route Route) error {
	if _, ok := message.ParseMethod(string(route.Method)); !ok {
		return fmt.Errorf("%w: '%s'", ErrInvalidMethod, route.Method)
	}
	if route.Handler == nil {
		return fmt.Errorf("%w: %s %s", ErrNilHandler, route.Method, route.Pattern)
	}

	route.Host = normalizeHost(route.Host)
	route.Pattern = normalizePattern(route.Pattern)
	keys, err := parsePattern(route.Pattern, r.types)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	root, ok := r.trees[route.Host]
	if !ok {
		root = &node{}
		r.trees[route.Host] = root
	}
	ep := &endpoint{route: &route, paramKeys: keys}
	if err := root.insertRoute(route.Method, route.Pattern, ep, r.types); err != nil {
		return fmt.Errorf("%w (host %s)", err, route.Host)
	}
	r.count++
	return nil
}

// Match resolves a request. The exact host tree is searched first, then the
// wildcard tree.
func (r *Router) Match(host string, method message.Method, path string) (Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	host = normalizeHost(host)
	if host != AnyHost {
		if root, ok := r.trees[host]; ok {
			if m, ok := lookup(root, method, path); ok {
				return m, true
			}
		}
	}
	if root, ok := r.trees[AnyHost]; ok {
		return lookup(root, method, path)
	}
	return Match{}, false
}

// Allowed lists the methods that have a route for path on host, in
// message.Methods order. An empty result means the path is unknown.
func (r *Router) Allowed(host, path string) []message.Method {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var roots []*node
	host = normalizeHost(host)
	if root, ok := r.trees[host]; ok && host != AnyHost {
		roots = append(roots, root)
	}
	if root, ok := r.trees[AnyHost]; ok {
		roots = append(roots, root)
	}

	var allowed []message.Method
	for _, method := range message.Methods() {
		for _, root := range roots {
			if root.findRoute(method, path, &routeParams{}) != nil {
				allowed = append(allowed, method)
				break
			}
		}
	}
	return allowed
}

func lookup(root *node, method message.Method, path string) (Match, bool) {
	rp := &routeParams{}
	ep := root.findRoute(method, path, rp)
	if ep == nil {
		return Match{}, false
	}

	m := Match{
		Route:  ep.route,
		Params: make(map[string]string, len(ep.paramKeys)),
		Typed:  make(map[string]any, len(ep.paramKeys)),
	}
	for i, key := range ep.paramKeys {
		if i >= len(rp.Values) {
			break
		}
		m.Params[key] = rp.Values[i]
		if rp.Typed[i] != nil {
			m.Typed[key] = rp.Typed[i]
		}
	}
	return m, true
}

// Routes returns every registered route ordered by host, pattern and method.
func (r *Router) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Route, 0, r.count)
	for _, root := range r.trees {
		for _, rt := range root.routes() {
			out = append(out, *rt)
		}
	}
	slices.SortFunc(out, func(a, b Route) int {
		return cmp.Or(
			cmp.Compare(a.Host, b.Host),
			cmp.Compare(a.Pattern, b.Pattern),
			cmp.Compare(a.Method, b.Method),
		)
	})
	return out
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return AnyHost
	}
	return host
}
