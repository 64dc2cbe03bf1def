package router

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/message"
)

// Scope is the registration context applied to routes added inside it.
// Host replaces the enclosing host when set; Prefix and Middleware extend
// the enclosing ones.
type Scope struct {
	Host       string
	Prefix     string
	Middleware []handler.Middleware
}

// Builder registers routes on a Router under a stack of scopes.
// It is meant for single-goroutine application setup.
type Builder struct {
	router *Router
	cur    Scope
}

// NewBuilder returns a builder with an empty root scope.
func NewBuilder(r *Router) *Builder {
	return &Builder{router: r}
}

// Router returns the underlying router.
func (b *Builder) Router() *Router {
	return b.router
}

// Current returns a copy of the active scope.
func (b *Builder) Current() Scope {
	s := b.cur
	s.Middleware = slices.Clone(b.cur.Middleware)
	return s
}

// Scope pushes s for the duration of fn. The previous scope is restored
// when fn returns or panics.
func (b *Builder) Scope(s Scope, fn func(b *Builder)) {
	saved := b.cur
	defer func() { b.cur = saved }()

	next := Scope{
		Host:   saved.Host,
		Prefix: joinPath(saved.Prefix, s.Prefix),
		// clipped so appends inside fn never write into the saved stack
		Middleware: append(slices.Clip(saved.Middleware), s.Middleware...),
	}
	if s.Host != "" {
		next.Host = s.Host
	}
	b.cur = next
	fn(b)
}

// Group adds routes under a path prefix.
func (b *Builder) Group(prefix string, fn func(b *Builder)) {
	b.Scope(Scope{Prefix: prefix}, fn)
}

// Host adds routes that only answer for host.
func (b *Builder) Host(host string, fn func(b *Builder)) {
	b.Scope(Scope{Host: host}, fn)
}

// With adds routes wrapped by extra middleware.
func (b *Builder) With(middlewares []handler.Middleware, fn func(b *Builder)) {
	b.Scope(Scope{Middleware: middlewares}, fn)
}

// Use appends middleware to the active scope. Routes added afterwards in
// the same scope are wrapped by it.
func (b *Builder) Use(middlewares ...handler.Middleware) {
	b.cur.Middleware = append(slices.Clip(b.cur.Middleware), middlewares...)
}

// Add registers h for method and path under the active scope. The scoped
// middleware wraps h with the outermost scope running first.
// It panics on invalid or duplicate routes.
func (b *Builder) Add(method message.Method, path string, h handler.HandlerFunc) {
	if h == nil {
		panic(fmt.Errorf("%w: %s %s", ErrNilHandler, method, path))
	}
	route := Route{
		Host:    b.cur.Host,
		Method:  method,
		Pattern: joinPath(b.cur.Prefix, path),
		Handler: handler.Chain(b.cur.Middleware, h),
	}
	if err := b.router.Add(route); err != nil {
		panic(err)
	}
}

func (b *Builder) Get(path string, h handler.HandlerFunc) {
	b.Add(message.MethodGet, path, h)
}

func (b *Builder) Post(path string, h handler.HandlerFunc) {
	b.Add(message.MethodPost, path, h)
}

func (b *Builder) Put(path string, h handler.HandlerFunc) {
	b.Add(message.MethodPut, path, h)
}

func (b *Builder) Patch(path string, h handler.HandlerFunc) {
	b.Add(message.MethodPatch, path, h)
}

func (b *Builder) Delete(path string, h handler.HandlerFunc) {
	b.Add(message.MethodDelete, path, h)
}

func (b *Builder) Head(path string, h handler.HandlerFunc) {
	b.Add(message.MethodHead, path, h)
}

func (b *Builder) Options(path string, h handler.HandlerFunc) {
	b.Add(message.MethodOptions, path, h)
}

func joinPath(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	}
	prefix = strings.TrimSuffix(prefix, "/")
	if path[0] != '/' {
		path = "/" + path
	}
	return prefix + path
}
