package handler

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/wirekit/core/message"
)

// Context carries one request through middleware and handler.
// Deadline, Done and Err delegate to the parent context.
type Context struct {
	parent  context.Context
	req     *message.Request
	pattern string
	params  map[string]string
	typed   map[string]any

	mu     sync.RWMutex
	values map[any]any
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithParams attaches the raw path parameters and their converted values.
func WithParams(raw map[string]string, typed map[string]any) ContextOption {
	return func(c *Context) {
		c.params = raw
		c.typed = typed
	}
}

// WithPattern records the route pattern that matched the request.
func WithPattern(pattern string) ContextOption {
	return func(c *Context) {
		c.pattern = pattern
	}
}

// NewContext creates a Context for req. A nil parent is replaced by context.Background.
func NewContext(parent context.Context, req *message.Request, opts ...ContextOption) *Context {
	if parent == nil {
		parent = context.Background()
	}
	c := &Context{parent: parent, req: req}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Context) Deadline() (time.Time, bool) {
	return c.parent.Deadline()
}

func (c *Context) Done() <-chan struct{} {
	return c.parent.Done()
}

func (c *Context) Err() error {
	return c.parent.Err()
}

// Value returns a value stored with SetValue, falling back to the parent.
func (c *Context) Value(key any) any {
	c.mu.RLock()
	v, ok := c.values[key]
	c.mu.RUnlock()
	if ok {
		return v
	}
	return c.parent.Value(key)
}

// SetValue stores a request-scoped value.
func (c *Context) SetValue(key, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
}

// Request returns the request being handled.
func (c *Context) Request() *message.Request {
	return c.req
}

// Pattern returns the route pattern that matched, including any group prefix.
func (c *Context) Pattern() string {
	return c.pattern
}

// Param returns the raw value of a path parameter, or "" if absent.
func (c *Context) Param(key string) string {
	return c.params[key]
}

// Params returns a copy of all raw path parameters.
func (c *Context) Params() map[string]string {
	out := make(map[string]string, len(c.params))
	for k, v := range c.params {
		out[k] = v
	}
	return out
}

// ParamAs returns the converted value of a typed path parameter.
// It reports false when the parameter is absent or holds another type.
func ParamAs[T any](c *Context, key string) (T, bool) {
	v, ok := c.typed[key].(T)
	return v, ok
}
