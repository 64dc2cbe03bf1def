package handler

import "github.com/dmitrymomot/wirekit/core/message"

// HandlerFunc handles one request. Returning a nil response without an error
// is a programming error reported by the dispatcher.
type HandlerFunc func(ctx *Context) (*message.Response, error)

// Middleware wraps handlers to add cross-cutting behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler converts a handler error into a response.
type ErrorHandler func(ctx *Context, err error) *message.Response

// Chain builds a single handler from a middleware stack and endpoint.
// The first middleware runs first.
func Chain(middlewares []Middleware, endpoint HandlerFunc) HandlerFunc {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
