// Package handler defines the request handling contract shared by the router,
// the dispatcher and middleware.
//
// A handler receives a *Context and returns the response to serialize, or an
// error for the dispatcher's error handler:
//
//	func show(ctx *handler.Context) (*message.Response, error) {
//		id, ok := handler.ParamAs[int](ctx, "id")
//		if !ok {
//			return nil, response.ErrBadRequest
//		}
//		return response.JSON(loadItem(id))
//	}
//
// Context implements context.Context by delegating to the parent context the
// dispatcher was called with, so it can be passed to any blocking call made
// while handling the request. Request-scoped values set with SetValue shadow
// values of the parent.
//
// Middleware wraps a HandlerFunc. Chain composes a stack so that the first
// middleware in the slice runs outermost:
//
//	h := handler.Chain([]handler.Middleware{logging, auth}, show)
//	// logging -> auth -> show
package handler
