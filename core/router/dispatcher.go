package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/logger"
	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/response"
)

// Dispatcher resolves requests against a Router and runs the matched handler.
type Dispatcher struct {
	router       *Router
	errorHandler handler.ErrorHandler
	notFound     handler.HandlerFunc
	logger       *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithErrorHandler sets the handler that converts handler errors to responses.
func WithErrorHandler(h handler.ErrorHandler) DispatcherOption {
	return func(d *Dispatcher) {
		if h != nil {
			d.errorHandler = h
		}
	}
}

// WithNotFoundHandler sets the handler for requests without a matching route.
func WithNotFoundHandler(h handler.HandlerFunc) DispatcherOption {
	return func(d *Dispatcher) {
		if h != nil {
			d.notFound = h
		}
	}
}

// WithLogger sets the logger used for panics and server errors.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a dispatcher over r.
func NewDispatcher(r *Router, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		router:       r,
		errorHandler: DefaultErrorHandler,
		notFound:     defaultNotFound,
		logger:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DefaultErrorHandler renders err with response.ErrorResponse.
func DefaultErrorHandler(_ *handler.Context, err error) *message.Response {
	return response.ErrorResponse(err)
}

func defaultNotFound(*handler.Context) (*message.Response, error) {
	return response.StringWithStatus("404 Not Found", http.StatusNotFound), nil
}

// Dispatch produces the response for req. It always returns a response:
// handler errors, nil responses and panics are converted by the error handler.
// A path routed only for other methods gets 405 with an Allow header; any
// other miss runs the not-found handler.
func (d *Dispatcher) Dispatch(ctx context.Context, req *message.Request) *message.Response {
	m, ok := d.router.Match(req.Host(), req.Method, req.Path)
	if !ok {
		hctx := handler.NewContext(ctx, req)
		if allowed := d.router.Allowed(req.Host(), req.Path); len(allowed) > 0 {
			return d.methodNotAllowed(hctx, allowed)
		}
		return d.run(hctx, d.notFound)
	}

	hctx := handler.NewContext(ctx, req,
		handler.WithParams(m.Params, m.Typed),
		handler.WithPattern(m.Route.Pattern),
	)
	return d.run(hctx, m.Route.Handler)
}

// methodNotAllowed answers a path that is routed for other methods only.
func (d *Dispatcher) methodNotAllowed(ctx *handler.Context, allowed []message.Method) *message.Response {
	names := make([]string, len(allowed))
	for i, m := range allowed {
		names[i] = string(m)
	}
	resp := d.handleError(ctx, response.ErrMethodNotAllowed)
	resp.Header.Set("Allow", strings.Join(names, ", "))
	return resp
}

func (d *Dispatcher) run(ctx *handler.Context, h handler.HandlerFunc) (resp *message.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			pe := &PanicError{Value: rec, Stack: debug.Stack()}
			d.logger.ErrorContext(ctx, "handler panic",
				logger.Component("dispatcher"),
				logger.Method(string(ctx.Request().Method)),
				logger.Path(ctx.Request().Path),
				logger.Error(pe),
				slog.String("stack", string(pe.Stack)),
			)
			resp = d.handleError(ctx, pe)
		}
	}()

	resp, err := h(ctx)
	if err == nil && resp == nil {
		err = ErrNilResponse
	}
	if err != nil {
		return d.handleError(ctx, err)
	}
	return resp
}

func (d *Dispatcher) handleError(ctx *handler.Context, err error) *message.Response {
	resp := d.errorHandler(ctx, err)
	if resp == nil {
		resp = response.ErrorResponse(err)
	}
	if resp.Status >= http.StatusInternalServerError && !errors.As(err, new(*PanicError)) {
		d.logger.ErrorContext(ctx, "request failed",
			logger.Component("dispatcher"),
			logger.Method(string(ctx.Request().Method)),
			logger.Path(ctx.Request().Path),
			logger.Route(ctx.Pattern()),
			logger.StatusCode(resp.Status),
			logger.Error(err),
		)
	}
	return resp
}
