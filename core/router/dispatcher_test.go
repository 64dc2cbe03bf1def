package router_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/response"
	"github.com/dmitrymomot/wirekit/core/router"
)

type userKey struct{}

func TestDispatcher(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	r := router.New()
	b := router.NewBuilder(r)
	b.Get("/conflict", func(*handler.Context) (*message.Response, error) {
		return nil, response.ErrConflict.WithMessage("already exists")
	})
	b.Get("/fail", func(*handler.Context) (*message.Response, error) {
		return nil, boom
	})
	b.Get("/nil", func(*handler.Context) (*message.Response, error) {
		return nil, nil
	})
	b.Get("/panic", func(*handler.Context) (*message.Response, error) {
		panic(boom)
	})
	b.Get("/me/{id:int}", func(ctx *handler.Context) (*message.Response, error) {
		id, _ := handler.ParamAs[int](ctx, "id")
		return response.JSON(map[string]any{
			"id":      id,
			"user":    ctx.Value(userKey{}),
			"pattern": ctx.Pattern(),
		})
	})

	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	d := router.NewDispatcher(r, router.WithLogger(log))

	t.Run("not found", func(t *testing.T) {
		status, body := dispatch(d, message.MethodGet, "/missing")
		assert.Equal(t, 404, status)
		assert.Equal(t, "404 Not Found", body)
	})

	t.Run("http error", func(t *testing.T) {
		status, body := dispatch(d, message.MethodGet, "/conflict")
		assert.Equal(t, 409, status)
		assert.JSONEq(t, `{"error":{"code":"conflict","message":"already exists"}}`, body)
	})

	t.Run("plain error", func(t *testing.T) {
		status, body := dispatch(d, message.MethodGet, "/fail")
		assert.Equal(t, 500, status)
		assert.NotContains(t, body, "boom")
		assert.Contains(t, logs.String(), "request failed")
	})

	t.Run("nil response", func(t *testing.T) {
		status, _ := dispatch(d, message.MethodGet, "/nil")
		assert.Equal(t, 500, status)
		assert.Contains(t, logs.String(), router.ErrNilResponse.Error())
	})

	t.Run("panic", func(t *testing.T) {
		status, _ := dispatch(d, message.MethodGet, "/panic")
		assert.Equal(t, 500, status)
		assert.Contains(t, logs.String(), "handler panic")
	})

	t.Run("context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), userKey{}, "alice")
		resp := d.Dispatch(ctx, message.NewRequest(message.MethodGet, "/me/9"))
		require.Equal(t, 200, resp.Status)
		assert.JSONEq(t, `{"id":9,"user":"alice","pattern":"/me/{id:int}"}`, string(resp.Body.(message.Bytes)))
	})
}

func TestDispatcher_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	r := router.New()
	b := router.NewBuilder(r)
	b.Get("/items/{id:int}", text("show"))
	b.Put("/items/{id:int}", text("update"))

	t.Run("default error handler", func(t *testing.T) {
		d := router.NewDispatcher(r)
		resp := d.Dispatch(context.Background(), message.NewRequest(message.MethodPost, "/items/1"))
		assert.Equal(t, 405, resp.Status)
		assert.Equal(t, "GET, PUT", resp.Header.Get("Allow"))
		assert.Contains(t, string(resp.Body.(message.Bytes)), "method_not_allowed")
	})

	t.Run("unknown path stays not found", func(t *testing.T) {
		d := router.NewDispatcher(r)
		status, body := dispatch(d, message.MethodPost, "/items/abc")
		assert.Equal(t, 404, status)
		assert.Equal(t, "404 Not Found", body)
	})

	t.Run("custom error handler", func(t *testing.T) {
		var seen error
		d := router.NewDispatcher(r, router.WithErrorHandler(func(ctx *handler.Context, err error) *message.Response {
			seen = err
			assert.Empty(t, ctx.Pattern())
			return response.StringWithStatus("nope", 405)
		}))
		resp := d.Dispatch(context.Background(), message.NewRequest(message.MethodDelete, "/items/2"))
		assert.ErrorIs(t, seen, response.ErrMethodNotAllowed)
		assert.Equal(t, 405, resp.Status)
		assert.Equal(t, "GET, PUT", resp.Header.Get("Allow"))
	})
}

func TestDispatcher_CustomHandlers(t *testing.T) {
	t.Parallel()

	r := router.New()
	b := router.NewBuilder(r)
	b.Get("/panic", func(*handler.Context) (*message.Response, error) {
		panic("kaboom")
	})
	b.Get("/err", func(*handler.Context) (*message.Response, error) {
		return nil, response.ErrTooManyRequests
	})

	var seen []error
	d := router.NewDispatcher(r,
		router.WithErrorHandler(func(ctx *handler.Context, err error) *message.Response {
			seen = append(seen, err)
			if errors.Is(err, response.ErrTooManyRequests) {
				return nil
			}
			return response.StringWithStatus("custom: "+err.Error(), 503)
		}),
		router.WithNotFoundHandler(func(ctx *handler.Context) (*message.Response, error) {
			return response.StringWithStatus("nothing at "+ctx.Request().Path, 404), nil
		}),
	)

	status, body := dispatch(d, message.MethodGet, "/nope")
	assert.Equal(t, 404, status)
	assert.Equal(t, "nothing at /nope", body)

	status, body = dispatch(d, message.MethodGet, "/panic")
	assert.Equal(t, 503, status)
	assert.Equal(t, "custom: panic: kaboom", body)

	// a nil response from the error handler falls back to the default rendering
	status, _ = dispatch(d, message.MethodGet, "/err")
	assert.Equal(t, 429, status)

	require.Len(t, seen, 2)
	var pe *router.PanicError
	require.ErrorAs(t, seen[0], &pe)
	assert.Equal(t, "kaboom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
}
