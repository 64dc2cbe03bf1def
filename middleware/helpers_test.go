package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/response"
)

func newRequest(method message.Method, target string) *message.Request {
	req := message.NewRequest(method, target)
	req.RemoteAddr = "192.0.2.10:5555"
	return req
}

func ok(*handler.Context) (*message.Response, error) {
	return response.String("ok"), nil
}

func run(t *testing.T, mw handler.Middleware, h handler.HandlerFunc, req *message.Request, opts ...handler.ContextOption) (*message.Response, *handler.Context, error) {
	t.Helper()
	ctx := handler.NewContext(context.Background(), req, opts...)
	resp, err := handler.Chain([]handler.Middleware{mw}, h)(ctx)
	return resp, ctx, err
}

func mustStatus(t *testing.T, resp *message.Response, status int) {
	t.Helper()
	require.NotNil(t, resp)
	require.Equal(t, status, resp.Status)
}
