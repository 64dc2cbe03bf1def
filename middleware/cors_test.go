package middleware_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/middleware"
)

func preflight(origin, method string) *message.Request {
	req := newRequest(message.MethodOptions, "/api/notes")
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", method)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	return req
}

func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("wildcard by default", func(t *testing.T) {
		t.Parallel()
		req := newRequest(message.MethodGet, "/")
		req.Header.Set("Origin", "https://a.example")

		resp, _, err := run(t, middleware.CORS(), ok, req)
		require.NoError(t, err)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, []string{"Origin"}, resp.Header.Values("Vary"))
	})

	t.Run("preflight", func(t *testing.T) {
		t.Parallel()
		mw := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     []string{"https://app.example"},
			AllowCredentials: true,
			MaxAge:           600,
		})

		resp, _, err := run(t, mw, ok, preflight("https://app.example", "PATCH"))
		require.NoError(t, err)
		mustStatus(t, resp, http.StatusNoContent)
		assert.Equal(t, "https://app.example", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET,HEAD,PUT,PATCH,POST,DELETE", resp.Header.Get("Access-Control-Allow-Methods"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Content-Type")
		assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "600", resp.Header.Get("Access-Control-Max-Age"))
		assert.Len(t, resp.Header.Values("Vary"), 3)
	})

	t.Run("preflight rejected", func(t *testing.T) {
		t.Parallel()
		mw := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{"https://app.example"},
			AllowMethods: []message.Method{message.MethodGet},
		})

		resp, _, _ := run(t, mw, ok, preflight("https://evil.example", "GET"))
		mustStatus(t, resp, http.StatusForbidden)

		resp, _, _ = run(t, mw, ok, preflight("https://app.example", "DELETE"))
		mustStatus(t, resp, http.StatusForbidden)
	})

	t.Run("unknown origin is not decorated", func(t *testing.T) {
		t.Parallel()
		mw := middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: []string{"https://app.example"}})
		req := newRequest(message.MethodGet, "/")
		req.Header.Set("Origin", "https://evil.example")

		resp, _, err := run(t, mw, ok, req)
		require.NoError(t, err)
		mustStatus(t, resp, http.StatusOK)
		assert.False(t, resp.Header.Has("Access-Control-Allow-Origin"))
	})

	t.Run("credentials never with wildcard", func(t *testing.T) {
		t.Parallel()
		mw := middleware.CORSWithConfig(middleware.CORSConfig{AllowCredentials: true, ExposeHeaders: []string{"X-Total"}})
		req := newRequest(message.MethodGet, "/")
		req.Header.Set("Origin", "https://a.example")

		resp, _, _ := run(t, mw, ok, req)
		assert.False(t, resp.Header.Has("Access-Control-Allow-Credentials"))
		assert.Equal(t, "X-Total", resp.Header.Get("Access-Control-Expose-Headers"))
	})
}

func TestAllowOriginSubdomain(t *testing.T) {
	t.Parallel()

	allow := middleware.AllowOriginSubdomain("*.example.com")
	tests := []struct {
		origin string
		want   bool
	}{
		{"https://example.com", true},
		{"https://api.example.com", true},
		{"http://api.example.com:3000", true},
		{"https://notexample.com", false},
		{"https://example.com.evil.io", false},
		{"", false},
		{"not a url", false},
	}
	for _, tt := range tests {
		_, got := allow(tt.origin)
		assert.Equal(t, tt.want, got, tt.origin)
	}
}
