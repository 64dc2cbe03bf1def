package middleware_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/middleware"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	t.Run("burst then 429 with retry-after", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
		mw := middleware.RateLimit(middleware.RateLimitConfig{Rate: 0.5, Burst: 2, Now: clock.Now})
		chain := handler.Chain([]handler.Middleware{mw}, ok)
		call := func() *message.Response {
			resp, err := chain(handler.NewContext(t.Context(), newRequest(message.MethodGet, "/")))
			require.NoError(t, err)
			return resp
		}

		mustStatus(t, call(), 200)
		mustStatus(t, call(), 200)

		rejected := call()
		mustStatus(t, rejected, 429)
		assert.Equal(t, "2", rejected.Header.Get("Retry-After"))

		body, isBytes := rejected.Body.(message.Bytes)
		require.True(t, isBytes)
		var payload struct {
			Error struct {
				Code    string         `json:"code"`
				Details map[string]any `json:"details"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, float64(2), payload.Error.Details["retry_after"])

		clock.Advance(2 * time.Second)
		mustStatus(t, call(), 200)
		mustStatus(t, call(), 429)
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
		mw := middleware.RateLimit(middleware.RateLimitConfig{Rate: 1, Burst: 1, Now: clock.Now})

		a := newRequest(message.MethodGet, "/")
		b := newRequest(message.MethodGet, "/")
		b.RemoteAddr = "198.51.100.7:1234"

		resp, _, _ := run(t, mw, ok, a)
		mustStatus(t, resp, 200)
		resp, _, _ = run(t, mw, ok, a)
		mustStatus(t, resp, 429)
		resp, _, _ = run(t, mw, ok, b)
		mustStatus(t, resp, 200)
	})

	t.Run("client ip from context", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
		chain := handler.Chain([]handler.Middleware{
			middleware.ClientIP(middleware.ClientIPConfig{TrustProxyHeaders: true}),
			middleware.RateLimit(middleware.RateLimitConfig{Rate: 1, Now: clock.Now}),
		}, ok)

		call := func(forwarded string) int {
			req := newRequest(message.MethodGet, "/")
			req.Header.Set("X-Forwarded-For", forwarded)
			resp, err := chain(handler.NewContext(t.Context(), req))
			require.NoError(t, err)
			return resp.Status
		}

		assert.Equal(t, 200, call("203.0.113.1"))
		assert.Equal(t, 429, call("203.0.113.1"))
		assert.Equal(t, 200, call("203.0.113.2"))
	})

	t.Run("custom key and error handler", func(t *testing.T) {
		t.Parallel()
		var gotRetry time.Duration
		mw := middleware.RateLimit(middleware.RateLimitConfig{
			Rate:         rate.Every(time.Minute),
			KeyExtractor: func(*handler.Context) string { return "global" },
			ErrorHandler: func(_ *handler.Context, retryAfter time.Duration) (*message.Response, error) {
				gotRetry = retryAfter
				return message.NewResponse(message.StatusEnhanceYourCalm), nil
			},
			Now: (&fakeClock{now: time.Unix(1_700_000_000, 0)}).Now,
		})

		resp, _, _ := run(t, mw, ok, newRequest(message.MethodGet, "/"))
		mustStatus(t, resp, 200)
		resp, _, _ = run(t, mw, ok, newRequest(message.MethodGet, "/"))
		mustStatus(t, resp, 420)
		assert.Equal(t, time.Minute, gotRetry)
	})

	t.Run("invalid rate panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { middleware.RateLimit(middleware.RateLimitConfig{}) })
	})
}
