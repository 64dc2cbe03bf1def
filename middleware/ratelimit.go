package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/response"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx *handler.Context) bool
	// Rate is the sustained number of requests per second per key
	Rate rate.Limit
	// Burst is the bucket size per key (default: max(1, Rate))
	Burst int
	// KeyExtractor returns the bucket key (default: client IP, then remote address)
	KeyExtractor func(ctx *handler.Context) string
	// ErrorHandler builds the rejection (default: 429 with Retry-After)
	ErrorHandler func(ctx *handler.Context, retryAfter time.Duration) (*message.Response, error)
	// MaxKeys bounds tracked keys; full buckets are evicted past it (default: 10000)
	MaxKeys int
	// Now is the clock (default: time.Now)
	Now func() time.Time
}

// RateLimit enforces a per-key token bucket.
// Panics if Rate is not positive.
func RateLimit(cfg RateLimitConfig) handler.Middleware {
	if cfg.Rate <= 0 {
		panic("ratelimit middleware: rate must be positive")
	}
	if cfg.Burst <= 0 {
		cfg.Burst = max(1, int(math.Ceil(float64(cfg.Rate))))
	}
	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(ctx *handler.Context) string {
			if ip, ok := GetClientIP(ctx); ok {
				return ip
			}
			return ExtractClientIP(ctx.Request(), false)
		}
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = tooManyRequests
	}
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = 10000
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	buckets := newBuckets(cfg.Rate, cfg.Burst, cfg.MaxKeys)

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) (*message.Response, error) {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			now := cfg.Now()
			r := buckets.get(cfg.KeyExtractor(ctx), now).ReserveN(now, 1)
			if delay := r.DelayFrom(now); delay > 0 {
				r.CancelAt(now)
				return cfg.ErrorHandler(ctx, delay)
			}
			return next(ctx)
		}
	}
}

func tooManyRequests(_ *handler.Context, retryAfter time.Duration) (*message.Response, error) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	err := response.ErrTooManyRequests.WithDetails(map[string]any{
		"retry_after": seconds,
	})
	resp := response.ErrorResponse(err)
	resp.SetHeader("Retry-After", strconv.Itoa(seconds))
	return resp, nil
}

type buckets struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	maxKeys  int
	limiters map[string]*rate.Limiter
}

func newBuckets(limit rate.Limit, burst, maxKeys int) *buckets {
	return &buckets{
		limit:    limit,
		burst:    burst,
		maxKeys:  maxKeys,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (b *buckets) get(key string, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	if l, ok := b.limiters[key]; ok {
		return l
	}
	if len(b.limiters) >= b.maxKeys {
		b.evictFull(now)
	}
	l := rate.NewLimiter(b.limit, b.burst)
	b.limiters[key] = l
	return l
}

// evictFull drops limiters that have refilled; they behave like new ones.
func (b *buckets) evictFull(now time.Time) {
	for key, l := range b.limiters {
		if l.TokensAt(now) >= float64(b.burst) {
			delete(b.limiters, key)
		}
	}
}

func (b *buckets) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.limiters)
}
