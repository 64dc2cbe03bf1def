package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/logger"
	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/response"
)

// Check is a named dependency check.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Liveness always answers "ALIVE".
func Liveness(*handler.Context) (*message.Response, error) {
	return response.String("ALIVE"), nil
}

// NoContent answers 204 without a body.
func NoContent(*handler.Context) (*message.Response, error) {
	return response.NoContent(), nil
}

// Readiness answers "READY" when every check passes. Each check gets
// timeout when it is positive.
func Readiness(log *slog.Logger, timeout time.Duration, checks ...Check) handler.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx *handler.Context) (*message.Response, error) {
		var failed []string
		for _, c := range checks {
			if err := run(ctx, timeout, c); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component("health"),
					slog.String("check", c.Name),
					logger.Error(err),
				)
				failed = append(failed, c.Name)
			}
		}

		if len(failed) > 0 {
			return nil, response.ErrServiceUnavailable.WithDetails(map[string]any{
				"failed": failed,
			})
		}
		return response.String("READY"), nil
	}
}

func run(ctx context.Context, timeout time.Duration, c Check) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.Fn(ctx)
}
