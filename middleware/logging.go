package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/logger"
	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/response"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx *handler.Context) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for successful requests (default: slog.LevelInfo)
	LogLevel slog.Level

	// LogHeaders adds request headers to the record
	LogHeaders bool

	// SensitiveHeaders are redacted when LogHeaders is set
	SensitiveHeaders []string

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging (default: "http")
	Component string
}

// Logging logs one record per request with slog.Default().
func Logging() handler.Middleware {
	return LoggingWithConfig(LoggingConfig{})
}

// LoggingWithLogger logs one record per request with log.
func LoggingWithLogger(log *slog.Logger) handler.Middleware {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig logs every completed request. Server errors log at
// error level; client errors and slow requests log at warn.
func LoggingWithConfig(cfg LoggingConfig) handler.Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{
			"Authorization",
			"Cookie",
			"X-Api-Key",
			"X-Auth-Token",
			"X-Csrf-Token",
			DefaultSignatureHeader,
		}
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) (*message.Response, error) {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			resp, err := next(ctx)
			duration := time.Since(start)

			req := ctx.Request()
			status := statusOf(resp, err)

			attrs := []slog.Attr{
				logger.Component(cfg.Component),
				logger.Event("request"),
				logger.Method(req.Method.String()),
				logger.Path(req.Path),
				logger.Route(ctx.Pattern()),
				logger.StatusCode(status),
				logger.Duration(duration),
				logger.RemoteAddr(req.RemoteAddr),
				logger.BytesIn(int64(len(req.Body))),
			}
			if requestID, ok := GetRequestID(ctx); ok {
				attrs = append(attrs, logger.RequestID(requestID))
			}
			if resp != nil {
				if n, ok := resp.ContentLength(); ok {
					attrs = append(attrs, logger.BytesOut(int64(n)))
				}
			}
			if cfg.LogHeaders {
				attrs = append(attrs, headerAttr(req.Header, cfg.SensitiveHeaders))
			}

			level := cfg.LogLevel
			switch {
			case status >= 500:
				level = slog.LevelError
				attrs = append(attrs, logger.Error(err))
			case status >= 400:
				level = slog.LevelWarn
				attrs = append(attrs, logger.Error(err))
			case duration > cfg.SlowRequestThreshold:
				level = slog.LevelWarn
				attrs = append(attrs, slog.Bool("slow_request", true))
			}

			cfg.Logger.LogAttrs(ctx, level, "request completed", attrs...)
			return resp, err
		}
	}
}

func headerAttr(h message.Header, sensitive []string) slog.Attr {
	attrs := make([]any, 0, h.Len())
	h.Each(func(name string, values []string) {
		if slices.ContainsFunc(sensitive, func(s string) bool { return strings.EqualFold(s, name) }) {
			attrs = append(attrs, slog.String(name, "[REDACTED]"))
			return
		}
		if len(values) == 1 {
			attrs = append(attrs, slog.String(name, values[0]))
			return
		}
		attrs = append(attrs, slog.Any(name, values))
	})
	return slog.Group("headers", attrs...)
}

// statusOf is the status the client will see: the response status, or the
// status the error maps to.
func statusOf(resp *message.Response, err error) int {
	if err != nil {
		return response.AsHTTPError(err).StatusCode()
	}
	if resp == nil {
		return http.StatusInternalServerError
	}
	return resp.Status
}
