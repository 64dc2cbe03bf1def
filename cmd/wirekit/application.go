package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/dmitrymomot/wirekit/app"
	"github.com/dmitrymomot/wirekit/core/cookie"
	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/health"
	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/response"
	"github.com/dmitrymomot/wirekit/core/router"
	"github.com/dmitrymomot/wirekit/middleware"
)

type routeOptions struct {
	Registry   *prometheus.Registry
	Cookies    *cookie.Signer
	SigningKey []byte
	Rate       rate.Limit
	Burst      int
	AdminHost  string
}

// registerRoutes installs the demo application on a.
func registerRoutes(a *app.App, opts routeOptions) *notesController {
	log := a.Logger()
	notes := newNotesController()

	b := a.Builder()
	b.Use(
		middleware.RequestID(),
		middleware.LoggingWithLogger(log),
		middleware.Metrics(middleware.MetricsConfig{Registerer: opts.Registry}),
		middleware.SecurityHeaders(),
	)

	b.Get("/", home)
	b.Get("/health/live", health.Liveness)
	b.Get("/health/ready", health.Readiness(log, time.Second, health.Check{Name: "notes", Fn: notes.Ping}))
	b.Get("/metrics", middleware.MetricsHandler(opts.Registry))
	b.Get("/clock", clock)

	b.Group("/api", func(b *router.Builder) {
		b.Use(
			middleware.CORSWithConfig(middleware.CORSConfig{ExposeHeaders: []string{middleware.DefaultRequestIDHeader}}),
			middleware.ClientIP(middleware.ClientIPConfig{TrustProxyHeaders: true}),
		)
		b.Options("/*", health.NoContent)
		if opts.Rate > 0 {
			b.Use(middleware.RateLimit(middleware.RateLimitConfig{Rate: opts.Rate, Burst: opts.Burst}))
		}
		router.Resource[int](b, "/notes", notes)
		b.Get("/files/*", file)
	})

	if len(opts.SigningKey) > 0 {
		b.With([]handler.Middleware{
			middleware.Signature(middleware.SignatureConfig{Key: opts.SigningKey}),
		}, func(b *router.Builder) {
			b.Post("/hooks", hook(log))
		})
	}

	if opts.Cookies != nil {
		b.Get("/prefs/theme", getTheme(opts.Cookies))
		b.Put("/prefs/theme/{name}", setTheme(opts.Cookies))
	}

	b.Host(opts.AdminHost, func(b *router.Builder) {
		b.Get("/", adminIndex(a.Router()))
	})

	return notes
}

var homePage = templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, "<!doctype html><title>wirekit</title><h1>wirekit</h1><p>See /api/notes.</p>")
	return err
})

func home(ctx *handler.Context) (*message.Response, error) {
	return response.Templ(ctx, homePage), nil
}

// clock streams five ticks with chunked transfer encoding.
func clock(ctx *handler.Context) (*message.Response, error) {
	return response.Stream(response.ContentTypeText, func(w io.Writer) error {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for range 5 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case now := <-ticker.C:
				if _, err := fmt.Fprintln(w, now.UTC().Format(time.RFC3339Nano)); err != nil {
					return err
				}
			}
		}
		return nil
	}), nil
}

func file(ctx *handler.Context) (*message.Response, error) {
	return response.JSON(map[string]string{"path": ctx.Param("*")})
}

func hook(log *slog.Logger) handler.HandlerFunc {
	return func(ctx *handler.Context) (*message.Response, error) {
		event, err := ctx.Request().Field("event")
		if err != nil {
			return nil, response.ErrBadRequest.WithError(err)
		}
		log.InfoContext(ctx, "webhook received", slog.Any("event", event))
		return response.NoContent(), nil
	}
}

const defaultTheme = "light"

func getTheme(signer *cookie.Signer) handler.HandlerFunc {
	return func(ctx *handler.Context) (*message.Response, error) {
		theme, err := signer.Get(ctx.Request(), "theme")
		switch {
		case errors.Is(err, cookie.ErrCookieNotFound):
			theme = defaultTheme
		case err != nil:
			return nil, response.ErrBadRequest.WithMessage("invalid theme cookie")
		}
		return response.JSON(map[string]string{"theme": theme})
	}
}

func setTheme(signer *cookie.Signer) handler.HandlerFunc {
	return func(ctx *handler.Context) (*message.Response, error) {
		theme := ctx.Param("name")
		resp, err := response.JSON(map[string]string{"theme": theme})
		if err != nil {
			return nil, err
		}
		signer.Set(resp, "theme", theme, cookie.WithMaxAge(365*24*60*60))
		return resp, nil
	}
}

func adminIndex(r *router.Router) handler.HandlerFunc {
	return func(*handler.Context) (*message.Response, error) {
		routes := r.Routes()
		out := make([]map[string]string, 0, len(routes))
		for _, route := range routes {
			out = append(out, map[string]string{
				"host":    route.Host,
				"method":  route.Method.String(),
				"pattern": route.Pattern,
			})
		}
		return response.JSON(out)
	}
}
