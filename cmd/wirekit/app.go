package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/dmitrymomot/wirekit/app"
	"github.com/dmitrymomot/wirekit/core/config"
	"github.com/dmitrymomot/wirekit/core/cookie"
	"github.com/dmitrymomot/wirekit/core/logger"
	"github.com/dmitrymomot/wirekit/core/router"
	"github.com/dmitrymomot/wirekit/core/server"
)

// appConfig is read from the environment and then overridden by flags.
type appConfig struct {
	App app.Config

	SigningKey   string   `env:"WIREKIT_SIGNING_KEY"`
	CookieSecret []string `env:"WIREKIT_COOKIE_SECRETS" envSeparator:","`
	RateLimit    float64  `env:"WIREKIT_RATE_LIMIT" envDefault:"50"`
	RateBurst    int      `env:"WIREKIT_RATE_BURST" envDefault:"100"`
	AdminHost    string   `env:"WIREKIT_ADMIN_HOST" envDefault:"admin.localhost"`
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "wirekit",
		Usage:   "HTTP/1.1 framework demo server",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Commands: []*cli.Command{
			serveCommand(),
			routesCommand(),
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   "listen address (overrides SERVER_ADDR)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error (overrides LOG_LEVEL)",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "json or text (overrides LOG_FORMAT)",
		},
		&cli.StringFlag{
			Name:  "signing-key",
			Usage: "HMAC key for /hooks (overrides WIREKIT_SIGNING_KEY)",
		},
		&cli.Float64Flag{
			Name:  "rate",
			Usage: "requests per second per client (overrides WIREKIT_RATE_LIMIT)",
		},
		&cli.IntFlag{
			Name:  "burst",
			Usage: "rate limit burst (overrides WIREKIT_RATE_BURST)",
		},
	}
}

// loadConfig merges the environment with explicitly set flags.
func loadConfig(c *cli.Context) (appConfig, error) {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return cfg, err
	}

	if c.IsSet("addr") {
		cfg.App.Server.Addr = c.String("addr")
	}
	if c.IsSet("log-level") {
		cfg.App.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.App.Log.Format = c.String("log-format")
	}
	if c.IsSet("signing-key") {
		cfg.SigningKey = c.String("signing-key")
	}
	if c.IsSet("rate") {
		cfg.RateLimit = c.Float64("rate")
	}
	if c.IsSet("burst") {
		cfg.RateBurst = c.Int("burst")
	}
	return cfg, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the HTTP server",
		Flags: serveFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			a, err := app.NewApp(app.WithConfig(cfg.App))
			if err != nil {
				return err
			}
			var cookies *cookie.Signer
			if len(cfg.CookieSecret) > 0 {
				if cookies, err = cookie.New(cfg.CookieSecret); err != nil {
					return fmt.Errorf("cookie secrets: %w", err)
				}
			}
			registerRoutes(a, routeOptions{
				Registry:   reg,
				Cookies:    cookies,
				SigningKey: []byte(cfg.SigningKey),
				Rate:       rate.Limit(cfg.RateLimit),
				Burst:      cfg.RateBurst,
				AdminHost:  cfg.AdminHost,
			})

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			a.Logger().Info("wirekit", slog.String("version", version), slog.String("commit", commit))
			return a.Run(ctx)
		},
	}
}

func routesCommand() *cli.Command {
	return &cli.Command{
		Name:  "routes",
		Usage: "print the registered routes",
		Action: func(c *cli.Context) error {
			cfg := app.Config{Server: server.DefaultConfig(), Name: "wirekit"}
			a, err := app.NewApp(app.WithConfig(cfg), app.WithLogger(logger.Discard()))
			if err != nil {
				return err
			}
			cookies, err := cookie.New([]string{strings.Repeat("r", 32)})
			if err != nil {
				return err
			}
			registerRoutes(a, routeOptions{
				Registry:   prometheus.NewRegistry(),
				Cookies:    cookies,
				SigningKey: []byte("routes"),
				Rate:       1,
				AdminHost:  "admin.localhost",
			})
			return printRoutes(c.App.Writer, a.Router())
		},
	}
}

func printRoutes(w io.Writer, r *router.Router) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HOST\tMETHOD\tPATTERN")
	for _, route := range r.Routes() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", route.Host, route.Method, route.Pattern)
	}
	return tw.Flush()
}
