package app

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/wirekit/core/config"
	"github.com/dmitrymomot/wirekit/core/logger"
	"github.com/dmitrymomot/wirekit/core/router"
	"github.com/dmitrymomot/wirekit/core/server"
)

// App owns the routing table, the dispatcher serving it and the server.
type App struct {
	config     *Config
	router     *router.Router
	builder    *router.Builder
	dispatcher *router.Dispatcher
	server     *server.Server
	logger     *slog.Logger

	dispatcherOpts []router.DispatcherOption
}

type AppOption func(*App) error

// NewApp applies opts and fills everything they left unset from Config.
func NewApp(opts ...AppOption) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.config == nil {
		var cfg Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		a.config = &cfg
	}

	if a.logger == nil {
		a.logger = logger.NewFromConfig(a.config.Log, logger.WithAttr(slog.String("app", a.config.Name)))
	}

	if a.router == nil {
		a.router = router.New()
	}
	a.builder = router.NewBuilder(a.router)
	a.dispatcher = router.NewDispatcher(a.router,
		append([]router.DispatcherOption{router.WithLogger(a.logger)}, a.dispatcherOpts...)...)

	if a.server == nil {
		s, err := server.NewFromConfig(a.config.Server, server.WithLogger(a.logger))
		if err != nil {
			return nil, err
		}
		a.server = s
	}

	return a, nil
}

// WithConfig skips loading configuration from the environment.
func WithConfig(cfg Config) AppOption {
	return func(a *App) error {
		a.config = &cfg
		return nil
	}
}

func WithLogger(logger *slog.Logger) AppOption {
	return func(a *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		a.logger = logger
		return nil
	}
}

func WithRouter(r *router.Router) AppOption {
	return func(a *App) error {
		if r == nil {
			return errors.New("router cannot be nil")
		}
		a.router = r
		return nil
	}
}

func WithServer(s *server.Server) AppOption {
	return func(a *App) error {
		if s == nil {
			return errors.New("server cannot be nil")
		}
		a.server = s
		return nil
	}
}

// WithDispatcherOptions are applied after the app's own logger option.
func WithDispatcherOptions(opts ...router.DispatcherOption) AppOption {
	return func(a *App) error {
		a.dispatcherOpts = append(a.dispatcherOpts, opts...)
		return nil
	}
}

func (a *App) Config() Config                 { return *a.config }
func (a *App) Logger() *slog.Logger           { return a.logger }
func (a *App) Router() *router.Router         { return a.router }
func (a *App) Builder() *router.Builder       { return a.builder }
func (a *App) Dispatcher() *router.Dispatcher { return a.dispatcher }
func (a *App) Server() *server.Server         { return a.server }

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting application",
		logger.Component("app"),
		logger.Addr(a.config.Server.Addr),
		slog.Int("routes", len(a.router.Routes())),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.server.Run(ctx, a.dispatcher))
	return g.Wait()
}
