package app

import (
	"github.com/dmitrymomot/wirekit/core/logger"
	"github.com/dmitrymomot/wirekit/core/server"
)

// Config is the environment-driven application configuration.
type Config struct {
	Server server.Config
	Log    logger.Config

	Name string `env:"APP_NAME" envDefault:"wirekit"`
	Env  string `env:"APP_ENV" envDefault:"development"`
}
