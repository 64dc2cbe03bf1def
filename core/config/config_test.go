package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/core/config"
	"github.com/dmitrymomot/wirekit/core/server"
)

type cachedConfig struct {
	Name string `env:"WIREKIT_TEST_NAME" envDefault:"default"`
}

type requiredConfig struct {
	Secret string `env:"WIREKIT_TEST_SECRET,required"`
}

func TestLoad_Caches(t *testing.T) {
	t.Setenv("WIREKIT_TEST_NAME", "first")

	var a cachedConfig
	require.NoError(t, config.Load(&a))
	assert.Equal(t, "first", a.Name)

	t.Setenv("WIREKIT_TEST_NAME", "second")
	var b cachedConfig
	config.MustLoad(&b)
	assert.Equal(t, "first", b.Name)
}

func TestLoad_Required(t *testing.T) {
	var cfg requiredConfig
	assert.Error(t, config.Load(&cfg))
	assert.Panics(t, func() { config.MustLoad(&cfg) })

	// failures are not cached
	t.Setenv("WIREKIT_TEST_SECRET", "s3cret")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "s3cret", cfg.Secret)
}

func TestLoadFrom_ServerConfig(t *testing.T) {
	t.Parallel()

	var cfg server.Config
	require.NoError(t, config.LoadFrom(&cfg, map[string]string{
		"SERVER_ADDR":           ":9090",
		"SERVER_IDLE_TIMEOUT":   "2m",
		"SERVER_MAX_BODY_BYTES": "1024",
	}))

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 2*time.Minute, cfg.IdleTimeout)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
	assert.Equal(t, server.DefaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, server.DefaultMaxHeaderBytes, cfg.MaxHeaderBytes)

	defaults := server.DefaultConfig()
	var fromEmpty server.Config
	require.NoError(t, config.LoadFrom(&fromEmpty, map[string]string{}))
	assert.Equal(t, defaults, fromEmpty)

	assert.Error(t, config.LoadFrom(&cfg, map[string]string{"SERVER_READ_TIMEOUT": "soon"}))
}
