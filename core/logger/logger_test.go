package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/core/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithAttr(slog.String("service", "api")))
		log.Debug("hidden")
		assert.Zero(t, buf.Len())

		log.Info("served", logger.StatusCode(200), logger.Method("GET"))
		rec := decode(t, &buf)
		assert.Equal(t, "served", rec["msg"])
		assert.Equal(t, "api", rec["service"])
		assert.Equal(t, float64(200), rec["status_code"])
		assert.Equal(t, "GET", rec["method"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat("TEXT"), logger.WithLevel(slog.LevelDebug))
		log.Debug("hello", logger.Path("/x"))
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "path=/x")
	})

	t.Run("from config", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.NewFromConfig(logger.Config{Level: "warn", Format: "json"}, logger.WithOutput(&buf))
		log.Info("dropped")
		assert.Zero(t, buf.Len())
		log.Warn("kept")
		assert.Equal(t, "kept", decode(t, &buf)["msg"])
	})

	t.Run("discard", func(t *testing.T) {
		t.Parallel()

		assert.False(t, logger.Discard().Enabled(t.Context(), slog.LevelError))
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.True(t, logger.Host("").Equal(slog.Attr{}))
	assert.True(t, logger.Route("").Equal(slog.Attr{}))

	errs := logger.Errors(nil, errors.New("b"))
	require.Equal(t, "errors", errs.Key)
	group := errs.Value.Group()
	require.Len(t, group, 1)
	assert.Equal(t, "1", group[0].Key)

	assert.Equal(t, "latency", logger.Latency(time.Second).Key)
	assert.Equal(t, "route", logger.Route("/users/{id}").Key)
	assert.Equal(t, "component", logger.Component("server").Key)

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf))
	log.Info("grouped", logger.Group("http", logger.Method("POST"), logger.StatusCode(201)))
	rec := decode(t, &buf)
	assert.Equal(t, map[string]any{"method": "POST", "status_code": float64(201)}, rec["http"])
}
