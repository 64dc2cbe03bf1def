package server

import "time"

// Config is the environment-backed form of the server options.
type Config struct {
	Addr string `env:"SERVER_ADDR" envDefault:":8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	MaxHeaderBytes     int   `env:"SERVER_MAX_HEADER_BYTES" envDefault:"1048576"`
	MaxBodyBytes       int64 `env:"SERVER_MAX_BODY_BYTES" envDefault:"10485760"`
	MaxRequestsPerConn int   `env:"SERVER_MAX_REQUESTS_PER_CONN" envDefault:"0"`
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxHeaderBytes:  DefaultMaxHeaderBytes,
		MaxBodyBytes:    DefaultMaxBodyBytes,
	}
}

// Options converts the non-zero fields into options. Zero values keep the
// defaults of New.
func (c Config) Options() []Option {
	var opts []Option
	for _, d := range []struct {
		value time.Duration
		opt   func(time.Duration) Option
	}{
		{c.ReadTimeout, WithReadTimeout},
		{c.WriteTimeout, WithWriteTimeout},
		{c.IdleTimeout, WithIdleTimeout},
		{c.ShutdownTimeout, WithShutdownTimeout},
	} {
		if d.value > 0 {
			opts = append(opts, d.opt(d.value))
		}
	}
	if c.MaxHeaderBytes > 0 {
		opts = append(opts, WithMaxHeaderBytes(c.MaxHeaderBytes))
	}
	if c.MaxBodyBytes > 0 {
		opts = append(opts, WithMaxBodyBytes(c.MaxBodyBytes))
	}
	if c.MaxRequestsPerConn > 0 {
		opts = append(opts, WithMaxRequestsPerConn(c.MaxRequestsPerConn))
	}
	return opts
}

// NewFromConfig creates a Server from cfg; opts are applied after the
// config and win over it.
func NewFromConfig(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Addr == "" {
		return nil, ErrMissingAddress
	}
	return New(cfg.Addr, append(cfg.Options(), opts...)...), nil
}
