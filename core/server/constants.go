package server

import "time"

const (
	// DefaultReadTimeout bounds reading the first request on a connection.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout bounds writing one response.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout bounds waiting for the next request on a kept-alive connection.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is the default timeout for graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultMaxHeaderBytes is the default maximum size of a request head.
	DefaultMaxHeaderBytes = 1 << 20 // 1 MB

	// DefaultMaxBodyBytes is the default maximum size of a request body.
	DefaultMaxBodyBytes = 10 << 20 // 10 MB
)
