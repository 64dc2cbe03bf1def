package server

import "errors"

var (
	ErrMissingAddress       = errors.New("server address is required")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrListen               = errors.New("listen error")
	ErrAccept               = errors.New("accept error")
	ErrShutdownTimeout      = errors.New("shutdown timed out with active connections")
)
