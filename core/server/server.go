package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/wirekit/core/logger"
	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/response"
	"github.com/dmitrymomot/wirekit/core/stream"
	"github.com/dmitrymomot/wirekit/core/wire"
)

// Handler produces a response for every parsed request.
// *router.Dispatcher satisfies it.
type Handler interface {
	Dispatch(ctx context.Context, req *message.Request) *message.Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req *message.Request) *message.Response

func (f HandlerFunc) Dispatch(ctx context.Context, req *message.Request) *message.Response {
	return f(ctx, req)
}

// Server accepts connections and serves HTTP/1.1 exchanges on them.
// Safe for concurrent use.
type Server struct {
	mu             sync.Mutex
	addr           string
	logger         *slog.Logger
	shutdown       time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration
	maxHeaderBytes int
	maxBodyBytes   int64
	maxRequests    int

	listener   net.Listener
	running    bool
	stopCh     chan struct{}
	cancelBase context.CancelFunc
	conns      map[*conn]struct{}
	wg         sync.WaitGroup
	stopping   atomic.Bool
}

// conn is a tracked client connection. idle is set while waiting for the
// next request so shutdown can close it right away.
type conn struct {
	sc   *stream.Conn
	idle atomic.Bool
}

// New creates a new Server with the given address and options.
// Defaults to 30-second graceful shutdown timeout and a no-op logger.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:           addr,
		logger:         logger.Discard(),
		shutdown:       DefaultShutdownTimeout,
		readTimeout:    DefaultReadTimeout,
		writeTimeout:   DefaultWriteTimeout,
		idleTimeout:    DefaultIdleTimeout,
		maxHeaderBytes: DefaultMaxHeaderBytes,
		maxBodyBytes:   DefaultMaxBodyBytes,
		conns:          make(map[*conn]struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Addr returns the bound listener address while running, the configured
// address otherwise.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Start listens and serves until the context is canceled, Stop is called or
// accepting fails. Returns context.Err() when the context is canceled.
// In-flight connections are not drained; use Stop for graceful shutdown.
func (s *Server) Start(ctx context.Context, h Handler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrServerAlreadyRunning
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrListen, err)
	}
	s.listener = ln
	s.running = true
	s.stopping.Store(false)
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh

	// connections outlive ctx so in-flight exchanges can drain on Stop
	base, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelBase = cancel
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "starting server",
		logger.Component("server"),
		logger.Addr(ln.Addr().String()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.acceptLoop(base, ln, h)
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-stopCh:
		}
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			return err
		}
		return nil
	})

	err = g.Wait()
	if err != nil {
		s.mu.Lock()
		s.running = false
		s.listener = nil
		s.mu.Unlock()
		return err
	}
	return ctx.Err()
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener, h Handler) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if s.stopping.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.logger.WarnContext(ctx, "accept timeout, retrying", logger.Component("server"), logger.Error(err))
				time.Sleep(5 * time.Millisecond)
				continue
			}
			return fmt.Errorf("%w: %w", ErrAccept, err)
		}

		c := &conn{sc: stream.NewConn(nc)}
		if !s.track(c) {
			_ = nc.Close()
			continue
		}
		go s.serve(ctx, c, h)
	}
}

func (s *Server) track(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopping.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.wg.Done()
}

// serve runs the exchange loop of one connection.
func (s *Server) serve(ctx context.Context, c *conn, h Handler) {
	defer s.untrack(c)
	defer c.sc.Close()
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.ErrorContext(ctx, "connection panic",
				logger.Component("server"),
				logger.RemoteAddr(c.sc.RemoteAddr()),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	rd := wire.NewReader(c.sc,
		wire.WithMaxHeaderBytes(s.maxHeaderBytes),
		wire.WithMaxBodyBytes(s.maxBodyBytes),
	)
	remote := c.sc.RemoteAddr()

	for served := 0; ; served++ {
		timeout := s.readTimeout
		if served > 0 && s.idleTimeout > 0 {
			timeout = s.idleTimeout
		}
		s.deadline(c.sc.SetReadDeadline, timeout)

		c.idle.Store(true)
		if s.stopping.Load() {
			return
		}
		req, err := rd.ReadRequest()
		c.idle.Store(false)
		if err != nil {
			s.readFailed(ctx, c, remote, err)
			return
		}
		req.RemoteAddr = remote

		resp := h.Dispatch(ctx, req)
		if resp == nil {
			resp = response.ErrorResponse(response.ErrInternalServerError)
		}
		keepAlive := req.KeepAlive() && !s.stopping.Load() &&
			(s.maxRequests <= 0 || served+1 < s.maxRequests)

		var writeOpts []wire.WriteOption
		if req.Method == message.MethodHead {
			writeOpts = append(writeOpts, wire.WithoutBody())
		}

		s.deadline(c.sc.SetWriteDeadline, s.writeTimeout)
		if err := wire.WriteResponse(resp, c.sc, keepAlive, writeOpts...); err != nil {
			s.writeFailed(ctx, req, remote, err)
			return
		}
		if !keepAlive {
			return
		}
	}
}

// writeFailed logs a failed response write. A panicking body producer is a
// server bug and logs at error level; peer disconnects log at debug.
func (s *Server) writeFailed(ctx context.Context, req *message.Request, remote string, err error) {
	var pe *wire.ProducerPanicError
	if errors.As(err, &pe) {
		s.logger.ErrorContext(ctx, "response body panic",
			logger.Component("server"),
			logger.Method(string(req.Method)),
			logger.Path(req.Path),
			logger.RemoteAddr(remote),
			logger.Error(err),
			slog.String("stack", string(pe.Stack)),
		)
		return
	}
	s.logger.DebugContext(ctx, "write failed",
		logger.Component("server"),
		logger.RemoteAddr(remote),
		logger.Error(err),
	)
}

func (s *Server) readFailed(ctx context.Context, c *conn, remote string, err error) {
	switch {
	case errors.Is(err, io.EOF):
		// client closed between requests
	case wire.IsParseError(err):
		s.logger.DebugContext(ctx, "malformed request",
			logger.Component("server"),
			logger.RemoteAddr(remote),
			logger.Error(err),
		)
		resp := response.StringWithStatus("400 Bad Request", http.StatusBadRequest)
		s.deadline(c.sc.SetWriteDeadline, s.writeTimeout)
		_ = wire.WriteResponse(resp, c.sc, false)
	default:
		s.logger.DebugContext(ctx, "read failed",
			logger.Component("server"),
			logger.RemoteAddr(remote),
			logger.Error(err),
		)
	}
}

func (s *Server) deadline(set func(time.Time) error, timeout time.Duration) {
	var t time.Time
	if timeout > 0 {
		t = time.Now().Add(timeout)
	}
	_ = set(t)
}

// Stop closes the listener and idle connections, then waits for active
// exchanges up to the shutdown timeout. Connections still open after the
// timeout are closed and ErrShutdownTimeout is returned.
// Returns immediately if the server is not running.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running || s.stopping.Load() {
		s.mu.Unlock()
		return nil
	}
	s.stopping.Store(true)
	close(s.stopCh)
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for c := range s.conns {
		if c.idle.Load() {
			_ = c.sc.Close()
		}
	}
	cancel := s.cancelBase
	s.mu.Unlock()

	s.logger.Info("shutting down server gracefully",
		logger.Component("server"),
		slog.Duration("timeout", s.shutdown),
	)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var err error
	var timeout <-chan time.Time
	if s.shutdown > 0 {
		timer := time.NewTimer(s.shutdown)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case <-done:
	case <-timeout:
		s.mu.Lock()
		for c := range s.conns {
			_ = c.sc.Close()
		}
		s.mu.Unlock()
		err = ErrShutdownTimeout
	}
	cancel()

	s.mu.Lock()
	s.running = false
	s.listener = nil
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("server shutdown error", logger.Component("server"), logger.Error(err))
		return err
	}
	s.logger.Info("server shutdown complete", logger.Component("server"))
	return nil
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the server, monitors context cancellation,
// and performs graceful shutdown when the context is cancelled.
func (s *Server) Run(ctx context.Context, h Handler) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- s.Start(ctx, h)
		}()

		select {
		case <-ctx.Done():
			if stopErr := s.Stop(); stopErr != nil {
				s.logger.Error("failed to stop server during context cancellation",
					logger.Component("server"),
					logger.Error(stopErr),
				)
			}
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Run is a convenience function that creates and runs a server with default settings.
func Run(ctx context.Context, addr string, h Handler) error {
	return New(addr).Start(ctx, h)
}
