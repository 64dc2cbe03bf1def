package stream

import (
	"errors"
	"io"
)

// DefaultReceiveSize is the chunk size requested from the stream by Reader.
const DefaultReceiveSize = 4096

// ByteStream is a bidirectional, blocking byte channel.
type ByteStream interface {
	// Send writes all of p to the stream, blocking until it is accepted.
	Send(p []byte) error
	// Receive returns between 1 and max bytes, blocking until data is available.
	// It returns io.EOF once the stream is exhausted.
	Receive(max int) ([]byte, error)
}

// NewReader adapts a ByteStream to io.Reader.
func NewReader(s ByteStream) io.Reader {
	return &reader{s: s}
}

// NewWriter adapts a ByteStream to io.Writer.
func NewWriter(s ByteStream) io.Writer {
	return &writer{s: s}
}

type reader struct {
	s       ByteStream
	pending []byte
}

func (r *reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(r.pending) == 0 {
		max := len(p)
		if max < DefaultReceiveSize {
			max = DefaultReceiveSize
		}
		b, err := r.s.Receive(max)
		if len(b) == 0 {
			if err == nil {
				err = io.ErrNoProgress
			}
			return 0, err
		}
		r.pending = b
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

type writer struct {
	s ByteStream
}

func (w *writer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := w.s.Send(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// IOError reports a failure of the underlying channel.
type IOError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *IOError) Error() string {
	return "stream " + e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// wrapErr leaves io.EOF untouched so callers can tell a clean close apart.
func wrapErr(op string, err error) error {
	if err == nil || errors.Is(err, io.EOF) {
		return err
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return err
	}
	return &IOError{Op: op, Err: err}
}

// IsIOError reports whether err is, or wraps, an *IOError.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
