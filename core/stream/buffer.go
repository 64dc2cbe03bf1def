package stream

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// ErrClosed is returned by Buffer operations after Close.
var ErrClosed = errors.New("stream closed")

// Buffer is an in-memory ByteStream with scripted input and captured output.
type Buffer struct {
	mu       sync.Mutex
	in       []byte
	out      bytes.Buffer
	fragment int
	readErr  error
	writeErr error
	closed   bool
}

// BufferOption configures a Buffer.
type BufferOption func(*Buffer)

// WithFragmentSize delivers input in pieces of at most n bytes per Receive,
// simulating a peer whose data arrives across several reads.
func WithFragmentSize(n int) BufferOption {
	return func(b *Buffer) {
		b.fragment = n
	}
}

// WithReadError makes Receive fail with err once the scripted input is exhausted.
func WithReadError(err error) BufferOption {
	return func(b *Buffer) {
		b.readErr = err
	}
}

// WithWriteError makes every Send fail with err.
func WithWriteError(err error) BufferOption {
	return func(b *Buffer) {
		b.writeErr = err
	}
}

// NewBuffer creates a Buffer that yields input to Receive.
func NewBuffer(input []byte, opts ...BufferOption) *Buffer {
	b := &Buffer{in: append([]byte(nil), input...)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Send appends p to the captured output.
func (b *Buffer) Send(p []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &IOError{Op: "write", Err: ErrClosed}
	}
	if b.writeErr != nil {
		return wrapErr("write", b.writeErr)
	}
	b.out.Write(p)
	return nil
}

// Receive returns the next piece of scripted input.
func (b *Buffer) Receive(max int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, &IOError{Op: "read", Err: ErrClosed}
	}
	if len(b.in) == 0 {
		if b.readErr != nil {
			return nil, wrapErr("read", b.readErr)
		}
		return nil, io.EOF
	}
	n := len(b.in)
	if max > 0 && n > max {
		n = max
	}
	if b.fragment > 0 && n > b.fragment {
		n = b.fragment
	}
	p := b.in[:n]
	b.in = b.in[n:]
	return p, nil
}

// Output returns a copy of everything sent so far.
func (b *Buffer) Output() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.out.Bytes()...)
}

// Close marks the buffer closed.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
