package stream

import (
	"net"
	"time"
)

// Conn is a ByteStream backed by a net.Conn.
// It is owned by a single goroutine for the lifetime of the connection.
type Conn struct {
	c   net.Conn
	buf []byte
}

// NewConn wraps c.
func NewConn(c net.Conn) *Conn {
	return &Conn{c: c}
}

// Send writes p in full.
func (s *Conn) Send(p []byte) error {
	for len(p) > 0 {
		n, err := s.c.Write(p)
		if err != nil {
			return wrapErr("write", err)
		}
		p = p[n:]
	}
	return nil
}

// Receive reads up to max bytes. The returned slice is only valid until the next call.
func (s *Conn) Receive(max int) ([]byte, error) {
	if max <= 0 {
		max = DefaultReceiveSize
	}
	if cap(s.buf) < max {
		s.buf = make([]byte, max)
	}
	n, err := s.c.Read(s.buf[:max])
	if n > 0 {
		return s.buf[:n], nil
	}
	return nil, wrapErr("read", err)
}

// SetReadDeadline sets the deadline for future Receive calls.
func (s *Conn) SetReadDeadline(t time.Time) error {
	return s.c.SetReadDeadline(t)
}

// SetWriteDeadline sets the deadline for future Send calls.
func (s *Conn) SetWriteDeadline(t time.Time) error {
	return s.c.SetWriteDeadline(t)
}

// RemoteAddr returns the peer address.
func (s *Conn) RemoteAddr() string {
	if addr := s.c.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

// Close closes the connection.
func (s *Conn) Close() error {
	return s.c.Close()
}
