package message

import "io"

// Body produces a response payload into a sink.
type Body interface {
	WriteBody(w io.Writer) error
}

// Sized is implemented by bodies whose length is known before writing.
type Sized interface {
	Len() int
}

// Bytes is a known-length body.
type Bytes []byte

func (b Bytes) WriteBody(w io.Writer) error {
	if len(b) == 0 {
		return nil
	}
	_, err := w.Write(b)
	return err
}

func (b Bytes) Len() int {
	return len(b)
}

// StreamFunc is a body of unknown length written directly to the output.
type StreamFunc func(w io.Writer) error

func (f StreamFunc) WriteBody(w io.Writer) error {
	return f(w)
}
