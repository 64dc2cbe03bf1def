package wire

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrUnsupportedMethod    = errors.New("unsupported method")
	ErrUnsupportedVersion   = errors.New("unsupported protocol version")
	ErrMalformedHeader      = errors.New("malformed header line")
	ErrUnterminatedHeaders  = errors.New("unterminated header block")
	ErrHeaderTooLarge       = errors.New("header block too large")
	ErrInvalidContentLength = errors.New("invalid content length")
	ErrConflictingFraming   = errors.New("both content length and chunked transfer encoding")
	ErrUnsupportedEncoding  = errors.New("unsupported transfer encoding")
	ErrMalformedChunk       = errors.New("malformed chunked body")
	ErrBodyTooLarge         = errors.New("request body too large")
)

// ParseError reports a request that violates HTTP/1.x syntax.
type ParseError struct {
	Err    error  // one of the sentinel errors above
	Detail string // offending input, truncated
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return "parse request: " + e.Err.Error()
	}
	return "parse request: " + e.Err.Error() + ": " + e.Detail
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseError(err error, detail string) *ParseError {
	const maxDetail = 64
	if len(detail) > maxDetail {
		detail = detail[:maxDetail] + "..."
	}
	return &ParseError{Err: err, Detail: detail}
}

// IsParseError reports whether err is, or wraps, a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// ProducerPanicError reports a panic raised while a response body was being
// written.
type ProducerPanicError struct {
	Value any
	Stack []byte
}

func (e *ProducerPanicError) Error() string {
	return fmt.Sprintf("response body panic: %v", e.Value)
}

// IsProducerPanic reports whether err is, or wraps, a *ProducerPanicError.
func IsProducerPanic(err error) bool {
	var pe *ProducerPanicError
	return errors.As(err, &pe)
}
