package message

import "errors"

var (
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrNotAnObject            = errors.New("structured body is not an object")
)

// BodyParseError reports a structured body that could not be decoded.
// It is only returned when the structured body is accessed.
type BodyParseError struct {
	ContentType string
	Err         error
}

func (e *BodyParseError) Error() string {
	return "parse " + e.ContentType + " body: " + e.Err.Error()
}

func (e *BodyParseError) Unwrap() error {
	return e.Err
}
