package wire

const (
	// DefaultMaxHeaderBytes bounds the request line plus header block.
	DefaultMaxHeaderBytes = 1 << 20 // 1 MB

	// DefaultMaxBodyBytes bounds a decoded request body.
	DefaultMaxBodyBytes = 10 << 20 // 10 MB
)

// Option configures a Reader.
type Option func(*Reader)

// WithMaxHeaderBytes limits the size of the request line and headers.
func WithMaxHeaderBytes(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxHeaderBytes = n
		}
	}
}

// WithMaxBodyBytes limits the size of a request body.
func WithMaxBodyBytes(n int64) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxBodyBytes = n
		}
	}
}

// WriteOption configures WriteResponse.
type WriteOption func(*writeOptions)

type writeOptions struct {
	omitBody bool
}

// WithoutBody keeps the status line and headers, framing header included,
// but skips the body. Used for responses to HEAD.
func WithoutBody() WriteOption {
	return func(o *writeOptions) {
		o.omitBody = true
	}
}
