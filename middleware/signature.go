package middleware

import (
	"strings"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/response"
	"github.com/dmitrymomot/wirekit/pkg/hash"
)

// DefaultSignatureHeader carries the hex HMAC of the request body.
const DefaultSignatureHeader = "X-Signature"

// SignatureConfig configures the body signature middleware.
type SignatureConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx *handler.Context) bool
	// Key is the shared secret (required)
	Key []byte
	// HeaderName is where the signature is read from (default: "X-Signature")
	HeaderName string
	// Variant selects the digest (default: hash.SHA256)
	Variant hash.Variant
	// Driver computes the digest (default: hash.HMAC{})
	Driver hash.Driver
}

// Signature rejects requests whose body does not match the signature
// header with 401. The header holds the hex digest, optionally prefixed
// with "<variant>=" as in "sha256=ab12...".
// Panics if no key is provided.
func Signature(cfg SignatureConfig) handler.Middleware {
	if len(cfg.Key) == 0 {
		panic("signature middleware: key is required")
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultSignatureHeader
	}
	if cfg.Variant == "" {
		cfg.Variant = hash.SHA256
	}
	if cfg.Driver == nil {
		cfg.Driver = hash.HMAC{}
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) (*message.Response, error) {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			signature := strings.TrimSpace(req.Header.Get(cfg.HeaderName))
			if signature == "" {
				return nil, response.ErrUnauthorized.WithMessage("missing signature")
			}
			if prefix, digest, ok := strings.Cut(signature, "="); ok && strings.EqualFold(prefix, string(cfg.Variant)) {
				signature = digest
			}

			if !hash.Verify(cfg.Driver, req.Body, cfg.Key, cfg.Variant, signature) {
				return nil, response.ErrUnauthorized.WithMessage("invalid signature")
			}
			return next(ctx)
		}
	}
}
