package middleware

import (
	"net"
	"strings"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/message"
)

type clientIPContextKey struct{}

// proxyHeaders are consulted in order before the connection address.
var proxyHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// ClientIPConfig configures the client IP middleware.
type ClientIPConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx *handler.Context) bool
	// TrustProxyHeaders enables proxy headers. Without it only the
	// connection address is used.
	TrustProxyHeaders bool
}

// ClientIP stores the client address in the handler context.
func ClientIP(cfg ClientIPConfig) handler.Middleware {
	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) (*message.Response, error) {
			if cfg.Skip == nil || !cfg.Skip(ctx) {
				ctx.SetValue(clientIPContextKey{}, ExtractClientIP(ctx.Request(), cfg.TrustProxyHeaders))
			}
			return next(ctx)
		}
	}
}

// GetClientIP returns the address stored by ClientIP.
func GetClientIP(ctx *handler.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPContextKey{}).(string)
	return ip, ok && ip != ""
}

// ExtractClientIP returns the normalized client IP of req, or "" when none
// is valid. X-Forwarded-For contributes its leftmost entry.
func ExtractClientIP(req *message.Request, trustProxy bool) string {
	if trustProxy {
		for _, name := range proxyHeaders {
			value := req.Header.Get(name)
			if name == "X-Forwarded-For" {
				value, _, _ = strings.Cut(value, ",")
			}
			if ip := normalizeIP(value); ip != "" {
				return ip
			}
		}
	}

	host := req.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return normalizeIP(host)
}

func normalizeIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
