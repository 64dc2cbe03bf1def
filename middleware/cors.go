package middleware

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/message"
)

// CORSConfig configures Cross-Origin Resource Sharing.
type CORSConfig struct {
	Skip func(ctx *handler.Context) bool

	// AllowOrigins lists exact origins. Empty or containing "*" allows all.
	AllowOrigins []string

	// AllowOriginFunc wins over AllowOrigins. It returns the value for
	// Access-Control-Allow-Origin.
	AllowOriginFunc func(origin string) (string, bool)

	// Defaults to GET, HEAD, PUT, PATCH, POST, DELETE.
	AllowMethods []message.Method

	// Defaults to Accept, Accept-Language, Content-Language, Content-Type,
	// Origin, Authorization, X-Request-ID.
	AllowHeaders []string

	ExposeHeaders []string

	// Not sent when the allowed origin is "*".
	AllowCredentials bool

	// Preflight cache lifetime in seconds; zero omits the header.
	MaxAge int
}

// CORS allows every origin with the default methods and headers.
func CORS() handler.Middleware {
	return CORSWithConfig(CORSConfig{})
}

// CORSWithConfig answers preflight requests (OPTIONS with
// Access-Control-Request-Method) itself and decorates other responses.
// A preflight only reaches the middleware when an OPTIONS route matches, so
// register one next to the protected routes:
//
//	b.Group("/api", func(b *router.Builder) {
//		b.Use(middleware.CORSWithConfig(cfg))
//		b.Options("/*", health.NoContent)
//		...
//	})
func CORSWithConfig(cfg CORSConfig) handler.Middleware {
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []message.Method{
			message.MethodGet, message.MethodHead, message.MethodPut,
			message.MethodPatch, message.MethodPost, message.MethodDelete,
		}
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{
			"Accept", "Accept-Language", "Content-Language", "Content-Type",
			"Origin", "Authorization", DefaultRequestIDHeader,
		}
	}

	methods := make([]string, len(cfg.AllowMethods))
	for i, m := range cfg.AllowMethods {
		methods[i] = string(m)
	}
	allowMethods := strings.Join(methods, ",")
	allowHeaders := strings.Join(cfg.AllowHeaders, ",")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ",")

	matchOrigin := cfg.AllowOriginFunc
	if matchOrigin == nil {
		matchOrigin = originList(cfg.AllowOrigins)
	}

	return func(next handler.HandlerFunc) handler.HandlerFunc {
		return func(ctx *handler.Context) (*message.Response, error) {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			allowedOrigin, allowed := matchOrigin(req.Header.Get("Origin"))
			credentials := cfg.AllowCredentials && allowedOrigin != "*"

			requestMethod := req.Header.Get("Access-Control-Request-Method")
			if req.Method == message.MethodOptions && requestMethod != "" {
				if !allowed || !slices.Contains(methods, requestMethod) {
					return message.NewResponse(http.StatusForbidden), nil
				}
				resp := message.NewResponse(http.StatusNoContent)
				resp.Header.Set("Access-Control-Allow-Origin", allowedOrigin)
				resp.Header.Set("Access-Control-Allow-Methods", allowMethods)
				if req.Header.Get("Access-Control-Request-Headers") != "" {
					resp.Header.Set("Access-Control-Allow-Headers", allowHeaders)
				}
				if credentials {
					resp.Header.Set("Access-Control-Allow-Credentials", "true")
				}
				if cfg.MaxAge > 0 {
					resp.Header.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				resp.Header.Add("Vary", "Origin")
				resp.Header.Add("Vary", "Access-Control-Request-Method")
				resp.Header.Add("Vary", "Access-Control-Request-Headers")
				return resp, nil
			}

			resp, err := next(ctx)
			if err != nil || resp == nil || !allowed {
				return resp, err
			}
			resp.Header.Set("Access-Control-Allow-Origin", allowedOrigin)
			if credentials {
				resp.Header.Set("Access-Control-Allow-Credentials", "true")
			}
			if exposeHeaders != "" {
				resp.Header.Set("Access-Control-Expose-Headers", exposeHeaders)
			}
			resp.Header.Add("Vary", "Origin")
			return resp, nil
		}
	}
}

func originList(origins []string) func(string) (string, bool) {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return func(string) (string, bool) { return "*", true }
	}
	set := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		set[o] = struct{}{}
	}
	return func(origin string) (string, bool) {
		if _, ok := set[origin]; ok {
			return origin, true
		}
		return "", false
	}
}

// AllowOriginSubdomain allows domain and any of its subdomains, with or
// without a port. domain is given without scheme ("example.com").
func AllowOriginSubdomain(domain string) func(origin string) (string, bool) {
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(domain, "*."), "."))
	suffix := "." + domain

	return func(origin string) (string, bool) {
		u, err := url.Parse(origin)
		if origin == "" || err != nil || u.Host == "" {
			return "", false
		}
		host := strings.ToLower(u.Hostname())
		if host == domain || strings.HasSuffix(host, suffix) {
			return origin, true
		}
		return "", false
	}
}
