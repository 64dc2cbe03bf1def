// Package middleware provides handler.Middleware for cross-cutting concerns:
// request IDs, client IP extraction, structured logging, rate limiting,
// Prometheus metrics, body signatures, CORS and security headers.
//
// All middleware follow the same pattern: a configuration struct with a
// Skip hook, a default constructor, and a WithConfig constructor where there
// is more than one knob. Values stored in the handler context are read back
// with Get helpers.
//
//	b := router.NewBuilder(router.New())
//	b.Use(
//		middleware.RequestID(),
//		middleware.LoggingWithLogger(log),
//		middleware.Metrics(middleware.MetricsConfig{Registerer: reg}),
//	)
//	b.Get("/metrics", middleware.MetricsHandler(reg))
//
// # Errors
//
// Middleware run inside the route's chain, so a handler error reaches them
// before the dispatcher turns it into a response. Logging and Metrics report
// the status the error maps to through response.AsHTTPError. Decorating
// middleware (RequestID, CORS, SecurityHeaders) only touch responses returned
// without an error; error handlers can read GetRequestID themselves.
//
// # Rate limiting
//
// RateLimit keeps one token bucket per key using golang.org/x/time/rate.
// Rejected requests get 429 with Retry-After in whole seconds.
//
//	b.Use(middleware.ClientIP(middleware.ClientIPConfig{TrustProxyHeaders: true}))
//	b.Use(middleware.RateLimit(middleware.RateLimitConfig{Rate: 10, Burst: 20}))
//
// # Signatures
//
// Signature verifies an HMAC of the raw request body carried in
// X-Signature, as webhook providers send it:
//
//	b.With([]handler.Middleware{middleware.Signature(middleware.SignatureConfig{
//		Key: []byte(secret),
//	})}, func(b *router.Builder) {
//		b.Post("/hooks", receive)
//	})
package middleware
