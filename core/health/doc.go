// Package health provides handlers for liveness and readiness checks.
//
//	b.Get("/health/live", health.Liveness)
//	b.Get("/health/ready", health.Readiness(log,
//		health.Check{Name: "store", Fn: store.Ping},
//	))
//	b.Get("/ping", health.NoContent)
//
// Readiness runs every check in order under the request context and
// answers 503 with the failed check names when any of them fails.
package health
