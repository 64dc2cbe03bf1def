// Package router maps (host, method, path) to handlers and dispatches
// requests to them.
//
// Routes live in one radix tree per host. The wildcard host "*" (or an empty
// host) answers for any host that has no matching route of its own. Within a
// tree, segments are matched left to right with the precedence
//
//	/users/new        static
//	/users/{id:int}   typed, value converted by the ParamTypes registry
//	/users/{name}     text parameter, ":name" is accepted as shorthand
//	/users/*          catch-all, value under the "*" key
//
// A typed segment whose converter rejects the value does not match, and the
// next candidate is tried.
//
// Routes are registered through a Builder, which keeps the active host, path
// prefix and middleware stack. Nested scopes restore the enclosing one on exit:
//
//	r := router.New()
//	b := router.NewBuilder(r)
//	b.Use(middleware.Logging(log))
//	b.Host("api.example.com", func(b *router.Builder) {
//		b.Group("/v1", func(b *router.Builder) {
//			b.Get("/users/{id:int}", showUser)
//			router.Resource[int](b, "/posts", posts)
//		})
//	})
//
//	d := router.NewDispatcher(r, router.WithLogger(log))
//	resp := d.Dispatch(ctx, req)
//
// Registration happens during setup. Match and Dispatch are safe for
// concurrent use afterwards.
package router
