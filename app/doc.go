// Package app bundles a router, a dispatcher and a server into one
// application value configured from the environment.
//
//	a, err := app.NewApp()
//	if err != nil {
//		log.Fatal(err)
//	}
//	b := a.Builder()
//	b.Use(middleware.RequestID())
//	b.Get("/", home)
//
//	if err := a.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// Configuration comes from core/config unless WithConfig is given.
package app
