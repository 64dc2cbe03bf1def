// Package server accepts TCP connections and serves HTTP/1.1 exchanges on
// them with the wire codec.
//
// Each connection is owned by one goroutine that reads a request, hands it to
// the Handler and writes the response, looping while the connection is kept
// alive. Malformed requests are answered with 400 and the connection is closed.
// Read failures and clean end-of-stream close the connection silently.
//
//	srv := server.New(":8080", server.WithLogger(log))
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, dispatcher))
//	if err := g.Wait(); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// Stop closes the listener and idle connections, then waits up to the
// shutdown timeout for in-flight exchanges to finish. Responses written during
// shutdown carry "Connection: close".
package server
