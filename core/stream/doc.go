// Package stream defines ByteStream, the bidirectional byte channel the HTTP wire
// layer reads requests from and writes responses to.
//
// A ByteStream has blocking semantics: Receive waits until at least one byte is
// available or the peer is gone, and Send returns only after every byte was
// accepted by the underlying channel. A clean end of stream is reported as io.EOF;
// any other failure is wrapped in *IOError.
//
// Two implementations are provided:
//
//	// Wrap an accepted TCP connection.
//	s := stream.NewConn(conn)
//
//	// In-memory stream with scripted input, useful in tests.
//	buf := stream.NewBuffer([]byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n"))
//	// ... run the exchange ...
//	out := buf.Output()
//
// NewReader and NewWriter adapt a ByteStream to io.Reader and io.Writer so that
// bufio can be layered on top.
package stream
