// Package wire reads HTTP/1.x requests from a stream.ByteStream and writes
// responses back onto it.
//
// A Reader owns one bufio.Reader for the whole connection, so bytes of a
// pipelined request that arrive together with the previous one are kept:
//
//	rd := wire.NewReader(s, wire.WithMaxBodyBytes(1<<20))
//	for {
//		req, err := rd.ReadRequest()
//		if err != nil {
//			break // io.EOF, *wire.ParseError or *stream.IOError
//		}
//		resp := dispatch(req)
//		if err := wire.WriteResponse(resp, s, req.KeepAlive()); err != nil {
//			break
//		}
//	}
//
// WriteResponse frames bodies with Content-Length when their length is known
// (message.Sized) and with chunked transfer encoding otherwise. Header lines are
// emitted sorted by name so output is byte-for-byte deterministic.
package wire
