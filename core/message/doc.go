// Package message holds the HTTP/1.x value types exchanged between the wire
// layer and the router: Request, Response, Header, Method, Version, and the
// status reason table.
//
// Requests are produced by the wire parser, handled once, and discarded.
// Header lookups are case-insensitive; repeated names accumulate values in
// arrival order. Structured body access is lazy:
//
//	v, err := req.Field("hello") // JSON or form body decoded on first access
//	var body payload
//	err = req.Decode(&body)
//
// A Response body is a Body capability. Bytes has a statically known length and
// is framed with Content-Length; StreamFunc writes to a sink of unknown length
// and is framed with chunked transfer encoding:
//
//	resp := message.NewResponse(420)
//	resp.SetCookie("key", "val")
//	resp.Body = message.StreamFunc(func(w io.Writer) error {
//		_, err := io.WriteString(w, "Hello, world")
//		return err
//	})
package message
