package response

import (
	"io"
	"net/http"

	"github.com/dmitrymomot/wirekit/core/message"
)

// Stream creates a 200 response whose body is produced by writer while the
// response is serialized. Each write becomes one chunk on the wire.
//
//	response.Stream("text/plain", func(w io.Writer) error {
//		for i := range 100 {
//			if _, err := fmt.Fprintf(w, "line %d\n", i); err != nil {
//				return err
//			}
//		}
//		return nil
//	})
func Stream(contentType string, writer func(w io.Writer) error) *message.Response {
	resp := message.NewResponse(http.StatusOK)
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	resp.Header.Set("Cache-Control", "no-cache")
	resp.Body = message.StreamFunc(writer)
	return resp
}
