package response

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/wirekit/core/message"
)

// Templ creates an HTML response rendering component with 200 OK status.
// The component renders during serialization with ctx, so it can read
// request-scoped values.
func Templ(ctx context.Context, component templ.Component) *message.Response {
	return TemplWithStatus(ctx, component, http.StatusOK)
}

// TemplWithStatus is Templ with a custom status code.
func TemplWithStatus(ctx context.Context, component templ.Component, status int) *message.Response {
	resp := message.NewResponse(statusOr(status, http.StatusOK))
	resp.Header.Set("Content-Type", ContentTypeHTML)
	if component == nil {
		return resp
	}
	resp.Body = message.StreamFunc(func(w io.Writer) error {
		if err := component.Render(ctx, w); err != nil {
			return fmt.Errorf("templ component render error: %w", err)
		}
		return nil
	})
	return resp
}
