package response

import (
	"net/http"

	"github.com/dmitrymomot/wirekit/core/message"
)

const (
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeJSON = "application/json; charset=utf-8"
)

// String creates a text/plain response with 200 OK status.
func String(content string) *message.Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus creates a text/plain response with custom status code.
func StringWithStatus(content string, status int) *message.Response {
	return BytesWithStatus([]byte(content), ContentTypeText, status)
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) *message.Response {
	return HTMLWithStatus(content, http.StatusOK)
}

// HTMLWithStatus creates a text/html response with custom status code.
func HTMLWithStatus(content string, status int) *message.Response {
	return BytesWithStatus([]byte(content), ContentTypeHTML, status)
}

// Bytes creates a response with custom content type and 200 OK status.
func Bytes(content []byte, contentType string) *message.Response {
	return BytesWithStatus(content, contentType, http.StatusOK)
}

// BytesWithStatus creates a response with custom content type and status code.
// A zero status means 200.
func BytesWithStatus(content []byte, contentType string, status int) *message.Response {
	resp := message.NewResponse(statusOr(status, http.StatusOK))
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	resp.Body = message.Bytes(content)
	return resp
}

// NoContent creates a 204 No Content response.
func NoContent() *message.Response {
	return message.NewResponse(http.StatusNoContent)
}

// Status creates an empty response with the specified status code.
func Status(code int) *message.Response {
	return message.NewResponse(statusOr(code, http.StatusOK))
}

func statusOr(status, fallback int) int {
	if status == 0 {
		return fallback
	}
	return status
}
