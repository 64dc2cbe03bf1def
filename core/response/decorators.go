package response

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/wirekit/core/message"
)

// WithHeader sets a header on resp.
func WithHeader(resp *message.Response, name, value string) *message.Response {
	if resp == nil {
		return nil
	}
	return resp.SetHeader(name, value)
}

// WithHeaders sets every header in headers on resp.
func WithHeaders(resp *message.Response, headers map[string]string) *message.Response {
	if resp == nil {
		return nil
	}
	for k, v := range headers {
		resp.Header.Set(k, v)
	}
	return resp
}

// WithCookie adds a cookie sent as its own Set-Cookie line.
func WithCookie(resp *message.Response, name, value string) *message.Response {
	if resp == nil {
		return nil
	}
	return resp.SetCookie(name, value)
}

// WithStatus overrides the status code.
func WithStatus(resp *message.Response, status int) *message.Response {
	if resp == nil {
		return nil
	}
	resp.Status = status
	resp.Reason = ""
	return resp
}

// WithCache sets cache control headers. A positive maxAge enables public
// caching; anything else disables caching.
func WithCache(resp *message.Response, maxAge time.Duration) *message.Response {
	if resp == nil {
		return nil
	}
	if maxAge > 0 {
		resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds())))
		resp.Header.Set("Expires", time.Now().Add(maxAge).UTC().Format(http.TimeFormat))
		return resp
	}
	resp.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	resp.Header.Set("Pragma", "no-cache")
	resp.Header.Set("Expires", "0")
	return resp
}
