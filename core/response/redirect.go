package response

import (
	"net/http"

	"github.com/dmitrymomot/wirekit/core/message"
)

// Redirect creates a 302 Found response.
func Redirect(url string) *message.Response {
	return RedirectWithStatus(url, http.StatusFound)
}

// RedirectPermanent creates a 301 Moved Permanently response.
func RedirectPermanent(url string) *message.Response {
	return RedirectWithStatus(url, http.StatusMovedPermanently)
}

// RedirectSeeOther creates a 303 See Other response, used after a POST.
func RedirectSeeOther(url string) *message.Response {
	return RedirectWithStatus(url, http.StatusSeeOther)
}

// RedirectWithStatus creates a redirect with a custom status code.
// Codes outside the 3xx range fall back to 302.
func RedirectWithStatus(url string, status int) *message.Response {
	if status < 300 || status >= 400 {
		status = http.StatusFound
	}
	resp := message.NewResponse(status)
	resp.Header.Set("Location", url)
	return resp
}
