package message

import (
	"maps"
	"slices"
)

// Response is an HTTP response waiting to be serialized.
type Response struct {
	Status  int
	Reason  string // overrides the status table when set
	Header  Header
	Cookies map[string]string
	Body    Body
}

// NewResponse creates an empty response with the given status.
func NewResponse(status int) *Response {
	return &Response{
		Status:  status,
		Cookies: make(map[string]string),
	}
}

// ReasonPhrase returns Reason or the status table entry.
func (r *Response) ReasonPhrase() string {
	if r.Reason != "" {
		return r.Reason
	}
	return StatusText(r.Status)
}

// SetHeader replaces a header value.
func (r *Response) SetHeader(name, value string) *Response {
	r.Header.Set(name, value)
	return r
}

// AddHeader appends a header value.
func (r *Response) AddHeader(name, value string) *Response {
	r.Header.Add(name, value)
	return r
}

// SetCookie sets a cookie to be sent as its own Set-Cookie line.
func (r *Response) SetCookie(name, value string) *Response {
	if r.Cookies == nil {
		r.Cookies = make(map[string]string)
	}
	r.Cookies[name] = value
	return r
}

// CookieNames returns cookie names in lexical order.
func (r *Response) CookieNames() []string {
	return slices.Sorted(maps.Keys(r.Cookies))
}

// ContentLength returns the body length and whether it is known upfront.
// A nil body has a known length of zero.
func (r *Response) ContentLength() (int, bool) {
	if r.Body == nil {
		return 0, true
	}
	if s, ok := r.Body.(Sized); ok {
		return s.Len(), true
	}
	return 0, false
}
