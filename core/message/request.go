package message

import (
	"bytes"
	"encoding/json"
	"mime"
	"net"
	"net/url"
	"strings"
	"sync"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Request is a parsed HTTP request.
type Request struct {
	Method     Method
	Target     string // raw request-target as received
	Path       string
	RawQuery   string
	Version    Version
	Header     Header
	Cookies    map[string]string
	Body       []byte
	RemoteAddr string

	dataOnce sync.Once
	data     any
	dataErr  error
}

// NewRequest builds a request for target ("/path?query").
func NewRequest(method Method, target string) *Request {
	r := &Request{
		Method:  method,
		Version: HTTP11,
		Cookies: make(map[string]string),
	}
	r.SetTarget(target)
	return r
}

// SetTarget sets Target and splits it into Path and RawQuery.
func (r *Request) SetTarget(target string) {
	r.Target = target
	path, query, _ := strings.Cut(target, "?")
	if path == "" {
		path = "/"
	}
	r.Path = path
	r.RawQuery = query
}

// Host returns the Host header without port, lower-cased.
func (r *Request) Host() string {
	host := strings.TrimSpace(r.Header.Get("Host"))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(host)
}

// Query parses the raw query string.
func (r *Request) Query() url.Values {
	q, _ := url.ParseQuery(r.RawQuery)
	return q
}

// Cookie returns the named request cookie.
func (r *Request) Cookie(name string) (string, bool) {
	v, ok := r.Cookies[name]
	return v, ok
}

// ContentType returns the media type of the body without parameters.
func (r *Request) ContentType() string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mt
}

// KeepAlive reports whether the client asked for the connection to stay open.
func (r *Request) KeepAlive() bool {
	if r.Header.ContainsToken("Connection", "close") {
		return false
	}
	if r.Version.AtLeast(1, 1) {
		return true
	}
	return r.Header.ContainsToken("Connection", "keep-alive")
}

// Data decodes the body according to its content type on first use.
// JSON bodies decode into map[string]any, []any, string, float64, bool or nil.
// Form bodies decode into map[string]any whose values are string or []any.
// Other content types yield nil. Decode failures are *BodyParseError.
func (r *Request) Data() (any, error) {
	r.dataOnce.Do(func() {
		r.data, r.dataErr = r.parseData()
	})
	return r.data, r.dataErr
}

// Field returns a top-level field of the structured body.
func (r *Request) Field(name string) (any, error) {
	data, err := r.Data()
	if err != nil {
		return nil, err
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, ErrNotAnObject
	}
	return obj[name], nil
}

// Decode unmarshals a JSON body into v.
func (r *Request) Decode(v any) error {
	ct := r.ContentType()
	if ct != "" && !isJSON(ct) {
		return &BodyParseError{ContentType: ct, Err: ErrUnsupportedContentType}
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &BodyParseError{ContentType: ContentTypeJSON, Err: err}
	}
	return nil
}

func (r *Request) parseData() (any, error) {
	ct := r.ContentType()
	switch {
	case isJSON(ct):
		if len(bytes.TrimSpace(r.Body)) == 0 {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal(r.Body, &v); err != nil {
			return nil, &BodyParseError{ContentType: ct, Err: err}
		}
		return v, nil
	case ct == ContentTypeForm:
		values, err := url.ParseQuery(string(r.Body))
		if err != nil {
			return nil, &BodyParseError{ContentType: ct, Err: err}
		}
		obj := make(map[string]any, len(values))
		for k, vv := range values {
			if len(vv) == 1 {
				obj[k] = vv[0]
				continue
			}
			list := make([]any, len(vv))
			for i, v := range vv {
				list[i] = v
			}
			obj[k] = list
		}
		return obj, nil
	default:
		return nil, nil
	}
}

// isJSON matches application/json and structured suffixes like application/problem+json.
func isJSON(ct string) bool {
	return ct == ContentTypeJSON || strings.HasSuffix(ct, "+json")
}
