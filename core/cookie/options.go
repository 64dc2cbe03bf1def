package cookie

import (
	"strconv"
	"strings"
)

// SameSite values for the SameSite attribute.
const (
	SameSiteLax    = "Lax"
	SameSiteStrict = "Strict"
	SameSiteNone   = "None"
)

// Options are the attributes written after the cookie value.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int // seconds; negative deletes the cookie
	Secure   bool
	HttpOnly bool
	SameSite string
}

// Option mutates Options for a single cookie.
type Option func(*Options)

func WithPath(path string) Option         { return func(o *Options) { o.Path = path } }
func WithDomain(domain string) Option     { return func(o *Options) { o.Domain = domain } }
func WithMaxAge(seconds int) Option       { return func(o *Options) { o.MaxAge = seconds } }
func WithSecure(secure bool) Option       { return func(o *Options) { o.Secure = secure } }
func WithHttpOnly(httpOnly bool) Option   { return func(o *Options) { o.HttpOnly = httpOnly } }
func WithSameSite(sameSite string) Option { return func(o *Options) { o.SameSite = sameSite } }

func applyOptions(base Options, opts []Option) Options {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// attributes renders the "; Path=/; HttpOnly" suffix in a fixed order.
func (o Options) attributes() string {
	var b strings.Builder
	if o.Path != "" {
		b.WriteString("; Path=" + o.Path)
	}
	if o.Domain != "" {
		b.WriteString("; Domain=" + o.Domain)
	}
	switch {
	case o.MaxAge > 0:
		b.WriteString("; Max-Age=" + strconv.Itoa(o.MaxAge))
	case o.MaxAge < 0:
		b.WriteString("; Max-Age=0")
	}
	if o.Secure {
		b.WriteString("; Secure")
	}
	if o.HttpOnly {
		b.WriteString("; HttpOnly")
	}
	if o.SameSite != "" {
		b.WriteString("; SameSite=" + o.SameSite)
	}
	return b.String()
}
