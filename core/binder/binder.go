package binder

import (
	"errors"
	"net/url"

	"github.com/dmitrymomot/wirekit/core/handler"
	"github.com/dmitrymomot/wirekit/core/message"
)

// Binder fills v from one part of the request in ctx.
type Binder func(ctx *handler.Context, v any) error

// Bind runs binders in order and stops at the first failure.
func Bind(ctx *handler.Context, v any, binders ...Binder) error {
	for _, b := range binders {
		if err := b(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

// Query binds the query string using `query` tags.
func Query() Binder {
	return func(ctx *handler.Context, v any) error {
		values, err := url.ParseQuery(ctx.Request().RawQuery)
		if err != nil {
			return &Error{Kind: ErrFailedToParseQuery, Err: err}
		}
		return bindValues(v, "query", values, nil, ErrFailedToParseQuery)
	}
}

// Path binds matched route parameters using `path` tags.
func Path() Binder {
	return func(ctx *handler.Context, v any) error {
		raw := ctx.Params()
		values := make(map[string][]string, len(raw))
		typed := make(map[string]any, len(raw))
		for key, value := range raw {
			values[key] = []string{value}
			if tv, ok := handler.ParamAs[any](ctx, key); ok && tv != nil {
				typed[key] = tv
			}
		}
		return bindValues(v, "path", values, typed, ErrFailedToParsePath)
	}
}

// Form binds an application/x-www-form-urlencoded body using `form` tags.
// Requests without a body are left untouched.
func Form() Binder {
	return func(ctx *handler.Context, v any) error {
		req := ctx.Request()
		if len(req.Body) == 0 {
			return nil
		}
		if ct := req.ContentType(); ct != message.ContentTypeForm {
			return &Error{Kind: ErrUnsupportedMediaType, Err: mediaTypeError(ct)}
		}
		values, err := url.ParseQuery(string(req.Body))
		if err != nil {
			return &Error{Kind: ErrFailedToParseForm, Err: err}
		}
		return bindValues(v, "form", values, nil, ErrFailedToParseForm)
	}
}

// JSON decodes a JSON body with encoding/json. Requests without a body are
// left untouched.
func JSON() Binder {
	return func(ctx *handler.Context, v any) error {
		req := ctx.Request()
		if len(req.Body) == 0 {
			return nil
		}
		if err := req.Decode(v); err != nil {
			if errors.Is(err, message.ErrUnsupportedContentType) {
				return &Error{Kind: ErrUnsupportedMediaType, Err: mediaTypeError(req.ContentType())}
			}
			return &Error{Kind: ErrFailedToParseJSON, Err: err}
		}
		return nil
	}
}
