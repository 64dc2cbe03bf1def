// Package binder maps request data onto structs.
//
// Four sources are supported, each selected by its own struct tag:
//
//	type UpdateNote struct {
//		ID    int      `path:"id"`
//		Tags  []string `query:"tags"`  // ?tags=a&tags=b or ?tags=a,b
//		Draft *bool    `form:"draft"`  // optional
//		Text  string   `json:"text"`
//	}
//
//	var in UpdateNote
//	if err := binder.Bind(ctx, &in, binder.Path(), binder.Query(), binder.JSON()); err != nil {
//		return nil, err
//	}
//
// Fields without a tag bind to their lower-cased name; a "-" tag skips them.
// Path binding prefers the value converted by a typed route segment when it
// is assignable to the field, so `{id:uuid}` fills a uuid.UUID directly.
//
// Failures are *Error values. They report 400, or 415 for a body whose
// content type the binder does not handle, so returning them from a handler
// produces the matching error response.
package binder
