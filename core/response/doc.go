// Package response provides constructors for *message.Response values and
// the structured HTTPError type handlers return for client-visible failures.
//
//	func show(ctx *handler.Context) (*message.Response, error) {
//		user, err := users.Find(ctx, ctx.Param("id"))
//		if errors.Is(err, store.ErrNotFound) {
//			return nil, response.ErrNotFound.WithMessage("user not found")
//		}
//		if err != nil {
//			return nil, err
//		}
//		return response.JSON(user)
//	}
//
// Buffered constructors (String, HTML, Bytes, JSON) produce bodies with a
// known length, which the serializer frames with Content-Length. Stream and
// Templ produce bodies written directly to the connection with chunked
// transfer encoding.
//
// Decorators such as WithHeader and WithCookie modify a response in place
// and return it, so they compose around constructors:
//
//	return response.WithCookie(response.Redirect("/"), "session", token), nil
package response
