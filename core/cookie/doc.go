// Package cookie signs response cookies and verifies them on later requests.
//
// A signed value has the form base64url(value) "." hex(mac), where mac is
// computed by a pkg/hash driver over "name=" + value so a signature cannot be
// replayed under another cookie name. Several secrets may be configured: the
// first signs, all of them verify, which allows rotation.
//
//	signer, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")})
//	if err != nil {
//		return err
//	}
//	signer.Set(resp, "theme", "dark", cookie.WithMaxAge(3600))
//	theme, err := signer.Get(ctx.Request(), "theme")
package cookie
