package cookie

import (
	"encoding/base64"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/pkg/hash"
)

const minSecretLength = 32

// Signer writes and reads signed cookies.
type Signer struct {
	secrets  [][]byte
	variant  hash.Variant
	driver   hash.Driver
	defaults Options
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithVariant selects the digest used for signatures. Defaults to SHA256.
func WithVariant(v hash.Variant) SignerOption {
	return func(s *Signer) { s.variant = v }
}

// WithDefaults replaces the default cookie attributes.
func WithDefaults(opts ...Option) SignerOption {
	return func(s *Signer) { s.defaults = applyOptions(Options{}, opts) }
}

// New creates a Signer. Empty secrets are dropped; the remaining ones must
// be at least 32 characters.
func New(secrets []string, opts ...SignerOption) (*Signer, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	s := &Signer{
		variant:  hash.SHA256,
		driver:   hash.HMAC{},
		defaults: Options{Path: "/", HttpOnly: true, SameSite: SameSiteLax},
	}
	for i, secret := range secrets {
		if len(secret) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars", ErrSecretTooShort, i, len(secret))
		}
		s.secrets = append(s.secrets, []byte(secret))
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := hash.ParseVariant(string(s.variant)); err != nil {
		return nil, err
	}
	return s, nil
}

// Set adds a signed cookie to resp.
func (s *Signer) Set(resp *message.Response, name, value string, opts ...Option) {
	o := applyOptions(s.defaults, opts)
	resp.SetCookie(name, s.sign(name, value)+o.attributes())
}

// Delete adds an expired cookie to resp.
func (s *Signer) Delete(resp *message.Response, name string, opts ...Option) {
	o := applyOptions(s.defaults, opts)
	o.MaxAge = -1
	resp.SetCookie(name, o.attributes())
}

// Get returns the verified value of the named cookie.
func (s *Signer) Get(req *message.Request, name string) (string, error) {
	signed, ok := req.Cookie(name)
	if !ok {
		return "", ErrCookieNotFound
	}
	return s.verify(name, signed)
}

func (s *Signer) sign(name, value string) string {
	// the variant was validated in New
	mac, _ := s.driver.Hash([]byte(name+"="+value), s.secrets[0], s.variant)
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "." + mac
}

func (s *Signer) verify(name, signed string) (string, error) {
	encoded, sig, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrInvalidFormat
	}
	value, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}
	msg := []byte(name + "=" + string(value))
	for _, secret := range s.secrets {
		if hash.Verify(s.driver, msg, secret, s.variant, sig) {
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}
