package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ErrUnknownVariant is returned for a Variant no driver knows how to compute.
var ErrUnknownVariant = errors.New("hash: unknown variant")

// Variant names a digest algorithm.
type Variant string

const (
	SHA256   Variant = "sha256"
	SHA384   Variant = "sha384"
	SHA512   Variant = "sha512"
	SHA3_256 Variant = "sha3-256"
	SHA3_512 Variant = "sha3-512"
)

// Variants lists every supported variant.
func Variants() []Variant {
	return []Variant{SHA256, SHA384, SHA512, SHA3_256, SHA3_512}
}

// ParseVariant accepts a variant name in any case.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if _, err := v.constructor(); err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
	return v, nil
}

func (v Variant) constructor() (func() hash.Hash, error) {
	switch v {
	case SHA256:
		return sha256.New, nil
	case SHA384:
		return sha512.New384, nil
	case SHA512:
		return sha512.New, nil
	case SHA3_256:
		return sha3.New256, nil
	case SHA3_512:
		return sha3.New512, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
}

// Driver computes a hex digest of message under key.
type Driver interface {
	Hash(message, key []byte, v Variant) (string, error)
}

// HMAC is the keyed Driver.
type HMAC struct{}

func (HMAC) Hash(message, key []byte, v Variant) (string, error) {
	newHash, err := v.constructor()
	if err != nil {
		return "", err
	}
	mac := hmac.New(newHash, key)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Plain is an unkeyed Driver. The key is ignored.
type Plain struct{}

func (Plain) Hash(message, _ []byte, v Variant) (string, error) {
	newHash, err := v.constructor()
	if err != nil {
		return "", err
	}
	h := newHash()
	h.Write(message)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether expectedHex is the digest of message. The
// comparison is constant-time and case-insensitive on the hex input.
func Verify(d Driver, message, key []byte, v Variant, expectedHex string) bool {
	expected, err := hex.DecodeString(strings.TrimSpace(expectedHex))
	if err != nil {
		return false
	}
	sum, err := d.Hash(message, key, v)
	if err != nil {
		return false
	}
	actual, err := hex.DecodeString(sum)
	if err != nil {
		return false
	}
	return hmac.Equal(actual, expected)
}
