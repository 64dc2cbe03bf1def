// Package hash provides pluggable message digest drivers.
//
// A Driver turns a message and key into a lowercase hex string for a given
// Variant. HMAC keys the digest, Plain ignores the key.
//
//	sum, err := hash.HMAC{}.Hash(body, secret, hash.SHA256)
//	if err != nil {
//		// hash.ErrUnknownVariant
//	}
//
//	ok := hash.Verify(hash.HMAC{}, body, secret, hash.SHA256, header)
//
// Variants can be parsed from configuration with ParseVariant.
package hash
