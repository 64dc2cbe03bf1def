package hash_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/pkg/hash"
)

func TestHMAC_KnownVectors(t *testing.T) {
	t.Parallel()

	// RFC 4231 test case 2
	key := []byte("Jefe")
	msg := []byte("what do ya want for nothing?")

	tests := []struct {
		variant hash.Variant
		want    string
	}{
		{hash.SHA256, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843"},
		{hash.SHA384, "af45d2e376484031617f78d2b58a6b1b9c7ef464f5a01b47e42ec3736322445e8e2240ca5e69e2c78b3239ecfab21649"},
		{hash.SHA512, "164b7a7bfcf819e2e395fbe73b56e0a387bd64222e831fd610270cd7ea2505549758bf75c05a994a6d034f65f8f0e6fdcaeab1a34d4a6b4b636e070a38bce737"},
	}

	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			t.Parallel()
			sum, err := hash.HMAC{}.Hash(msg, key, tt.variant)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sum)
			assert.True(t, hash.Verify(hash.HMAC{}, msg, key, tt.variant, tt.want))
			assert.True(t, hash.Verify(hash.HMAC{}, msg, key, tt.variant, strings.ToUpper(tt.want)))
		})
	}
}

func TestPlain(t *testing.T) {
	t.Parallel()

	sum, err := hash.Plain{}.Hash([]byte("abc"), []byte("ignored"), hash.SHA256)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)

	sum, err = hash.Plain{}.Hash([]byte(""), nil, hash.SHA3_256)
	require.NoError(t, err)
	assert.Equal(t, "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a", sum)
}

func TestSHA3Lengths(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		variant hash.Variant
		hexLen  int
	}{
		{hash.SHA3_256, 64},
		{hash.SHA3_512, 128},
	} {
		sum, err := hash.HMAC{}.Hash([]byte("msg"), []byte("key"), tt.variant)
		require.NoError(t, err)
		assert.Len(t, sum, tt.hexLen)
	}
}

func TestUnknownVariant(t *testing.T) {
	t.Parallel()

	_, err := hash.HMAC{}.Hash([]byte("m"), []byte("k"), hash.Variant("md5"))
	assert.ErrorIs(t, err, hash.ErrUnknownVariant)

	_, err = hash.Plain{}.Hash([]byte("m"), nil, hash.Variant(""))
	assert.ErrorIs(t, err, hash.ErrUnknownVariant)

	assert.False(t, hash.Verify(hash.HMAC{}, []byte("m"), []byte("k"), "md5", "00"))
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()

	msg, key := []byte("payload"), []byte("secret")
	sum, err := hash.HMAC{}.Hash(msg, key, hash.SHA256)
	require.NoError(t, err)

	assert.False(t, hash.Verify(hash.HMAC{}, []byte("payload!"), key, hash.SHA256, sum))
	assert.False(t, hash.Verify(hash.HMAC{}, msg, []byte("other"), hash.SHA256, sum))
	assert.False(t, hash.Verify(hash.HMAC{}, msg, key, hash.SHA512, sum))
	assert.False(t, hash.Verify(hash.HMAC{}, msg, key, hash.SHA256, "not-hex"))
	assert.False(t, hash.Verify(hash.HMAC{}, msg, key, hash.SHA256, sum[:10]))
}

func TestParseVariant(t *testing.T) {
	t.Parallel()

	v, err := hash.ParseVariant(" SHA512 ")
	require.NoError(t, err)
	assert.Equal(t, hash.SHA512, v)

	for _, v := range hash.Variants() {
		parsed, err := hash.ParseVariant(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}

	_, err = hash.ParseVariant("sha1")
	assert.ErrorIs(t, err, hash.ErrUnknownVariant)
}
