package middleware_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/response"
	"github.com/dmitrymomot/wirekit/middleware"
	"github.com/dmitrymomot/wirekit/pkg/hash"
)

func TestSignature(t *testing.T) {
	t.Parallel()

	key := []byte("webhook-secret")
	body := []byte(`{"event":"paid"}`)
	sum, err := hash.HMAC{}.Hash(body, key, hash.SHA256)
	require.NoError(t, err)

	signed := func(header string) *message.Request {
		req := newRequest(message.MethodPost, "/hooks")
		req.Body = body
		if header != "" {
			req.Header.Set("X-Signature", header)
		}
		return req
	}
	mw := middleware.Signature(middleware.SignatureConfig{Key: key})

	tests := []struct {
		name    string
		header  string
		allowed bool
		message string
	}{
		{"valid", sum, true, ""},
		{"valid with prefix", "sha256=" + sum, true, ""},
		{"missing", "", false, "missing signature"},
		{"wrong digest", sum[:len(sum)-2] + "00", false, "invalid signature"},
		{"wrong prefix", "sha512=" + sum, false, "invalid signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, _, err := run(t, mw, ok, signed(tt.header))
			if tt.allowed {
				require.NoError(t, err)
				mustStatus(t, resp, 200)
				return
			}
			assert.Nil(t, resp)
			httpErr := response.AsHTTPError(err)
			assert.Equal(t, 401, httpErr.StatusCode())
			assert.Equal(t, tt.message, httpErr.Message)
		})
	}
}

func TestSignature_Config(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { middleware.Signature(middleware.SignatureConfig{}) })

	key := []byte("k")
	req := newRequest(message.MethodPost, "/")
	req.Body = []byte("payload")
	sum, err := hash.HMAC{}.Hash(req.Body, key, hash.SHA3_256)
	require.NoError(t, err)
	req.Header.Set("X-Hub-Signature", sum)

	mw := middleware.Signature(middleware.SignatureConfig{
		Key:        key,
		HeaderName: "X-Hub-Signature",
		Variant:    hash.SHA3_256,
	})
	resp, _, err := run(t, mw, ok, req)
	require.NoError(t, err)
	mustStatus(t, resp, 200)
}
