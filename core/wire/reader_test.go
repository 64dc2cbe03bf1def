package wire_test

import (
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/stream"
	"github.com/dmitrymomot/wirekit/core/wire"
)

func parse(t *testing.T, raw string, opts ...wire.Option) (*message.Request, error) {
	t.Helper()
	return wire.Parse(stream.NewBuffer([]byte(raw), stream.WithFragmentSize(7)), opts...)
}

func TestParse_JSONPost(t *testing.T) {
	t.Parallel()

	raw := "POST /json HTTP/1.1\r\n" +
		"Host: localhost\r\n" +
		"Content-Type: application/json\r\n" +
		"Content-Length: 19\r\n" +
		"\r\n" +
		"{\"hello\": \"world\"}\n"

	req, err := parse(t, raw)
	require.NoError(t, err)

	assert.Equal(t, message.MethodPost, req.Method)
	assert.Equal(t, "/json", req.Path)
	assert.Equal(t, message.Version{Major: 1, Minor: 1}, req.Version)
	assert.Len(t, req.Body, 19)

	hello, err := req.Field("hello")
	require.NoError(t, err)
	assert.Equal(t, "world", hello)
}

func TestParse_Cookies(t *testing.T) {
	t.Parallel()

	t.Run("two cookie headers", func(t *testing.T) {
		t.Parallel()

		raw := "GET / HTTP/1.1\r\nHost: x\r\nCookie: 1=1\r\nCookie: 2=2\r\n\r\n"
		req, err := parse(t, raw)
		require.NoError(t, err)

		assert.Equal(t, map[string]string{"1": "1", "2": "2"}, req.Cookies)
		assert.Len(t, req.Header.Values("cookie"), 2)
	})

	t.Run("several pairs across lines", func(t *testing.T) {
		t.Parallel()

		raw := "GET / HTTP/1.1\r\n" +
			"Cookie: a=1; b=2;c=3\r\n" +
			"cookie: d=x=y; e=\"quoted\"; broken; =nameless\r\n" +
			"\r\n"
		req, err := parse(t, raw)
		require.NoError(t, err)

		assert.Equal(t, map[string]string{
			"a": "1", "b": "2", "c": "3", "d": "x=y", "e": "quoted",
		}, req.Cookies)
	})
}

func TestParse_Headers(t *testing.T) {
	t.Parallel()

	raw := "GET /path?x=1 HTTP/1.1\r\n" +
		"X-Test: one\r\n" +
		"x-test:two\r\n" +
		"X-TEST:   three  \r\n" +
		"Empty:\r\n" +
		"\r\n"
	req, err := parse(t, raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two", "three"}, req.Header.Values("X-Test"))
	assert.True(t, req.Header.Has("empty"))
	assert.Equal(t, "", req.Header.Get("empty"))
	assert.Equal(t, "/path", req.Path)
	assert.Equal(t, "x=1", req.RawQuery)
	assert.Empty(t, req.Body)
}

func TestParse_ChunkedBody(t *testing.T) {
	t.Parallel()

	raw := "POST /upload HTTP/1.1\r\n" +
		"Transfer-Encoding: chunked\r\n" +
		"\r\n" +
		"3\r\nhey\r\n" +
		"2;ext=1\r\n!!\r\n" +
		"A\r\n0123456789\r\n" +
		"0\r\n" +
		"Trailer: ignored\r\n" +
		"\r\n"

	req, err := parse(t, raw)
	require.NoError(t, err)
	assert.Equal(t, "hey!!0123456789", string(req.Body))
}

func TestParse_KeepAlivePipelining(t *testing.T) {
	t.Parallel()

	raw := "POST /a HTTP/1.1\r\nContent-Length: 3\r\n\r\nabc" +
		"GET /b HTTP/1.1\r\n\r\n"

	rd := wire.NewReader(stream.NewBuffer([]byte(raw), stream.WithFragmentSize(5)))

	first, err := rd.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "/a", first.Path)
	assert.Equal(t, "abc", string(first.Body))

	second, err := rd.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "/b", second.Path)

	_, err = rd.ReadRequest()
	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, wire.IsParseError(err))
}

func TestParse_ChunkedBodyUnboundedLimit(t *testing.T) {
	t.Parallel()

	raw := "POST /a HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"3\r\nabc\r\n0\r\n\r\n" +
		"GET /b HTTP/1.1\r\n\r\n"

	rd := wire.NewReader(stream.NewBuffer([]byte(raw)), wire.WithMaxBodyBytes(math.MaxInt64))

	first, err := rd.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "abc", string(first.Body))

	second, err := rd.ReadRequest()
	require.NoError(t, err)
	assert.Equal(t, "/b", second.Path)
}

func TestParse_AbsoluteTarget(t *testing.T) {
	t.Parallel()

	req, err := parse(t, "GET http://example.com:8080/x?y=1 HTTP/1.1\r\n\r\n")
	require.NoError(t, err)
	assert.Equal(t, "/x", req.Path)
	assert.Equal(t, "y=1", req.RawQuery)
	assert.Equal(t, "example.com", req.Host())
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		opts []wire.Option
		want error
	}{
		{"missing version", "GET /\r\n\r\n", nil, wire.ErrMalformedRequestLine},
		{"extra spaces", "GET  / HTTP/1.1\r\n\r\n", nil, wire.ErrMalformedRequestLine},
		{"bad target", "GET path HTTP/1.1\r\n\r\n", nil, wire.ErrMalformedRequestLine},
		{"unsupported method", "BREW /pot HTTP/1.1\r\n\r\n", nil, wire.ErrUnsupportedMethod},
		{"http2 version", "GET / HTTP/2.0\r\n\r\n", nil, wire.ErrUnsupportedVersion},
		{"header without colon", "GET / HTTP/1.1\r\nBroken\r\n\r\n", nil, wire.ErrMalformedHeader},
		{"invalid header name", "GET / HTTP/1.1\r\nBad( : v\r\n\r\n", nil, wire.ErrMalformedHeader},
		{"folded header", "GET / HTTP/1.1\r\nA: b\r\n c\r\n\r\n", nil, wire.ErrMalformedHeader},
		{"unterminated headers", "GET / HTTP/1.1\r\nHost: x\r\n", nil, wire.ErrUnterminatedHeaders},
		{"partial request line", "GET / HT", nil, wire.ErrUnterminatedHeaders},
		{"header too large", "GET / HTTP/1.1\r\nX: " + strings.Repeat("a", 100) + "\r\n\r\n", []wire.Option{wire.WithMaxHeaderBytes(64)}, wire.ErrHeaderTooLarge},
		{"negative length", "POST / HTTP/1.1\r\nContent-Length: -1\r\n\r\n", nil, wire.ErrInvalidContentLength},
		{"mismatched lengths", "POST / HTTP/1.1\r\nContent-Length: 5, 6\r\n\r\n", nil, wire.ErrInvalidContentLength},
		{"conflicting framing", "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\nContent-Length: 5\r\n\r\n", nil, wire.ErrConflictingFraming},
		{"unknown encoding", "POST / HTTP/1.1\r\nTransfer-Encoding: gzip, chunked\r\n\r\n", nil, wire.ErrUnsupportedEncoding},
		{"bad chunk size", "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\nzz\r\n", nil, wire.ErrMalformedChunk},
		{"missing chunk crlf", "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n3\r\nheyXX0\r\n\r\n", nil, wire.ErrMalformedChunk},
		{"incomplete chunked body", "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhe", nil, wire.ErrMalformedChunk},
		{"body too large", "POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\n0123456789", []wire.Option{wire.WithMaxBodyBytes(4)}, wire.ErrBodyTooLarge},
		{"chunked body too large", "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n0\r\n\r\n", []wire.Option{wire.WithMaxBodyBytes(4)}, wire.ErrBodyTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parse(t, tt.raw, tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var pe *wire.ParseError
			assert.True(t, errors.As(err, &pe), "expected *wire.ParseError, got %T", err)
		})
	}
}

func TestParse_IOErrors(t *testing.T) {
	t.Parallel()

	t.Run("eof inside content-length body", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, "POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nabc")
		require.Error(t, err)
		assert.True(t, stream.IsIOError(err))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("channel failure", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection reset by peer")
		s := stream.NewBuffer([]byte("GET / HTTP/1.1\r\n"), stream.WithReadError(cause))

		_, err := wire.Parse(s)
		require.Error(t, err)
		assert.True(t, stream.IsIOError(err))
		assert.ErrorIs(t, err, cause)
		assert.False(t, wire.IsParseError(err))
	})

	t.Run("empty stream is a clean close", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, "")
		assert.Equal(t, io.EOF, err)

		_, err = parse(t, "\r\n\r\n")
		assert.Equal(t, io.EOF, err)
	})
}

func TestParse_DefersBodyParseErrors(t *testing.T) {
	t.Parallel()

	raw := "POST /json HTTP/1.1\r\nContent-Type: application/json\r\nContent-Length: 5\r\n\r\n{bad}"
	req, err := parse(t, raw)
	require.NoError(t, err)

	_, err = req.Data()
	var bpe *message.BodyParseError
	assert.ErrorAs(t, err, &bpe)
}
