package wire_test

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/stream"
	"github.com/dmitrymomot/wirekit/core/wire"
)

func TestWriteResponse_StreamingBody(t *testing.T) {
	t.Parallel()

	resp := message.NewResponse(420)
	resp.Header = message.NewHeader(map[string][]string{
		"Test":         {"123", "456"},
		"Content-Type": {"text/plain"},
	})
	resp.SetCookie("key", "val")
	resp.Body = message.StreamFunc(func(w io.Writer) error {
		_, err := io.WriteString(w, "Hello, world")
		return err
	})

	out := stream.NewBuffer(nil)
	require.NoError(t, wire.WriteResponse(resp, out, true))

	want := "HTTP/1.1 420 Enhance Your Calm\r\n" +
		"Connection: keep-alive\r\n" +
		"Content-Type: text/plain\r\n" +
		"Set-Cookie: key=val\r\n" +
		"Test: 123\r\n" +
		"Test: 456\r\n" +
		"Transfer-Encoding: chunked\r\n" +
		"\r\n" +
		"c\r\nHello, world\r\n" +
		"0\r\n\r\n"
	assert.Equal(t, want, string(out.Output()))
}

func TestWriteResponse_KnownLength(t *testing.T) {
	t.Parallel()

	resp := message.NewResponse(200)
	resp.Header.Add("Content-Type", "text/plain")
	resp.Header.Add("Content-Length", "999")        // replaced
	resp.Header.Add("Transfer-Encoding", "chunked") // dropped
	resp.Body = message.Bytes("Hello, world")

	out := stream.NewBuffer(nil)
	require.NoError(t, wire.WriteResponse(resp, out, false))

	want := "HTTP/1.1 200 OK\r\n" +
		"Connection: close\r\n" +
		"Content-Length: 12\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Hello, world"
	assert.Equal(t, want, string(out.Output()))
	assert.NotContains(t, string(out.Output()), "chunked")
}

func TestWriteResponse_Framing(t *testing.T) {
	t.Parallel()

	t.Run("nil body gets zero length", func(t *testing.T) {
		t.Parallel()

		out := stream.NewBuffer(nil)
		require.NoError(t, wire.WriteResponse(message.NewResponse(404), out, true))
		assert.Equal(t,
			"HTTP/1.1 404 Not Found\r\nConnection: keep-alive\r\nContent-Length: 0\r\n\r\n",
			string(out.Output()))
	})

	t.Run("no content has no framing and no body", func(t *testing.T) {
		t.Parallel()

		resp := message.NewResponse(204)
		resp.Body = message.Bytes("ignored")

		out := stream.NewBuffer(nil)
		require.NoError(t, wire.WriteResponse(resp, out, true))
		assert.Equal(t, "HTTP/1.1 204 No Content\r\nConnection: keep-alive\r\n\r\n", string(out.Output()))
	})

	t.Run("each write becomes a chunk", func(t *testing.T) {
		t.Parallel()

		resp := message.NewResponse(200)
		resp.Body = message.StreamFunc(func(w io.Writer) error {
			for i := range 3 {
				if _, err := fmt.Fprintf(w, "part-%d;", i); err != nil {
					return err
				}
			}
			_, err := w.Write(nil) // empty writes are not framed
			return err
		})

		out := stream.NewBuffer(nil)
		require.NoError(t, wire.WriteResponse(resp, out, true))
		assert.Contains(t, string(out.Output()),
			"\r\n\r\n7\r\npart-0;\r\n7\r\npart-1;\r\n7\r\npart-2;\r\n0\r\n\r\n")
	})

	t.Run("custom and overridden reasons", func(t *testing.T) {
		t.Parallel()

		message.RegisterStatus(299, "Mostly Fine")

		out := stream.NewBuffer(nil)
		require.NoError(t, wire.WriteResponse(message.NewResponse(299), out, false))
		assert.Contains(t, string(out.Output()), "HTTP/1.1 299 Mostly Fine\r\n")

		resp := message.NewResponse(200)
		resp.Reason = "Fine\r\nInjected: yes"
		out = stream.NewBuffer(nil)
		require.NoError(t, wire.WriteResponse(resp, out, false))
		assert.Contains(t, string(out.Output()), "HTTP/1.1 200 FineInjected: yes\r\n")
	})

	t.Run("cookies sorted by name", func(t *testing.T) {
		t.Parallel()

		resp := message.NewResponse(200)
		resp.SetCookie("z", "26").SetCookie("a", "1")

		out := stream.NewBuffer(nil)
		require.NoError(t, wire.WriteResponse(resp, out, true))
		assert.Contains(t, string(out.Output()), "Set-Cookie: a=1\r\nSet-Cookie: z=26\r\n")
	})
}

func TestWriteResponse_StreamsEachChunk(t *testing.T) {
	t.Parallel()

	out := stream.NewBuffer(nil)
	var during []string

	resp := message.NewResponse(200)
	resp.Body = message.StreamFunc(func(w io.Writer) error {
		for _, tick := range []string{"tick-1\n", "tick-2\n"} {
			if _, err := io.WriteString(w, tick); err != nil {
				return err
			}
			during = append(during, string(out.Output()))
		}
		return nil
	})
	require.NoError(t, wire.WriteResponse(resp, out, true))

	require.Len(t, during, 2)
	assert.True(t, strings.HasSuffix(during[0], "\r\n\r\n7\r\ntick-1\n\r\n"))
	assert.True(t, strings.HasSuffix(during[1], "7\r\ntick-2\n\r\n"))
	assert.Equal(t, during[1]+"0\r\n\r\n", string(out.Output()))
}

func TestWriteResponse_WithoutBody(t *testing.T) {
	t.Parallel()

	t.Run("known length keeps content length", func(t *testing.T) {
		t.Parallel()

		resp := message.NewResponse(404)
		resp.Body = message.Bytes("404 Not Found")
		out := stream.NewBuffer(nil)
		require.NoError(t, wire.WriteResponse(resp, out, true, wire.WithoutBody()))

		want := "HTTP/1.1 404 Not Found\r\n" +
			"Connection: keep-alive\r\n" +
			"Content-Length: 13\r\n" +
			"\r\n"
		assert.Equal(t, want, string(out.Output()))
	})

	t.Run("stream is not produced", func(t *testing.T) {
		t.Parallel()

		called := false
		resp := message.NewResponse(200)
		resp.Body = message.StreamFunc(func(io.Writer) error {
			called = true
			return nil
		})
		out := stream.NewBuffer(nil)
		require.NoError(t, wire.WriteResponse(resp, out, true, wire.WithoutBody()))

		assert.False(t, called)
		assert.True(t, strings.HasSuffix(string(out.Output()), "Transfer-Encoding: chunked\r\n\r\n"))
	})
}

func TestWriteResponse_Errors(t *testing.T) {
	t.Parallel()

	t.Run("write failure is an io error", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("broken pipe")
		out := stream.NewBuffer(nil, stream.WithWriteError(cause))

		err := wire.WriteResponse(message.NewResponse(200), out, true)
		require.Error(t, err)
		assert.True(t, stream.IsIOError(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("producer failure leaves the body unterminated", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		resp := message.NewResponse(200)
		resp.Body = message.StreamFunc(func(w io.Writer) error {
			_, _ = io.WriteString(w, "partial")
			return boom
		})

		out := stream.NewBuffer(nil)
		err := wire.WriteResponse(resp, out, true)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, string(out.Output()), "7\r\npartial\r\n")
		assert.NotContains(t, string(out.Output()), "0\r\n\r\n")
	})

	t.Run("producer panic becomes an error", func(t *testing.T) {
		t.Parallel()

		resp := message.NewResponse(200)
		resp.Body = message.StreamFunc(func(w io.Writer) error {
			_, _ = io.WriteString(w, "partial")
			panic("template blew up")
		})

		out := stream.NewBuffer(nil)
		err := wire.WriteResponse(resp, out, true)
		require.Error(t, err)
		assert.True(t, wire.IsProducerPanic(err))

		var pe *wire.ProducerPanicError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "template blew up", pe.Value)
		assert.NotEmpty(t, pe.Stack)
		assert.Contains(t, string(out.Output()), "7\r\npartial\r\n")
		assert.NotContains(t, string(out.Output()), "0\r\n\r\n")
	})
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	req := message.NewRequest(message.MethodPut, "/items/7?force=1")
	req.Header.Add("Host", "api.local")
	req.Header.Add("Content-Type", "application/json")
	req.Cookies["session"] = "abc"
	req.Cookies["theme"] = "dark"
	req.Body = []byte(`{"name":"seven"}`)

	buf := stream.NewBuffer(nil)
	require.NoError(t, wire.WriteRequest(req, buf))

	parsed, err := wire.Parse(stream.NewBuffer(buf.Output()))
	require.NoError(t, err)

	assert.Equal(t, message.MethodPut, parsed.Method)
	assert.Equal(t, "/items/7", parsed.Path)
	assert.Equal(t, "force=1", parsed.RawQuery)
	assert.Equal(t, "api.local", parsed.Host())
	assert.Equal(t, map[string]string{"session": "abc", "theme": "dark"}, parsed.Cookies)

	name, err := parsed.Field("name")
	require.NoError(t, err)
	assert.Equal(t, "seven", name)
}
