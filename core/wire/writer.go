package wire

import (
	"bufio"
	"io"
	"maps"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/stream"
)

type headerLine struct {
	name  string
	value string
}

// WriteResponse serializes resp onto s.
//
// The header block contains the response headers, a Connection header derived
// from keepAlive, one Set-Cookie line per cookie and the framing header, sorted
// by name. Bodies with a known length get Content-Length; all others are sent
// with chunked transfer encoding and the producer writes through a chunk-framing
// writer that flushes every chunk to s.
//
// A panic in the body producer is returned as a *ProducerPanicError after the
// bytes written so far are flushed; a chunked stream is left unterminated.
func WriteResponse(resp *message.Response, s stream.ByteStream, keepAlive bool, opts ...WriteOption) error {
	var wo writeOptions
	for _, opt := range opts {
		opt(&wo)
	}
	bw := bufio.NewWriter(stream.NewWriter(s))

	status := resp.Status
	if status == 0 {
		status = 200
	}
	reason := resp.Reason
	if reason == "" {
		reason = message.StatusText(status)
	}

	lines := userHeaderLines(resp.Header)
	if keepAlive {
		lines = append(lines, headerLine{"Connection", "keep-alive"})
	} else {
		lines = append(lines, headerLine{"Connection", "close"})
	}
	for _, name := range resp.CookieNames() {
		lines = append(lines, headerLine{"Set-Cookie", name + "=" + resp.Cookies[name]})
	}

	body := resp.Body
	if !message.BodyAllowed(status) {
		body = nil
	}
	length, sized := 0, true
	if body != nil {
		length, sized = contentLength(body)
	}
	switch {
	case !message.BodyAllowed(status):
	case sized:
		lines = append(lines, headerLine{"Content-Length", strconv.Itoa(length)})
	default:
		lines = append(lines, headerLine{"Transfer-Encoding", "chunked"})
	}

	sortLines(lines)

	bw.WriteString("HTTP/1.1 " + strconv.Itoa(status) + " " + sanitize(reason) + "\r\n")
	writeLines(bw, lines)
	if err := bw.Flush(); err != nil {
		return writeErr(err)
	}

	if body == nil || wo.omitBody {
		return nil
	}

	if sized {
		if err := produce(body, bw); err != nil {
			_ = bw.Flush()
			if IsProducerPanic(err) {
				return err
			}
			return writeErr(err)
		}
		return writeErr(bw.Flush())
	}

	cw := &chunkedWriter{bw: bw}
	if err := produce(body, cw); err != nil {
		// leave the chunked stream unterminated so the peer sees a truncated body
		_ = bw.Flush()
		return err
	}
	return cw.Close()
}

// produce runs the body producer and turns a panic into an error.
func produce(body message.Body, w io.Writer) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &ProducerPanicError{Value: rec, Stack: debug.Stack()}
		}
	}()
	return body.WriteBody(w)
}

// WriteRequest serializes req onto s using Content-Length framing.
// Cookies are folded into a single Cookie header unless one is already present.
func WriteRequest(req *message.Request, s stream.ByteStream) error {
	bw := bufio.NewWriter(stream.NewWriter(s))

	target := req.Target
	if target == "" {
		target = req.Path
		if req.RawQuery != "" {
			target += "?" + req.RawQuery
		}
	}
	version := req.Version
	if version.Major == 0 {
		version = message.HTTP11
	}

	lines := userHeaderLines(req.Header)
	if !req.Header.Has("Cookie") && len(req.Cookies) > 0 {
		names := slices.Sorted(maps.Keys(req.Cookies))
		pairs := make([]string, len(names))
		for i, name := range names {
			pairs[i] = name + "=" + req.Cookies[name]
		}
		lines = append(lines, headerLine{"Cookie", strings.Join(pairs, "; ")})
	}
	if req.Header.Has("Connection") {
		for _, v := range req.Header.Values("Connection") {
			lines = append(lines, headerLine{"Connection", v})
		}
	}
	if len(req.Body) > 0 {
		lines = append(lines, headerLine{"Content-Length", strconv.Itoa(len(req.Body))})
	}
	sortLines(lines)

	bw.WriteString(string(req.Method) + " " + sanitize(target) + " " + version.String() + "\r\n")
	writeLines(bw, lines)
	bw.Write(req.Body)
	return writeErr(bw.Flush())
}

// userHeaderLines flattens h, dropping headers the serializer owns.
func userHeaderLines(h message.Header) []headerLine {
	lines := make([]headerLine, 0, h.Len()+4)
	h.Each(func(name string, values []string) {
		switch strings.ToLower(name) {
		case "connection", "content-length", "transfer-encoding":
			return
		}
		for _, v := range values {
			lines = append(lines, headerLine{name, v})
		}
	})
	return lines
}

func sortLines(lines []headerLine) {
	slices.SortStableFunc(lines, func(a, b headerLine) int {
		return strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name))
	})
}

// writeLines writes header lines and the terminating blank line. Errors are
// sticky in bufio.Writer and surface on Flush.
func writeLines(bw *bufio.Writer, lines []headerLine) {
	for _, l := range lines {
		bw.WriteString(sanitize(l.name))
		bw.WriteString(": ")
		bw.WriteString(sanitize(l.value))
		bw.WriteString("\r\n")
	}
	bw.WriteString("\r\n")
}

func contentLength(b message.Body) (int, bool) {
	if s, ok := b.(message.Sized); ok {
		return s.Len(), true
	}
	return 0, false
}

// sanitize strips CR, LF and other control characters except HTAB.
func sanitize(v string) string {
	clean := true
	for i := 0; i < len(v); i++ {
		if c := v[i]; (c < 0x20 && c != '\t') || c == 0x7f {
			clean = false
			break
		}
	}
	if clean {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if (c < 0x20 && c != '\t') || c == 0x7f {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func writeErr(err error) error {
	if err == nil || stream.IsIOError(err) {
		return err
	}
	if err == io.EOF {
		err = io.ErrClosedPipe
	}
	return &stream.IOError{Op: "write", Err: err}
}
