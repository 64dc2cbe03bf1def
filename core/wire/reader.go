package wire

import (
	"bufio"
	"errors"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrymomot/wirekit/core/message"
	"github.com/dmitrymomot/wirekit/core/stream"
)

// Reader parses consecutive requests from one connection.
// It is not safe for concurrent use.
type Reader struct {
	br             *bufio.Reader
	maxHeaderBytes int
	maxBodyBytes   int64
}

// NewReader creates a Reader on top of s.
func NewReader(s stream.ByteStream, opts ...Option) *Reader {
	r := &Reader{
		maxHeaderBytes: DefaultMaxHeaderBytes,
		maxBodyBytes:   DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.br = bufio.NewReaderSize(stream.NewReader(s), stream.DefaultReceiveSize)
	return r
}

// Parse reads a single request from s.
func Parse(s stream.ByteStream, opts ...Option) (*message.Request, error) {
	return NewReader(s, opts...).ReadRequest()
}

// Buffered returns the number of bytes read from the stream but not yet consumed.
func (r *Reader) Buffered() int {
	return r.br.Buffered()
}

// ReadRequest reads the next request.
// It returns io.EOF if the stream ends before the first byte of a request,
// *ParseError for malformed input and *stream.IOError for channel failures.
func (r *Reader) ReadRequest() (*message.Request, error) {
	budget := r.maxHeaderBytes

	line, err := r.readRequestLine(&budget)
	if err != nil {
		return nil, err
	}

	req, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	if err := r.readHeaders(&req.Header, &budget); err != nil {
		return nil, err
	}

	if req.Header.Get("Host") == "" {
		if u, err := url.Parse(req.Target); err == nil && u.Host != "" {
			req.Header.Set("Host", u.Host)
		}
	}
	req.Cookies = parseCookies(req.Header.Values("Cookie"))

	body, err := r.readBody(req.Header)
	if err != nil {
		return nil, err
	}
	req.Body = body

	return req, nil
}

// readRequestLine skips empty lines preceding the request line.
func (r *Reader) readRequestLine(budget *int) (string, error) {
	for {
		line, n, err := readLine(r.br, budget)
		if err != nil {
			if errors.Is(err, io.EOF) && n == 0 {
				return "", io.EOF
			}
			return "", headerReadErr(err)
		}
		if line != "" {
			return line, nil
		}
	}
}

func parseRequestLine(line string) (*message.Request, error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nil, parseError(ErrMalformedRequestLine, line)
	}

	method, ok := message.ParseMethod(parts[0])
	if !ok {
		if !isToken(parts[0]) {
			return nil, parseError(ErrMalformedRequestLine, line)
		}
		return nil, parseError(ErrUnsupportedMethod, parts[0])
	}

	version, ok := message.ParseVersion(parts[2])
	if !ok {
		return nil, parseError(ErrMalformedRequestLine, line)
	}
	if version.Major != 1 {
		return nil, parseError(ErrUnsupportedVersion, parts[2])
	}

	target := parts[1]
	req := &message.Request{Method: method, Version: version}
	switch {
	case target[0] == '/':
		req.SetTarget(target)
	case target == "*" && method == message.MethodOptions:
		req.Target, req.Path = target, target
	case strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://"):
		u, err := url.Parse(target)
		if err != nil || u.Host == "" {
			return nil, parseError(ErrMalformedRequestLine, line)
		}
		req.SetTarget(u.RequestURI())
		req.Target = target
	case method == message.MethodConnect:
		req.Target = target
	default:
		return nil, parseError(ErrMalformedRequestLine, line)
	}

	return req, nil
}

func (r *Reader) readHeaders(h *message.Header, budget *int) error {
	for {
		line, _, err := readLine(r.br, budget)
		if err != nil {
			return headerReadErr(err)
		}
		if line == "" {
			return nil
		}
		if line[0] == ' ' || line[0] == '\t' {
			// obsolete line folding
			return parseError(ErrMalformedHeader, line)
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || name == "" || !isToken(name) {
			return parseError(ErrMalformedHeader, line)
		}
		h.Add(name, strings.TrimSpace(value))
	}
}

func (r *Reader) readBody(h message.Header) ([]byte, error) {
	if te := h.Values("Transfer-Encoding"); len(te) > 0 {
		if h.Has("Content-Length") {
			return nil, parseError(ErrConflictingFraming, "")
		}
		if !onlyChunked(te) {
			return nil, parseError(ErrUnsupportedEncoding, strings.Join(te, ", "))
		}
		cr := newChunkedReader(r.br, r.maxHeaderBytes)
		// one byte past the limit detects an oversized body
		limit := r.maxBodyBytes
		if limit < math.MaxInt64 {
			limit++
		}
		body, err := io.ReadAll(io.LimitReader(cr, limit))
		if err != nil {
			return nil, err
		}
		if int64(len(body)) > r.maxBodyBytes {
			return nil, parseError(ErrBodyTooLarge, "")
		}
		return body, nil
	}

	if cl := h.Values("Content-Length"); len(cl) > 0 {
		n, err := parseContentLength(cl)
		if err != nil {
			return nil, err
		}
		if n > r.maxBodyBytes {
			return nil, parseError(ErrBodyTooLarge, strconv.FormatInt(n, 10))
		}
		if n == 0 {
			return nil, nil
		}
		body := make([]byte, n)
		if _, err := io.ReadFull(r.br, body); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, &stream.IOError{Op: "read", Err: io.ErrUnexpectedEOF}
			}
			return nil, err
		}
		return body, nil
	}

	return nil, nil
}

// parseContentLength accepts repeated or comma-joined values only when they agree.
func parseContentLength(values []string) (int64, error) {
	n := int64(-1)
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			m, err := strconv.ParseInt(part, 10, 64)
			if err != nil || m < 0 || part[0] == '+' {
				return 0, parseError(ErrInvalidContentLength, v)
			}
			if n >= 0 && m != n {
				return 0, parseError(ErrInvalidContentLength, strings.Join(values, ", "))
			}
			n = m
		}
	}
	return n, nil
}

func onlyChunked(values []string) bool {
	seen := false
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if !strings.EqualFold(strings.TrimSpace(part), "chunked") {
				return false
			}
			seen = true
		}
	}
	return seen
}

// parseCookies splits every Cookie header on ';' and each pair on the first '='.
func parseCookies(values []string) map[string]string {
	cookies := make(map[string]string)
	for _, v := range values {
		for _, pair := range strings.Split(v, ";") {
			name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
			name = strings.TrimSpace(name)
			if !ok || name == "" {
				continue
			}
			value = strings.TrimSpace(value)
			if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
				value = value[1 : len(value)-1]
			}
			cookies[name] = value
		}
	}
	return cookies
}

// readLine reads one CRLF or LF terminated line, charging its size to budget.
// It returns the number of bytes consumed, even on error.
func readLine(br *bufio.Reader, budget *int) (string, int, error) {
	var line []byte
	n := 0
	for {
		chunk, err := br.ReadSlice('\n')
		n += len(chunk)
		if n > *budget {
			return "", n, parseError(ErrHeaderTooLarge, "")
		}
		line = append(line, chunk...)
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return "", n, err
	}
	*budget -= n

	line = line[:len(line)-1]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return string(line), n, nil
}

// headerReadErr maps a premature end of input inside the header block.
func headerReadErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return parseError(ErrUnterminatedHeaders, "")
	}
	return err
}

// isToken reports whether s is an RFC 9110 token.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return false
		}
	}
	return true
}

func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0
}
