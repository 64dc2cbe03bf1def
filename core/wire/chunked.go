package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// chunkedReader decodes a Transfer-Encoding: chunked body.
type chunkedReader struct {
	br       *bufio.Reader
	maxLine  int
	remain   int64 // bytes left in the current chunk; -1 before the first size line
	finished bool
}

func newChunkedReader(br *bufio.Reader, maxLine int) *chunkedReader {
	return &chunkedReader{br: br, maxLine: maxLine, remain: -1}
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.finished {
		return 0, io.EOF
	}
	if c.remain <= 0 {
		size, err := c.readChunkSize()
		if err != nil {
			return 0, err
		}
		if size == 0 {
			if err := c.readTrailers(); err != nil {
				return 0, err
			}
			c.finished = true
			return 0, io.EOF
		}
		c.remain = size
	}
	if len(p) == 0 {
		return 0, nil
	}

	toRead := int64(len(p))
	if toRead > c.remain {
		toRead = c.remain
	}
	n, err := io.ReadFull(c.br, p[:toRead])
	c.remain -= int64(n)
	if err != nil {
		return n, chunkReadErr(err)
	}
	if c.remain == 0 {
		if err := c.expectCRLF(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *chunkedReader) readChunkSize() (int64, error) {
	budget := c.maxLine
	line, _, err := readLine(c.br, &budget)
	if err != nil {
		return 0, chunkReadErr(err)
	}
	// chunk extensions: "<hex>;name=value"
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" || len(line) > 16 {
		return 0, parseError(ErrMalformedChunk, line)
	}
	n, err := strconv.ParseInt(line, 16, 64)
	if err != nil || n < 0 {
		return 0, parseError(ErrMalformedChunk, line)
	}
	return n, nil
}

func (c *chunkedReader) expectCRLF() error {
	var crlf [2]byte
	if _, err := io.ReadFull(c.br, crlf[:]); err != nil {
		return chunkReadErr(err)
	}
	if crlf[0] != '\r' || crlf[1] != '\n' {
		return parseError(ErrMalformedChunk, fmt.Sprintf("expected CRLF after chunk data, got %q", crlf[:]))
	}
	return nil
}

// readTrailers discards trailer fields up to the final empty line.
func (c *chunkedReader) readTrailers() error {
	budget := c.maxLine
	for {
		line, _, err := readLine(c.br, &budget)
		if err != nil {
			return chunkReadErr(err)
		}
		if line == "" {
			return nil
		}
	}
}

// chunkReadErr maps a premature end of input to an incomplete-body ParseError.
func chunkReadErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return parseError(ErrMalformedChunk, "unexpected end of chunked body")
	}
	return err
}

// chunkedWriter frames each Write as one chunk and flushes it to the
// stream. Close writes the terminating chunk.
type chunkedWriter struct {
	bw *bufio.Writer
}

func (cw *chunkedWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	cw.bw.WriteString(strconv.FormatInt(int64(len(p)), 16))
	cw.bw.WriteString("\r\n")
	cw.bw.Write(p)
	cw.bw.WriteString("\r\n")
	if err := cw.bw.Flush(); err != nil {
		return 0, writeErr(err)
	}
	return len(p), nil
}

// Close writes the zero-length chunk and the empty trailer section.
func (cw *chunkedWriter) Close() error {
	cw.bw.WriteString("0\r\n\r\n")
	return writeErr(cw.bw.Flush())
}
