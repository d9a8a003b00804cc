package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Framing is the wire format of one message.
type Framing int

const (
	// FramingContentLength is LSP-style "Content-Length" headers plus a JSON body.
	FramingContentLength Framing = iota
	// FramingNDJSON is one JSON document per line.
	FramingNDJSON
)

// maxMessageBytes bounds a single Content-Length body.
const maxMessageBytes = 16 << 20

var errBadHeader = errors.New("invalid header line")

// Codec reads and writes framed JSON-RPC messages. The framing of the last
// message read is mirrored on writes.
type Codec struct {
	r       *bufio.Reader
	w       io.Writer
	mutex   sync.Mutex
	framing Framing
}

// NewCodec creates a codec over r and w
func NewCodec(r io.Reader, w io.Writer) *Codec {
	return &Codec{
		r:       bufio.NewReader(r),
		w:       w,
		framing: FramingContentLength,
	}
}

// Framing returns the framing detected on the last read.
func (c *Codec) Framing() Framing {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.framing
}

// Read returns the next raw message. A line starting with "{" is NDJSON;
// anything else starts a header block. Blank lines between messages are
// skipped. io.EOF is returned when the input ends.
func (c *Codec) Read() ([]byte, error) {
	var first string
	for {
		line, err := c.r.ReadString('\n')
		if line == "" && err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) != "" {
			first = line
			break
		}
		if err != nil {
			return nil, err
		}
	}

	trimmed := strings.TrimSpace(first)
	if strings.HasPrefix(trimmed, "{") {
		c.setFraming(FramingNDJSON)
		return []byte(trimmed), nil
	}

	length := -1
	line := first
	for {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", errBadHeader, strings.TrimSpace(line))
		}
		if strings.EqualFold(strings.TrimSpace(key), "content-length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 0 || n > maxMessageBytes {
				return nil, fmt.Errorf("%w: bad content length %q", errBadHeader, strings.TrimSpace(value))
			}
			length = n
		}

		next, err := c.r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if strings.TrimSpace(next) == "" {
			break
		}
		line = next
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: missing Content-Length", errBadHeader)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(c.r, body); err != nil {
		return nil, err
	}
	c.setFraming(FramingContentLength)
	return body, nil
}

func (c *Codec) setFraming(f Framing) {
	c.mutex.Lock()
	c.framing = f
	c.mutex.Unlock()
}

// Write encodes msg using the current framing.
func (c *Codec) Write(msg interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(msg); err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	data := bytes.TrimRight(buf.Bytes(), "\n")

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.framing == FramingNDJSON {
		_, err := c.w.Write(append(data, '\n'))
		return err
	}
	if _, err := fmt.Fprintf(c.w, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	_, err := c.w.Write(data)
	return err
}
