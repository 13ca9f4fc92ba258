package sse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// maxFrameSize bounds the decode buffer so a misbehaving server cannot grow
// it without limit.
const maxFrameSize = 1 << 20

const readChunkSize = 4096

// ErrFrameTooLarge is returned when a single event exceeds maxFrameSize.
var ErrFrameTooLarge = errors.New("sse: frame exceeds size limit")

var (
	frameDelimiter = []byte("\n\n")
	dataPrefix     = []byte("data:")
)

// Reader incrementally decodes data payloads from an SSE-style stream.
type Reader struct {
	src     io.Reader
	buf     []byte
	pendCR  bool
	eof     bool
	readErr error
}

// NewReader wraps src, which is consumed as the caller iterates with Next.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// Next returns the payload of the next data-bearing frame. It returns io.EOF
// once the stream is exhausted; a partial frame with no terminating blank
// line is discarded. Frames without a data field (keepalive comments, other
// field names) are skipped transparently.
func (r *Reader) Next() ([]byte, error) {
	for {
		if idx := bytes.Index(r.buf, frameDelimiter); idx >= 0 {
			frame := r.buf[:idx]
			r.buf = r.buf[idx+len(frameDelimiter):]
			payload, ok := extractData(frame)
			if !ok {
				continue
			}
			return payload, nil
		}

		if r.eof {
			if r.readErr != nil && r.readErr != io.EOF {
				return nil, r.readErr
			}
			return nil, io.EOF
		}

		if len(r.buf) > maxFrameSize {
			return nil, fmt.Errorf("%w (%d bytes buffered)", ErrFrameTooLarge, len(r.buf))
		}

		if err := r.fill(); err != nil {
			r.eof = true
			r.readErr = err
		}
	}
}

func (r *Reader) fill() error {
	chunk := make([]byte, readChunkSize)
	n, err := r.src.Read(chunk)
	if n > 0 {
		r.append(chunk[:n])
	}
	return err
}

// append normalizes CRLF to LF while honoring a CR held back from the
// previous chunk boundary.
func (r *Reader) append(chunk []byte) {
	if r.pendCR {
		r.pendCR = false
		if len(chunk) == 0 || chunk[0] != '\n' {
			r.buf = append(r.buf, '\r')
		}
	}
	for len(chunk) > 0 {
		i := bytes.IndexByte(chunk, '\r')
		if i < 0 {
			r.buf = append(r.buf, chunk...)
			return
		}
		r.buf = append(r.buf, chunk[:i]...)
		rest := chunk[i+1:]
		if len(rest) == 0 {
			r.pendCR = true
			return
		}
		if rest[0] != '\n' {
			r.buf = append(r.buf, '\r')
		}
		chunk = rest
	}
}

// extractData gathers the frame's data field lines. Multiple data lines are
// joined with newlines per SSE semantics.
func extractData(frame []byte) ([]byte, bool) {
	var payload []byte
	found := false
	for _, line := range bytes.Split(frame, []byte("\n")) {
		if !bytes.HasPrefix(line, dataPrefix) {
			continue
		}
		value := line[len(dataPrefix):]
		if len(value) > 0 && value[0] == ' ' {
			value = value[1:]
		}
		if found {
			payload = append(payload, '\n')
		}
		payload = append(payload, value...)
		found = true
	}
	if !found {
		return nil, false
	}
	return payload, true
}
