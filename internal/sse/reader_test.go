package sse

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// chunkedReader yields its parts one Read at a time to exercise delimiter
// splits across chunk boundaries.
type chunkedReader struct {
	parts []string
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.parts) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.parts[0])
	if n < len(c.parts[0]) {
		c.parts[0] = c.parts[0][n:]
	} else {
		c.parts = c.parts[1:]
	}
	return n, nil
}

func collect(t *testing.T, r *Reader) []string {
	t.Helper()
	var out []string
	for {
		payload, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		out = append(out, string(payload))
	}
}

func TestReaderSplitsFrames(t *testing.T) {
	r := NewReader(strings.NewReader("data: one\n\ndata: two\n\n"))
	got := collect(t, r)
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("unexpected payloads: %#v", got)
	}
}

func TestReaderDelimiterSplitAcrossChunks(t *testing.T) {
	r := NewReader(&chunkedReader{parts: []string{
		"data: {\"type\":\"log\"",
		",\"message\":\"hi\"}\n",
		"\ndata: second",
		"\n\n",
	}})
	got := collect(t, r)
	if len(got) != 2 {
		t.Fatalf("expected 2 payloads, got %#v", got)
	}
	if got[0] != `{"type":"log","message":"hi"}` {
		t.Fatalf("unexpected first payload: %q", got[0])
	}
}

func TestReaderNormalizesCRLF(t *testing.T) {
	r := NewReader(&chunkedReader{parts: []string{
		"data: alpha\r",
		"\n\r\ndata: beta\r\n\r\n",
	}})
	got := collect(t, r)
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Fatalf("unexpected payloads: %#v", got)
	}
}

func TestReaderSkipsNonDataFrames(t *testing.T) {
	r := NewReader(strings.NewReader(": keepalive\n\nevent: ping\n\ndata: real\n\n"))
	got := collect(t, r)
	if len(got) != 1 || got[0] != "real" {
		t.Fatalf("unexpected payloads: %#v", got)
	}
}

func TestReaderJoinsMultiLineData(t *testing.T) {
	r := NewReader(strings.NewReader("data: first\ndata: second\n\n"))
	got := collect(t, r)
	if len(got) != 1 || got[0] != "first\nsecond" {
		t.Fatalf("unexpected payloads: %#v", got)
	}
}

func TestReaderDiscardsTrailingPartialFrame(t *testing.T) {
	r := NewReader(strings.NewReader("data: complete\n\ndata: partial"))
	got := collect(t, r)
	if len(got) != 1 || got[0] != "complete" {
		t.Fatalf("unexpected payloads: %#v", got)
	}
}

func TestReaderFrameTooLarge(t *testing.T) {
	r := NewReader(&endlessReader{})
	_, err := r.Next()
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}

type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'a'
	}
	return len(p), nil
}
