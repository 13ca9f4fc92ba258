package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)
	return slog.New(newConsoleHandler(&buf, levelVar)), &buf
}

func TestConsoleHandlerRendersComponentPrefix(t *testing.T) {
	logger, buf := newBufferLogger(t)
	NewComponentLogger(logger, "client").Info("request complete", Int("status", 200))

	line := buf.String()
	if !strings.Contains(line, "INFO client: request complete") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "status=200") {
		t.Fatalf("missing attribute: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	logger, buf := newBufferLogger(t)
	logger.Warn("dispatch rejected", String("reason", "queue paused"))

	if !strings.Contains(buf.String(), `reason="queue paused"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestWithContextAddsFields(t *testing.T) {
	logger, buf := newBufferLogger(t)
	ctx := WithHostname(context.Background(), "blaster-12")
	ctx = WithBatchID(ctx, "batch-7")

	WithContext(ctx, logger).Info("queued")

	line := buf.String()
	if !strings.Contains(line, "hostname=blaster-12") {
		t.Fatalf("missing hostname field: %q", line)
	}
	if !strings.Contains(line, "batch_id=batch-7") {
		t.Fatalf("missing batch field: %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
