package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func frames(events ...string) string {
	var b strings.Builder
	for _, ev := range events {
		b.WriteString("data: ")
		b.WriteString(ev)
		b.WriteString("\n\n")
	}
	return b.String()
}

func staticStream(payload string) StreamFunc {
	return func(context.Context) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(payload)), nil
	}
}

func waitDone(t *testing.T, c *Consumer) Snapshot {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not finish in time")
	}
	return c.Snapshot()
}

func completeEvent(hostname string, success bool) string {
	return fmt.Sprintf(`{"type":"device_complete","hostname":%q,"success":%t}`, hostname, success)
}

func TestSuccessWhenAllTargetsComplete(t *testing.T) {
	payload := frames(
		`{"type":"start","message":"Compiling firmware"}`,
		`{"type":"log","hostname":"blaster-01","message":"building"}`,
		`{"type":"progress","hostname":"blaster-01","progress":50}`,
		`{"type":"progress","hostname":"blaster-01","progress":100}`,
		completeEvent("blaster-01", true),
		completeEvent("blaster-02", true),
	)
	c := NewConsumer()
	if err := c.Start(context.Background(), []string{"blaster-01", "blaster-02"}, staticStream(payload)); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap := waitDone(t, c)
	if snap.Status != StatusSuccess {
		t.Fatalf("status = %s, want success (err=%q)", snap.Status, snap.Err)
	}
	if snap.Progress["blaster-01"] != 100 {
		t.Fatalf("progress = %d, want last-write 100", snap.Progress["blaster-01"])
	}
	if len(snap.Results) != 2 {
		t.Fatalf("results = %#v, want both targets", snap.Results)
	}
	if len(snap.Logs) == 0 || snap.Logs[0] != "Compiling firmware" {
		t.Fatalf("unexpected logs: %v", snap.Logs)
	}
}

func TestFailedTargetYieldsError(t *testing.T) {
	payload := frames(
		completeEvent("blaster-01", true),
		`{"type":"device_complete","hostname":"blaster-02","success":false,"error":"flash timeout"}`,
	)
	c := NewConsumer()
	if err := c.Start(context.Background(), []string{"blaster-01", "blaster-02"}, staticStream(payload)); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap := waitDone(t, c)
	if snap.Status != StatusError {
		t.Fatalf("status = %s, want error", snap.Status)
	}
	if result := snap.Results["blaster-02"]; result.Success || result.Message != "flash timeout" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if ok := snap.Results["blaster-01"]; !ok.Success {
		t.Fatal("successful target result should remain inspectable")
	}
}

func TestMissingTerminalEventsEndUnexpectedly(t *testing.T) {
	payload := frames(
		`{"type":"progress","hostname":"blaster-01","progress":40}`,
		completeEvent("blaster-01", true),
	)
	c := NewConsumer()
	if err := c.Start(context.Background(), []string{"blaster-01", "blaster-02"}, staticStream(payload)); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap := waitDone(t, c)
	if snap.Status != StatusError || snap.Err != "stream ended unexpectedly" {
		t.Fatalf("status = %s err = %q, want unexpected-end error", snap.Status, snap.Err)
	}
	if _, ok := snap.Results["blaster-02"]; ok {
		t.Fatal("target without terminal event must have no result entry")
	}
}

func TestOperationErrorEvent(t *testing.T) {
	payload := frames(`{"type":"error","error":"compile toolchain missing"}`)
	c := NewConsumer()
	if err := c.Start(context.Background(), []string{"blaster-01"}, staticStream(payload)); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap := waitDone(t, c)
	if snap.Status != StatusError || snap.Err != "compile toolchain missing" {
		t.Fatalf("status = %s err = %q", snap.Status, snap.Err)
	}
}

func TestProgressRecordedWithoutClamping(t *testing.T) {
	payload := frames(
		`{"type":"progress","hostname":"blaster-01","progress":150}`,
		`{"type":"progress","hostname":"blaster-01","progress":"garbage"}`,
		completeEvent("blaster-01", true),
	)
	c := NewConsumer()
	if err := c.Start(context.Background(), []string{"blaster-01"}, staticStream(payload)); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap := waitDone(t, c)
	if snap.Status != StatusSuccess {
		t.Fatalf("status = %s, want success", snap.Status)
	}
	// Malformed coerces to 0 and wins as the last write; the earlier 150
	// must have been stored as-is in between.
	if snap.Progress["blaster-01"] != 0 {
		t.Fatalf("progress = %d, want 0 after malformed last write", snap.Progress["blaster-01"])
	}
}

func TestMalformedEventsAreSkipped(t *testing.T) {
	payload := "data: {not json}\n\n" + frames(
		`{"type":"mystery_event","hostname":"blaster-01"}`,
		completeEvent("blaster-01", true),
	)
	c := NewConsumer()
	if err := c.Start(context.Background(), []string{"blaster-01"}, staticStream(payload)); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap := waitDone(t, c)
	if snap.Status != StatusSuccess {
		t.Fatalf("status = %s, want success despite malformed events", snap.Status)
	}
}

func TestCancelBeforeStreamEnd(t *testing.T) {
	pr, pw := io.Pipe()
	c := NewConsumer()
	open := func(context.Context) (io.ReadCloser, error) { return pr, nil }
	if err := c.Start(context.Background(), []string{"blaster-01"}, open); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := pw.Write([]byte(frames(`{"type":"progress","hostname":"blaster-01","progress":20}`))); err != nil {
		t.Fatalf("write: %v", err)
	}

	c.Cancel()
	if status := c.Snapshot().Status; status != StatusCancelled {
		t.Fatalf("status = %s immediately after cancel, want cancelled", status)
	}
	_ = pw.Close()
	snap := waitDone(t, c)
	if snap.Status != StatusCancelled {
		t.Fatalf("status = %s after stream end, want cancelled", snap.Status)
	}
	c.Cancel() // idempotent
	if status := c.Snapshot().Status; status != StatusCancelled {
		t.Fatalf("second cancel changed status to %s", status)
	}
}

func TestStartDuringRunningDropsOldState(t *testing.T) {
	pr, pw := io.Pipe()
	c := NewConsumer()
	first := func(context.Context) (io.ReadCloser, error) { return pr, nil }
	if err := c.Start(context.Background(), []string{"old-target"}, first); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if _, err := pw.Write([]byte(frames(completeEvent("old-target", true)))); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Let the first run record its result before restarting.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, ok := c.Snapshot().Results["old-target"]; ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first run never recorded its result")
		}
		time.Sleep(5 * time.Millisecond)
	}

	second := staticStream(frames(completeEvent("new-target", true)))
	if err := c.Start(context.Background(), []string{"new-target"}, second); err != nil {
		t.Fatalf("second start: %v", err)
	}
	snap := waitDone(t, c)
	if snap.Status != StatusSuccess {
		t.Fatalf("status = %s, want success", snap.Status)
	}
	if _, ok := snap.Results["old-target"]; ok {
		t.Fatal("state from aborted run leaked into new run")
	}
	if _, ok := snap.Results["new-target"]; !ok {
		t.Fatal("second run result missing")
	}
}

func TestResetReturnsToIdle(t *testing.T) {
	c := NewConsumer()
	if err := c.Start(context.Background(), []string{"blaster-01"}, staticStream(frames(completeEvent("blaster-01", true)))); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitDone(t, c)
	c.Reset()
	snap := c.Snapshot()
	if snap.Status != StatusIdle || len(snap.Logs) != 0 || len(snap.Progress) != 0 || len(snap.Results) != 0 {
		t.Fatalf("reset left residue: %+v", snap)
	}
}

func TestStartRejectsEmptyTargets(t *testing.T) {
	c := NewConsumer()
	err := c.Start(context.Background(), nil, staticStream(""))
	if !errors.Is(err, ErrNoTargets) {
		t.Fatalf("expected ErrNoTargets, got %v", err)
	}
	if status := c.Snapshot().Status; status != StatusIdle {
		t.Fatalf("rejected start mutated status to %s", status)
	}
}

func TestOpenFailureProducesErrorWithLogLine(t *testing.T) {
	open := func(context.Context) (io.ReadCloser, error) {
		return nil, errors.New("backend returned 503")
	}
	c := NewConsumer()
	if err := c.Start(context.Background(), []string{"blaster-01"}, open); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap := waitDone(t, c)
	if snap.Status != StatusError {
		t.Fatalf("status = %s, want error", snap.Status)
	}
	if len(snap.Logs) != 1 || !strings.Contains(snap.Logs[0], "backend returned 503") {
		t.Fatalf("expected synthetic log line, got %v", snap.Logs)
	}
}

func TestSinkReceivesLinesInOrder(t *testing.T) {
	var lines []string
	c := NewConsumer(WithSink(func(line string) { lines = append(lines, line) }))
	payload := frames(
		`{"type":"log","message":"first"}`,
		`{"type":"log","hostname":"blaster-01","message":"second"}`,
		completeEvent("blaster-01", true),
	)
	if err := c.Start(context.Background(), []string{"blaster-01"}, staticStream(payload)); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitDone(t, c)
	if len(lines) < 2 || lines[0] != "first" || lines[1] != "[blaster-01] second" {
		t.Fatalf("unexpected sink lines: %v", lines)
	}
}

func TestLockExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deploy.lock")
	first := NewLock(path)
	if err := first.Acquire(); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	defer first.Release()

	second := NewLock(path)
	if err := second.Acquire(); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := second.Acquire(); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	_ = second.Release()
}

func TestEventsForUnrequestedHostsIgnored(t *testing.T) {
	payload := frames(
		`{"type":"progress","hostname":"intruder","progress":50}`,
		`{"type":"error","hostname":"intruder","error":"boom"}`,
		completeEvent("intruder", true),
		completeEvent("blaster-01", true),
	)
	c := NewConsumer()
	if err := c.Start(context.Background(), []string{"blaster-01"}, staticStream(payload)); err != nil {
		t.Fatalf("start: %v", err)
	}
	snap := waitDone(t, c)
	if snap.Status != StatusSuccess {
		t.Fatalf("status = %s, want success (err=%q)", snap.Status, snap.Err)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("results = %#v, want requested target only", snap.Results)
	}
	if _, ok := snap.Progress["intruder"]; ok {
		t.Fatalf("progress = %#v, must not track unrequested hosts", snap.Progress)
	}
	for _, line := range snap.Logs {
		if strings.Contains(line, "intruder") {
			t.Fatalf("log line leaked unrequested host: %q", line)
		}
	}
}

func TestOperationErrorFlipsStatusBeforeStreamEnd(t *testing.T) {
	pr, pw := io.Pipe()
	c := NewConsumer()
	open := func(context.Context) (io.ReadCloser, error) { return pr, nil }
	if err := c.Start(context.Background(), []string{"blaster-01"}, open); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := pw.Write([]byte(frames(`{"type":"error","error":"backend exploded"}`))); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for c.Snapshot().Status == StatusRunning {
		if time.Now().After(deadline) {
			t.Fatal("status still running after fatal event")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if snap := c.Snapshot(); snap.Status != StatusError || snap.Err != "backend exploded" {
		t.Fatalf("status = %s err = %q, want error mid-stream", snap.Status, snap.Err)
	}

	_ = pw.Close()
	snap := waitDone(t, c)
	if snap.Status != StatusError || snap.Err != "backend exploded" {
		t.Fatalf("status = %s err = %q after stream end", snap.Status, snap.Err)
	}
}
