package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"venuectl/internal/api"
	"venuectl/internal/watch"
)

func sampleSnapshot() watch.Snapshot {
	return watch.Snapshot{
		Controllers: []api.Controller{
			{Hostname: "blaster-01", Online: true, Model: "esp32-ir4", Ports: []api.Port{{Number: 1}, {Number: 2}}},
			{Hostname: "blaster-02", Online: false},
		},
		Metrics:     api.QueueMetrics{Pending: 3, InFlight: 1, Failed: 2},
		HasMetrics:  true,
		LastUpdated: time.Now(),
	}
}

func TestRenderOnceListsControllers(t *testing.T) {
	out := RenderOnce(sampleSnapshot())
	for _, want := range []string{"blaster-01", "blaster-02", "online", "offline", "pending 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderOnceShowsOfflineBanner(t *testing.T) {
	snap := sampleSnapshot()
	snap.LastError = errors.New("connection refused")
	snap.ConsecutiveFailures = 3
	out := RenderOnce(snap)
	if !strings.Contains(out, "BACKEND UNREACHABLE") {
		t.Fatalf("expected offline banner:\n%s", out)
	}
}

func TestRenderOnceIncludesPortTable(t *testing.T) {
	snap := sampleSnapshot()
	snap.PortHostname = "blaster-01"
	snap.Ports = []api.PortStatus{{Port: 1, Power: "on", CurrentChannel: "13.1", PendingCount: 2}}
	out := RenderOnce(snap)
	for _, want := range []string{"PORT", "13.1", "blaster-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}
