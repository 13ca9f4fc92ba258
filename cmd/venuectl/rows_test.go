package main

import (
	"reflect"
	"testing"

	"venuectl/internal/api"
)

func TestBuildControllerRows(t *testing.T) {
	controllers := []api.Controller{
		{
			Hostname:    "blaster-01",
			DisplayName: "Bar North",
			IPAddress:   "10.0.0.5",
			Model:       "esp32-ir4",
			Firmware:    "2.4.1",
			Online:      true,
			Ports:       []api.Port{{Number: 1}, {Number: 2}},
			Tags:        []string{"bar", "north"},
		},
		{Hostname: "blaster-02"},
	}
	rows := buildControllerRows(controllers)
	want := [][]string{
		{"blaster-01", "Bar North", "10.0.0.5", "esp32-ir4", "2.4.1", "online", "2", "bar, north"},
		{"blaster-02", "-", "-", "-", "-", "offline", "0", "-"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %#v, want %#v", rows, want)
	}
}

func TestBuildBulkRequestCrossProduct(t *testing.T) {
	req := buildBulkRequest([]string{"a", "b"}, []int{1, 2}, "power_on", "", 100)
	if len(req.Commands) != 4 {
		t.Fatalf("expected 4 commands, got %d", len(req.Commands))
	}
	if req.DelayMS != 100 {
		t.Fatalf("delay = %d, want 100", req.DelayMS)
	}
	first := req.Commands[0]
	if first.Hostname != "a" || first.Port != 1 || first.Command != "power_on" {
		t.Fatalf("unexpected first command: %+v", first)
	}
	last := req.Commands[3]
	if last.Hostname != "b" || last.Port != 2 {
		t.Fatalf("unexpected last command: %+v", last)
	}
}

func TestFilterQueuedCommands(t *testing.T) {
	commands := []api.QueuedCommand{
		{ID: "1", Status: "pending"},
		{ID: "2", Status: "failed"},
		{ID: "3", Status: "completed"},
	}
	filtered := filterQueuedCommands(commands, []string{"Failed", " pending "})
	if len(filtered) != 2 || filtered[0].ID != "1" || filtered[1].ID != "2" {
		t.Fatalf("unexpected filter result: %#v", filtered)
	}
	if got := filterQueuedCommands(commands, nil); len(got) != 3 {
		t.Fatal("empty filter must keep everything")
	}
}

func TestBuildQueueMetricRows(t *testing.T) {
	rows := buildQueueMetricRows(&api.QueueMetrics{Pending: 7, AvgLatency: 42.6})
	if rows[0][1] != "7" {
		t.Fatalf("pending row = %v", rows[0])
	}
	if rows[4][1] != "43 ms" {
		t.Fatalf("latency row = %v", rows[4])
	}
}

func TestBuildLibraryRows(t *testing.T) {
	rows := buildLibraryRows([]api.Library{
		{Brand: "lg", Models: []string{"a", "b"}, Commands: []string{"power_on"}},
	})
	want := [][]string{{"LG", "lg", "2", "1"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %#v, want %#v", rows, want)
	}
}

func TestCleanHostnames(t *testing.T) {
	got := cleanHostnames([]string{" blaster-01 ", "", "blaster-02"})
	if !reflect.DeepEqual(got, []string{"blaster-01", "blaster-02"}) {
		t.Fatalf("cleanHostnames = %#v", got)
	}
}
