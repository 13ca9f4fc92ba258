package watch

import (
	"context"
	"errors"
	"testing"

	"venuectl/internal/api"
)

type fakeFetcher struct {
	controllers []api.Controller
	metrics     *api.QueueMetrics
	ports       map[string][]api.PortStatus
	err         error
}

func (f *fakeFetcher) ListControllers(context.Context) ([]api.Controller, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.controllers, nil
}

func (f *fakeFetcher) QueueMetrics(context.Context) (*api.QueueMetrics, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics, nil
}

func (f *fakeFetcher) PortStatus(_ context.Context, hostname string) (*api.PortStatusResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &api.PortStatusResponse{Hostname: hostname, Ports: f.ports[hostname]}, nil
}

func TestRefreshStoresFleetData(t *testing.T) {
	fetcher := &fakeFetcher{
		controllers: []api.Controller{{Hostname: "blaster-01", Online: true}},
		metrics:     &api.QueueMetrics{Pending: 4, InFlight: 1},
		ports: map[string][]api.PortStatus{
			"blaster-01": {{Port: 1, Power: "on"}},
		},
	}
	store := &Store{}
	Refresh(context.Background(), store, fetcher, "blaster-01", nil)

	snap := store.Snapshot()
	if len(snap.Controllers) != 1 || snap.Controllers[0].Hostname != "blaster-01" {
		t.Fatalf("unexpected controllers: %#v", snap.Controllers)
	}
	if !snap.HasMetrics || snap.Metrics.Pending != 4 {
		t.Fatalf("unexpected metrics: %+v", snap.Metrics)
	}
	if len(snap.Ports) != 1 || snap.Ports[0].Port != 1 {
		t.Fatalf("unexpected ports: %#v", snap.Ports)
	}
	if snap.LastError != nil || snap.ConsecutiveFailures != 0 {
		t.Fatalf("unexpected error state: %+v", snap)
	}
}

func TestFailuresAccumulateAndKeepLastData(t *testing.T) {
	fetcher := &fakeFetcher{
		controllers: []api.Controller{{Hostname: "blaster-01"}},
		metrics:     &api.QueueMetrics{},
	}
	store := &Store{}
	Refresh(context.Background(), store, fetcher, "", nil)

	fetcher.err = errors.New("connection refused")
	Refresh(context.Background(), store, fetcher, "", nil)
	snap := store.Snapshot()
	if snap.IsOffline() {
		t.Fatal("one failure should not mark the backend offline")
	}
	if len(snap.Controllers) != 1 {
		t.Fatal("failed poll dropped previous data")
	}

	Refresh(context.Background(), store, fetcher, "", nil)
	snap = store.Snapshot()
	if !snap.IsOffline() {
		t.Fatalf("expected offline after %d failures", snap.ConsecutiveFailures)
	}
	if snap.LastError == nil {
		t.Fatal("expected recorded poll error")
	}

	fetcher.err = nil
	Refresh(context.Background(), store, fetcher, "", nil)
	if snap := store.Snapshot(); snap.IsOffline() || snap.LastError != nil {
		t.Fatalf("successful poll should clear failure state: %+v", snap)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store := &Store{}
	store.Update([]api.Controller{{Hostname: "a"}}, &api.QueueMetrics{}, nil, nil)

	snap := store.Snapshot()
	snap.Controllers[0].Hostname = "mutated"
	if store.Snapshot().Controllers[0].Hostname != "a" {
		t.Fatal("snapshot shares backing storage with the store")
	}
}
