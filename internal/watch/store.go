// Package watch maintains a periodically refreshed snapshot of backend
// state (controllers, queue metrics, optional per-controller port status)
// for the live dashboard and one-shot renders.
package watch

import (
	"fmt"
	"sync"
	"time"

	"venuectl/internal/api"
)

// offlineThreshold is the number of consecutive poll failures after which
// the backend is considered unreachable.
const offlineThreshold = 2

// Snapshot represents the latest data available to the dashboard.
type Snapshot struct {
	Controllers         []api.Controller
	Metrics             api.QueueMetrics
	HasMetrics          bool
	Ports               []api.PortStatus
	PortHostname        string
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= offlineThreshold
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) Update(controllers []api.Controller, metrics *api.QueueMetrics, ports []api.PortStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Controllers = cloneControllers(controllers)
	s.snapshot.Ports = clonePorts(ports)
	if metrics != nil {
		s.snapshot.Metrics = *metrics
		s.snapshot.HasMetrics = true
	} else {
		s.snapshot.HasMetrics = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// SetPortHostname records which controller's ports the poller is tracking.
func (s *Store) SetPortHostname(hostname string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.PortHostname = hostname
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Controllers = cloneControllers(s.snapshot.Controllers)
	snap.Ports = clonePorts(s.snapshot.Ports)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneControllers(items []api.Controller) []api.Controller {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.Controller, len(items))
	copy(dup, items)
	return dup
}

func clonePorts(items []api.PortStatus) []api.PortStatus {
	if len(items) == 0 {
		return nil
	}
	dup := make([]api.PortStatus, len(items))
	copy(dup, items)
	return dup
}
