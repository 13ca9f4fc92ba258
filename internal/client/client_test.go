package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"venuectl/internal/api"
	"venuectl/internal/config"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Backend.BaseURL = baseURL
	return &cfg
}

// memoryTokens is an in-memory TokenSource for exercising the refresh path.
type memoryTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
	updates int
}

func (m *memoryTokens) AccessToken() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.access == "" {
		return "", errors.New("not logged in")
	}
	return m.access, nil
}

func (m *memoryTokens) RefreshToken() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refresh == "" {
		return "", errors.New("not logged in")
	}
	return m.refresh, nil
}

func (m *memoryTokens) UpdateTokens(pair api.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = pair.AccessToken
	if pair.RefreshToken != "" {
		m.refresh = pair.RefreshToken
	}
	m.updates++
	return nil
}

func TestListControllersDecodesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/management/managed" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Fatalf("unexpected accept header: %q", accept)
		}
		_ = json.NewEncoder(w).Encode(api.ControllerListResponse{Controllers: []api.Controller{
			{Hostname: "blaster-01", Online: true},
			{Hostname: "blaster-02"},
		}})
	}))
	defer server.Close()

	c, err := New(testConfig(t, server.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	controllers, err := c.ListControllers(context.Background())
	if err != nil {
		t.Fatalf("list controllers: %v", err)
	}
	if len(controllers) != 2 || controllers[0].Hostname != "blaster-01" {
		t.Fatalf("unexpected controllers: %#v", controllers)
	}
}

func TestStatusErrorClassification(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
	}{
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusInternalServerError, ErrUnavailable},
	}
	for _, tc := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"error":"nope","detail":"because"}`))
		}))
		c, err := New(testConfig(t, server.URL))
		if err != nil {
			t.Fatalf("new client: %v", err)
		}
		_, err = c.ListTags(context.Background())
		server.Close()
		if !errors.Is(err, tc.sentinel) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.sentinel, err)
		}
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("status %d: expected StatusError, got %T", tc.status, err)
		}
		if statusErr.Message != "nope: because" {
			t.Fatalf("status %d: unexpected message %q", tc.status, statusErr.Message)
		}
	}
}

func TestUnauthorizedTriggersSingleRefreshAndRetry(t *testing.T) {
	tokens := &memoryTokens{access: "stale", refresh: "ref-1"}

	var refreshes int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/refresh":
			refreshes++
			var req api.RefreshRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken != "ref-1" {
				t.Fatalf("unexpected refresh request: %+v err=%v", req, err)
			}
			_ = json.NewEncoder(w).Encode(api.TokenPair{AccessToken: "fresh", RefreshToken: "ref-2"})
		case "/api/v1/settings/tags":
			if r.Header.Get("Authorization") == "Bearer fresh" {
				_ = json.NewEncoder(w).Encode(api.TagListResponse{Tags: []api.Tag{{Name: "bar"}}})
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c, err := New(testConfig(t, server.URL), WithTokenSource(tokens))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	tags, err := c.ListTags(context.Background())
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "bar" {
		t.Fatalf("unexpected tags: %#v", tags)
	}
	if refreshes != 1 {
		t.Fatalf("expected exactly one refresh, got %d", refreshes)
	}
}

func TestUnauthorizedAfterRefreshSurfacesErrUnauthorized(t *testing.T) {
	tokens := &memoryTokens{access: "stale", refresh: "dead"}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c, err := New(testConfig(t, server.URL), WithTokenSource(tokens))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.ListTags(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDispatchBulkValidatesBeforeSending(t *testing.T) {
	c, err := New(testConfig(t, "http://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.DispatchBulk(context.Background(), api.BulkCommandRequest{}); err == nil {
		t.Fatal("expected error for empty batch")
	}
	req := api.BulkCommandRequest{Commands: []api.PortCommand{{Port: 1, Command: "power_on"}}}
	if _, err := c.DispatchBulk(context.Background(), req); err == nil {
		t.Fatal("expected error for missing hostname")
	}
}

func TestDispatchBulkStampsCorrelationID(t *testing.T) {
	var got api.BulkCommandRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(api.BulkCommandResponse{BatchID: "b-1", Queued: 1})
	}))
	defer server.Close()

	c, err := New(testConfig(t, server.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	resp, err := c.DispatchBulk(context.Background(), api.BulkCommandRequest{
		Commands: []api.PortCommand{{Hostname: "blaster-01", Port: 2, Command: "channel_set", Channel: "13.1"}},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if resp.BatchID != "b-1" || resp.Queued != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if got.CorrelationID == "" {
		t.Fatal("expected correlation id to be stamped")
	}
}

func TestConnectionErrorIsUnavailable(t *testing.T) {
	c, err := New(testConfig(t, "http://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.QueueMetrics(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
