package auth

import (
	"path/filepath"
	"testing"

	"venuectl/internal/api"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	mgr, err := NewManagerWithStore(NewFileTokenStore(path))
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return mgr, path
}

func TestManagerAssignsClientIdentifier(t *testing.T) {
	mgr, path := newTestManager(t)
	id := mgr.ClientIdentifier()
	if id == "" {
		t.Fatal("expected client identifier to be assigned")
	}

	reloaded, err := NewManagerWithStore(NewFileTokenStore(path))
	if err != nil {
		t.Fatalf("reload manager: %v", err)
	}
	if reloaded.ClientIdentifier() != id {
		t.Fatalf("client identifier not stable: %q vs %q", reloaded.ClientIdentifier(), id)
	}
}

func TestManagerSessionRoundTrip(t *testing.T) {
	mgr, path := newTestManager(t)

	if _, err := mgr.AccessToken(); err != ErrNotLoggedIn {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}

	pair := api.TokenPair{AccessToken: "acc-1", RefreshToken: "ref-1", ExpiresIn: 3600}
	if err := mgr.SetSession("operator", pair); err != nil {
		t.Fatalf("set session: %v", err)
	}

	reloaded, err := NewManagerWithStore(NewFileTokenStore(path))
	if err != nil {
		t.Fatalf("reload manager: %v", err)
	}
	token, err := reloaded.AccessToken()
	if err != nil {
		t.Fatalf("access token: %v", err)
	}
	if token != "acc-1" {
		t.Fatalf("unexpected token %q", token)
	}
	if reloaded.Username() != "operator" {
		t.Fatalf("unexpected username %q", reloaded.Username())
	}
}

func TestManagerRefreshKeepsRefreshTokenWhenOmitted(t *testing.T) {
	mgr, _ := newTestManager(t)
	if err := mgr.SetSession("operator", api.TokenPair{AccessToken: "acc-1", RefreshToken: "ref-1"}); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if err := mgr.UpdateTokens(api.TokenPair{AccessToken: "acc-2"}); err != nil {
		t.Fatalf("update tokens: %v", err)
	}
	refresh, err := mgr.RefreshToken()
	if err != nil {
		t.Fatalf("refresh token: %v", err)
	}
	if refresh != "ref-1" {
		t.Fatalf("refresh token lost: %q", refresh)
	}
}

func TestManagerClearKeepsClientIdentifier(t *testing.T) {
	mgr, _ := newTestManager(t)
	id := mgr.ClientIdentifier()
	if err := mgr.SetSession("operator", api.TokenPair{AccessToken: "acc"}); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if err := mgr.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := mgr.AccessToken(); err != ErrNotLoggedIn {
		t.Fatalf("expected ErrNotLoggedIn after clear, got %v", err)
	}
	if mgr.ClientIdentifier() != id {
		t.Fatal("client identifier changed on clear")
	}
}
