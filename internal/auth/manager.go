package auth

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"venuectl/internal/api"
	"venuectl/internal/config"
)

const stateFileName = "session.json"

// ErrNotLoggedIn is returned when no session has been established yet.
var ErrNotLoggedIn = errors.New("not logged in")

// Manager guards the persisted session and hands tokens to the HTTP layer.
type Manager struct {
	store TokenStore

	mu    sync.RWMutex
	state State
}

// NewManager loads session state from the configured state directory,
// assigning a stable client identifier on first use.
func NewManager(cfg *config.Config) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	return NewManagerWithStore(NewFileTokenStore(filepath.Join(cfg.Auth.StateDir, stateFileName)))
}

// NewManagerWithStore builds a Manager around a custom persistence layer.
func NewManagerWithStore(store TokenStore) (*Manager, error) {
	if store == nil {
		return nil, errors.New("token store is nil")
	}
	state, err := store.Load()
	if err != nil {
		return nil, err
	}
	mgr := &Manager{store: store, state: state}
	if state.ClientIdentifier == "" {
		mgr.state.ClientIdentifier = strings.ReplaceAll(uuid.New().String(), "-", "")
		if err := store.Save(mgr.state); err != nil {
			return nil, err
		}
	}
	return mgr, nil
}

// AccessToken returns the current access token, or ErrNotLoggedIn.
func (m *Manager) AccessToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state.AccessToken == "" {
		return "", ErrNotLoggedIn
	}
	return m.state.AccessToken, nil
}

// RefreshToken returns the current refresh token, or ErrNotLoggedIn.
func (m *Manager) RefreshToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state.RefreshToken == "" {
		return "", ErrNotLoggedIn
	}
	return m.state.RefreshToken, nil
}

// Username reports the account the session belongs to.
func (m *Manager) Username() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Username
}

// ClientIdentifier reports the stable per-install identifier.
func (m *Manager) ClientIdentifier() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.ClientIdentifier
}

// SetSession records a freshly issued token pair for username.
func (m *Manager) SetSession(username string, pair api.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Username = username
	m.applyPairLocked(pair)
	return m.store.Save(m.state)
}

// UpdateTokens replaces the token pair after a refresh, keeping the username.
func (m *Manager) UpdateTokens(pair api.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyPairLocked(pair)
	return m.store.Save(m.state)
}

func (m *Manager) applyPairLocked(pair api.TokenPair) {
	m.state.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		m.state.RefreshToken = pair.RefreshToken
	}
	if pair.ExpiresIn > 0 {
		m.state.AccessExpiresAt = time.Now().Add(time.Duration(pair.ExpiresIn) * time.Second)
	} else {
		m.state.AccessExpiresAt = time.Time{}
	}
}

// Clear drops the session, keeping the client identifier.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{ClientIdentifier: m.state.ClientIdentifier}
	return m.store.Save(m.state)
}
