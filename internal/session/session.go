// Package session owns the authenticated user state: the bearer token and
// the account record, persisted across restarts in the local key-value store.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"stockwatch/internal/domain"
	"stockwatch/internal/store"
)

// Manager holds the in-memory session and mirrors it to the key-value store.
// It doubles as the token source for the API client, and its HandleAuthFailure
// is wired as the client's auth-failure hook so a rejected token clears the
// persisted credentials exactly once.
type Manager struct {
	kv  store.KV
	log *slog.Logger

	mu    sync.Mutex
	token string
	user  *domain.User
}

// NewManager creates a session manager over the given store. Call Load before
// first use to restore any persisted session.
func NewManager(kv store.KV, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{kv: kv, log: logger.With("component", "session")}
}

// Load restores the persisted token and user record, if any. A corrupt user
// record is dropped rather than failing the load: the token alone is enough
// to stay signed in.
func (m *Manager) Load(ctx context.Context) error {
	token, _, err := m.kv.Get(ctx, store.KeyToken)
	if err != nil {
		return fmt.Errorf("loading session token: %w", err)
	}
	rawUser, ok, err := m.kv.Get(ctx, store.KeyUser)
	if err != nil {
		return fmt.Errorf("loading session user: %w", err)
	}

	var user *domain.User
	if ok && rawUser != "" {
		var u domain.User
		if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
			m.log.Warn("dropping unreadable user record", "error", err)
		} else {
			user = &u
		}
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.mu.Unlock()
	return nil
}

// Token implements the API client's token source. Empty means signed out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns the signed-in account record, or nil when signed out.
func (m *Manager) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// LoggedIn reports whether a token is present.
func (m *Manager) LoggedIn() bool { return m.Token() != "" }

// SetCredentials installs a fresh login and persists it.
func (m *Manager) SetCredentials(ctx context.Context, token string, user *domain.User) error {
	m.mu.Lock()
	m.token = token
	m.user = user
	m.mu.Unlock()

	if err := m.kv.Set(ctx, store.KeyToken, token); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}
	if user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encoding user: %w", err)
		}
		if err := m.kv.Set(ctx, store.KeyUser, string(raw)); err != nil {
			return fmt.Errorf("persisting user: %w", err)
		}
	}
	return nil
}

// Logout clears the session and the persisted credentials.
func (m *Manager) Logout(ctx context.Context) error {
	m.clear()
	if err := m.kv.Delete(ctx, store.KeyToken, store.KeyUser); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}

// HandleAuthFailure reacts to a backend 401/403 by clearing the session.
// Concurrent rejections from parallel requests collapse into a single clear:
// once the token is gone, later calls are no-ops.
func (m *Manager) HandleAuthFailure(statusCode int) {
	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return
	}
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	m.log.Warn("token rejected, clearing session", "status", statusCode)
	if err := m.kv.Delete(context.Background(), store.KeyToken, store.KeyUser); err != nil {
		m.log.Error("clearing rejected credentials", "error", err)
	}
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()
}
