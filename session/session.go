// Package session keeps a persisted login across CLI invocations: a token
// file on disk, restored at start-up with a single resolution attempt
// against the server.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/galera-volei/galera-system/client"
	"github.com/galera-volei/galera-system/models"
)

const tokenFileMode = 0o600

type Manager struct {
	api       *client.Client
	tokenPath string

	mu      sync.RWMutex
	current *models.User
}

func NewManager(api *client.Client, tokenPath string) *Manager {
	return &Manager{api: api, tokenPath: tokenPath}
}

// Init restores a persisted session. It makes exactly one resolution
// attempt: if the stored token no longer resolves to a user, the session
// comes up signed out and the stale token is dropped. Init never fails the
// caller; a broken session is just an anonymous one.
func (m *Manager) Init(ctx context.Context) {
	raw, err := os.ReadFile(m.tokenPath)
	if err != nil {
		return
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return
	}

	m.api.SetToken(token)
	user, err := m.api.Me(ctx)
	if err != nil {
		m.api.ClearToken()
		os.Remove(m.tokenPath)
		return
	}

	m.mu.Lock()
	m.current = user
	m.mu.Unlock()
}

func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	resp, err := m.api.Login(ctx, client.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return m.establish(resp)
}

func (m *Manager) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	resp, err := m.api.Register(ctx, client.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return m.establish(resp)
}

// Logout clears the session locally. It always succeeds; there is no
// server-side state to tear down.
func (m *Manager) Logout() {
	m.api.ClearToken()
	os.Remove(m.tokenPath)

	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// Current returns the signed-in user, or nil when anonymous.
func (m *Manager) Current() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) Authenticated() bool {
	return m.Current() != nil
}

func (m *Manager) establish(resp *client.AuthResponse) (*models.User, error) {
	if err := m.persistToken(resp.AccessToken); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.current = resp.User
	m.mu.Unlock()
	return resp.User, nil
}

func (m *Manager) persistToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(m.tokenPath), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(m.tokenPath, []byte(token), tokenFileMode); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}
