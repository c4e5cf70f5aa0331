package repository

import (
	"context"
	"sync"
	"time"

	"github.com/javierferrersb/Roast-My-Run/internal/domain/oauth"
)

// OAuthStateStore persists the CSRF state issued at login until the provider
// redirects back.
type OAuthStateStore interface {
	SaveState(ctx context.Context, key string, data oauth.LoginState, ttl time.Duration) error
	GetState(ctx context.Context, key string) (*oauth.LoginState, error)
	DeleteState(ctx context.Context, key string) error
}

// MemoryStateStore is the in-process fallback used when no Redis address is
// configured. Entries expire lazily on read.
type MemoryStateStore struct {
	mu   sync.RWMutex
	data map[string]memoryStateEntry
}

type memoryStateEntry struct {
	state     oauth.LoginState
	expiresAt time.Time
}

var _ OAuthStateStore = (*MemoryStateStore)(nil)

// NewMemoryStateStore constructs an empty store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{data: map[string]memoryStateEntry{}}
}

// SaveState stores the state with TTL.
func (m *MemoryStateStore) SaveState(_ context.Context, key string, data oauth.LoginState, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = memoryStateEntry{state: data, expiresAt: time.Now().Add(ttl)}
	return nil
}

// GetState returns the stored state or nil when absent or expired.
func (m *MemoryStateStore) GetState(_ context.Context, key string) (*oauth.LoginState, error) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return nil, nil
	}
	state := entry.state
	return &state, nil
}

// DeleteState removes the key.
func (m *MemoryStateStore) DeleteState(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
