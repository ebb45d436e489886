package alumnisdk

import "sync"

// CredentialStore persists the bearer access token between requests.
//
// Load returns an empty string and a nil error when no credential is stored.
// Implementations must be safe for concurrent use; the Session re-reads the
// credential before every attempt and never caches it.
type CredentialStore interface {
	Save(token string) error
	Load() (string, error)
	Remove() error
}

// MemoryStore is an in-process CredentialStore.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore returns a store pre-populated with token (which may be empty).
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *MemoryStore) Remove() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
