package auth

import "sync"

// Store keys. The verifier and state are transient handshake entries; the
// credential bundle is the only long-lived one.
const (
	KeyCredentials = "spotify_credentials"
	KeyVerifier    = "spotify_code_verifier"
	KeyState       = "spotify_auth_state"
)

// Store is the durable key/value capability backing the credential
// lifecycle. Implementations must make Set atomic per key; no cross-key
// transactionality is required.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set writes the value for key, replacing any prior value.
	Set(key, value string) error

	// Remove deletes the entry for key. Removing an absent key is not an error.
	Remove(key string) error
}

// MemoryStore is an in-process [Store]: useful for tests and for running
// without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
