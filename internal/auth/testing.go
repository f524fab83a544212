package auth

import (
	"sync"

	"github.com/99designs/keyring"
)

// MemoryKeyring is an in-memory KeyringProvider for tests. It never touches
// the system keychain or the file backend.
type MemoryKeyring struct {
	mu    sync.Mutex
	items map[string]keyring.Item
}

// NewMemoryKeyring returns an empty MemoryKeyring. Install it with
// SetProvider.
func NewMemoryKeyring() *MemoryKeyring {
	return &MemoryKeyring{items: make(map[string]keyring.Item)}
}

// Get implements KeyringProvider. Missing keys return keyring.ErrKeyNotFound
// like the real backends.
func (m *MemoryKeyring) Get(key string) (keyring.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return keyring.Item{}, keyring.ErrKeyNotFound
	}
	return item, nil
}

// Set implements KeyringProvider.
func (m *MemoryKeyring) Set(item keyring.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.Key] = item
	return nil
}

// Remove implements KeyringProvider.
func (m *MemoryKeyring) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[key]; !ok {
		return keyring.ErrKeyNotFound
	}
	delete(m.items, key)
	return nil
}

// SetToken stores a GitLab token under KeyName without metadata, as a token
// saved by an older glc would look.
func (m *MemoryKeyring) SetToken(token string) {
	_ = m.Set(keyring.Item{Key: KeyName, Data: []byte(token)})
}

// SetProvider replaces the keyring backend used by this package. nil restores
// the system keyring.
func SetProvider(fn func() (KeyringProvider, error)) {
	if fn == nil {
		defaultProvider = newOSKeyring
		return
	}
	defaultProvider = fn
}
