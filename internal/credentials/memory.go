package credentials

import (
	"sync"

	"github.com/diogo/chatty/internal/models"
)

// Memory is a process-local store, used by --no-persist and in tests
type Memory struct {
	mu      sync.RWMutex
	secrets map[models.ProviderID]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{secrets: make(map[models.ProviderID]string)}
}

func (m *Memory) Load(provider models.ProviderID) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.secrets[provider], nil
}

func (m *Memory) Save(provider models.ProviderID, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[provider] = secret
	return nil
}

func (m *Memory) Delete(provider models.ProviderID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.secrets, provider)
	return nil
}
