package override

import (
	"context"
	"sync"
)

// MemoryStore keeps overrides in process memory. It is used when no Redis
// address is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func memoryKey(device, entityType, entityID, field string) string {
	return device + ":" + Key(entityType, entityID, field)
}

func (m *MemoryStore) Save(_ context.Context, device, entityType, entityID string, values Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for field, value := range values {
		m.values[memoryKey(device, entityType, entityID, field)] = value
	}
	return nil
}

func (m *MemoryStore) Load(_ context.Context, device, entityType, entityID string, fields ...string) (Set, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := make(Set, len(fields))
	for _, field := range fields {
		if v, ok := m.values[memoryKey(device, entityType, entityID, field)]; ok {
			set[field] = v
		}
	}
	return set, nil
}
