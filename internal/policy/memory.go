package policy

import (
	"context"
	"sync"

	"izakaya-order/internal/models"
)

// MemoryStore keeps policy state in process memory
type MemoryStore struct {
	mu           sync.RWMutex
	modes        map[string]models.TableMode
	foodAccepted *bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{modes: make(map[string]models.TableMode)}
}

func (m *MemoryStore) TableMode(_ context.Context, tableID string) (models.TableMode, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mode, ok := m.modes[tableID]
	return mode, ok, nil
}

func (m *MemoryStore) SetTableMode(_ context.Context, tableID string, mode models.TableMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[tableID] = mode
	return nil
}

func (m *MemoryStore) FoodAccepted(_ context.Context) (bool, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.foodAccepted == nil {
		return false, false, nil
	}
	return *m.foodAccepted, true, nil
}

func (m *MemoryStore) SetFoodAccepted(_ context.Context, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.foodAccepted = &enabled
	return nil
}
