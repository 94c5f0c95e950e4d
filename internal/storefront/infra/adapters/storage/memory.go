// Package storage implements ports.CartStorage on the backends the
// storefront can run with.
package storage

import (
	"context"
	"sync"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
)

var _ ports.CartStorage = (*MemoryStorage)(nil)

// MemoryStorage keeps cart records in process. Carts do not survive a
// restart; intended for local development and tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStorage) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = append([]byte(nil), data...)
	return nil
}
