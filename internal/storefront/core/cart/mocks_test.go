package cart

import (
	"context"
	"sync"
)

// MockStorage is an in-memory ports.CartStorage for tests.
type MockStorage struct {
	mu       sync.Mutex
	records  map[string][]byte
	LoadFunc func(ctx context.Context, key string) ([]byte, error)
	SaveFunc func(ctx context.Context, key string, data []byte) error
	saves    int
}

func NewMockStorage() *MockStorage {
	return &MockStorage{records: make(map[string][]byte)}
}

func (m *MockStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[key], nil
}

func (m *MockStorage) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	m.saves++
	m.mu.Unlock()

	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, key, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = append([]byte(nil), data...)
	return nil
}

func (m *MockStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
