package checkout

import (
	"context"
	"sync"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
)

// MockOrderService records submitted payloads.
type MockOrderService struct {
	mu         sync.Mutex
	Submitted  []entity.OrderPayload
	Keys       []string
	SubmitFunc func(ctx context.Context, key string, payload entity.OrderPayload) (*entity.OrderReceipt, error)
}

func (m *MockOrderService) SubmitOrder(ctx context.Context, key string, payload entity.OrderPayload) (*entity.OrderReceipt, error) {
	m.mu.Lock()
	m.Submitted = append(m.Submitted, payload)
	m.Keys = append(m.Keys, key)
	m.mu.Unlock()

	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, key, payload)
	}
	return &entity.OrderReceipt{ID: "order-1"}, nil
}

// MockPublisher records published messages.
type MockPublisher struct {
	mu       sync.Mutex
	Topics   []string
	Messages [][]byte
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Topics = append(m.Topics, topic)
	m.Messages = append(m.Messages, msg)
	return nil
}
