package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
)

// Ensure fakeOrderService implements the port at compile time.
var _ ports.OrderService = (*fakeOrderService)(nil)

// fakeOrderService is an in-memory implementation of ports.OrderService intended
// for local development and manual testing only. Do NOT use in production.
type fakeOrderService struct{}

// NewFakeOrderService returns an OrderService that accepts every order.
func NewFakeOrderService() ports.OrderService {
	return &fakeOrderService{}
}

func (f *fakeOrderService) SubmitOrder(ctx context.Context, idempotencyKey string, payload entity.OrderPayload) (*entity.OrderReceipt, error) {
	id := uuid.NewString()
	slog.InfoContext(ctx, "fake order accepted",
		"order_id", id,
		"idempotency_key", idempotencyKey,
		"lines", len(payload.Cart),
		"total", payload.TotalPrice,
	)
	return &entity.OrderReceipt{ID: id}, nil
}
