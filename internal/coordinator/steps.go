package coordinator

import (
	"context"
	"fmt"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
)

// --- SubmitOrderStep ---

type SubmitOrderStep struct {
	service        ports.OrderService
	idempotencyKey string
	payload        entity.OrderPayload
	receipt        *entity.OrderReceipt
}

// NewSubmitOrderStep is the constructor for SubmitOrderStep
func NewSubmitOrderStep(service ports.OrderService, idempotencyKey string, payload entity.OrderPayload) *SubmitOrderStep {
	return &SubmitOrderStep{
		service:        service,
		idempotencyKey: idempotencyKey,
		payload:        payload,
	}
}

func (s *SubmitOrderStep) Name() string { return "Submit_Order_Step" }

func (s *SubmitOrderStep) Execute(ctx context.Context) error {
	receipt, err := s.service.SubmitOrder(ctx, s.idempotencyKey, s.payload)
	if err != nil {
		return fmt.Errorf("failed to submit order: %w", err)
	}
	s.receipt = receipt
	return nil
}

// Compensate is a no-op: the order backend has no cancellation endpoint for
// storefront orders. Cancellation happens from the admin console.
func (s *SubmitOrderStep) Compensate(ctx context.Context) error {
	return nil
}

// Receipt returns the backend receipt after a successful Execute.
func (s *SubmitOrderStep) Receipt() *entity.OrderReceipt {
	return s.receipt
}

// --- ClearCartStep ---

// Cart is the part of the cart store the checkout saga touches.
type Cart interface {
	Subtract(ctx context.Context, lines []entity.CartLine) []entity.CartLine
	Merge(ctx context.Context, lines []entity.CartLine)
}

// ClearCartStep removes the ordered lines from the cart. Anything added to
// the cart while the order was being submitted stays.
type ClearCartStep struct {
	cart    Cart
	ordered []entity.CartLine
	taken   []entity.CartLine
}

func NewClearCartStep(cart Cart, ordered []entity.CartLine) *ClearCartStep {
	return &ClearCartStep{cart: cart, ordered: ordered}
}

func (s *ClearCartStep) Name() string { return "Clear_Cart_Step" }

func (s *ClearCartStep) Execute(ctx context.Context) error {
	s.taken = s.cart.Subtract(ctx, s.ordered)
	return nil
}

// Compensate puts back what Execute removed.
func (s *ClearCartStep) Compensate(ctx context.Context) error {
	if len(s.taken) > 0 {
		s.cart.Merge(ctx, s.taken)
	}
	return nil
}
