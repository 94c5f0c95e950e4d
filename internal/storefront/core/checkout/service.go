// Package checkout validates a cart at checkout, assembles the order payload
// and submits it.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/salad-storefront/internal/coordinator"
	"github.com/jcmexdev/salad-storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/cart"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/pricing"
)

// TopicOrderSubmitted is published after the backend accepts an order.
const TopicOrderSubmitted = "orders.submitted"

// TransferInfo is where customers paying by transfer send the money and the
// receipt.
type TransferInfo struct {
	Alias    string
	WhatsApp string
}

// OrderSubmittedEvent is the body of TopicOrderSubmitted.
type OrderSubmittedEvent struct {
	OrderID        string               `json:"order_id"`
	IdempotencyKey string               `json:"idempotency_key"`
	PaymentMethod  entity.PaymentMethod `json:"payment_method"`
	TotalPrice     float64              `json:"total_price"`
	Items          int                  `json:"items"`
	SubmittedAt    time.Time            `json:"submitted_at"`
}

type Deps struct {
	Orders    ports.OrderService
	Publisher ports.EventPublisher // optional
	SagaLog   sagalog.Repository   // optional
	Transfer  TransferInfo
}

type Service struct {
	orders    ports.OrderService
	publisher ports.EventPublisher
	sagaLog   sagalog.Repository
	transfer  TransferInfo
	logger    *slog.Logger
}

func NewService(deps Deps, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		orders:    deps.Orders,
		publisher: deps.Publisher,
		sagaLog:   deps.SagaLog,
		transfer:  deps.Transfer,
		logger:    logger,
	}
}

// Checkout validates form against the cart, submits the order and clears
// the cart once the backend accepts it. Validation failures are returned as
// *ValidationError and backend failures leave the cart untouched.
func (s *Service) Checkout(ctx context.Context, store *cart.Store, form Form, idempotencyKey string) (*entity.Confirmation, error) {
	if !store.BeginSubmit() {
		return nil, ErrSubmissionInFlight
	}
	defer store.EndSubmit()

	lines := store.Lines()
	total := pricing.CartTotal(lines)

	if err := Validate(form, lines, total); err != nil {
		return nil, err
	}

	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	payload := Assemble(lines, total, form)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode order payload: %w", err)
	}

	submit := coordinator.NewSubmitOrderStep(s.orders, idempotencyKey, payload)
	steps := []coordinator.Step{
		submit,
		coordinator.NewClearCartStep(store, lines),
	}

	saga := coordinator.NewOrchestrator(idempotencyKey, steps, s.sagaLog).WithPayload(string(body))
	if err := saga.Start(ctx); err != nil {
		s.logger.WarnContext(ctx, "order submission failed", "idempotency_key", idempotencyKey, "error", err)
		return nil, err
	}

	receipt := submit.Receipt()
	orderID := ""
	if receipt != nil {
		orderID = receipt.ID
	}

	s.logger.InfoContext(ctx, "order submitted",
		"order_id", orderID,
		"idempotency_key", idempotencyKey,
		"payment_method", form.PaymentMethod,
		"total", total.String(),
	)

	s.publishSubmitted(ctx, OrderSubmittedEvent{
		OrderID:        orderID,
		IdempotencyKey: idempotencyKey,
		PaymentMethod:  form.PaymentMethod,
		TotalPrice:     payload.TotalPrice,
		Items:          itemCount(lines),
		SubmittedAt:    time.Now().UTC(),
	})

	return s.confirmation(orderID, form.PaymentMethod), nil
}

func (s *Service) confirmation(orderID string, method entity.PaymentMethod) *entity.Confirmation {
	if method == entity.PaymentTransfer {
		c := &entity.Confirmation{
			OrderID:       orderID,
			Status:        entity.ConfirmationAwaitingPayment,
			TransferAlias: s.transfer.Alias,
			Message: fmt.Sprintf(
				"Order pending payment. To confirm it, transfer the total to alias %s and send the receipt via WhatsApp to %s.",
				s.transfer.Alias, s.transfer.WhatsApp,
			),
		}
		if s.transfer.WhatsApp != "" {
			c.ContactURL = "https://wa.me/" + s.transfer.WhatsApp
		}
		return c
	}

	return &entity.Confirmation{
		OrderID: orderID,
		Status:  entity.ConfirmationCompleted,
		Message: "Thanks for your order. We will contact you shortly to confirm the delivery.",
	}
}

// publishSubmitted is best effort; the order is already accepted.
func (s *Service) publishSubmitted(ctx context.Context, evt OrderSubmittedEvent) {
	if s.publisher == nil {
		return
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		s.logger.ErrorContext(ctx, "cannot encode order event", "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, TopicOrderSubmitted, msg); err != nil {
		s.logger.WarnContext(ctx, "order event not published", "order_id", evt.OrderID, "error", err)
	}
}

func itemCount(lines []entity.CartLine) int {
	n := 0
	for _, line := range lines {
		n += line.Quantity
	}
	return n
}
