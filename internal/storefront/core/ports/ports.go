package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
)

// CatalogSource provides the read-only product and ingredient catalog.
type CatalogSource interface {
	Salads(ctx context.Context, productType entity.ProductType) ([]entity.Salad, error)
	Salad(ctx context.Context, id string) (*entity.Salad, error)
	Ingredients(ctx context.Context) ([]entity.Ingredient, error)
}

// ErrProductNotFound is returned by CatalogSource.Salad for unknown IDs.
var ErrProductNotFound = errors.New("product not found")

// CartStorage persists one serialized cart per key. Load returns a nil slice
// and no error when nothing is stored under key.
type CartStorage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// OrderService submits assembled orders to the order backend.
type OrderService interface {
	SubmitOrder(ctx context.Context, idempotencyKey string, payload entity.OrderPayload) (*entity.OrderReceipt, error)
}

// EventPublisher publishes domain events. Implementations must be safe for
// concurrent use.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, msg []byte) error
}

// BackendError carries the message returned by the order backend.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}
