package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/salad-storefront/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
)

// fallbackErrorMessage is used when the backend error body has no message.
const fallbackErrorMessage = "server error"

// HTTPOrderService is the adapter that posts orders to the order backend.
type HTTPOrderService struct {
	baseURL string
	client  *http.Client
}

// NewHTTPOrderService returns the HTTP adapter behind the port.
func NewHTTPOrderService(baseURL string, timeout time.Duration) ports.OrderService {
	return &HTTPOrderService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

var _ ports.OrderService = (*HTTPOrderService)(nil)

type receiptBody struct {
	ID       string `json:"id"`
	MongoID  string `json:"_id"`
	OrderID  string `json:"orderId"`
	Envelope *struct {
		ID      string `json:"id"`
		MongoID string `json:"_id"`
	} `json:"order"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SubmitOrder posts payload to /orders. Any non-2xx answer is returned as a
// *ports.BackendError carrying the backend's message.
func (s *HTTPOrderService) SubmitOrder(ctx context.Context, idempotencyKey string, payload entity.OrderPayload) (*entity.OrderReceipt, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if idempotencyKey != "" {
		req.Header.Set(constants.HeaderXIdempotencyKey, idempotencyKey)
	}
	// Use comma-ok idiom to safely extract typed context values.
	if requestID, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok && requestID != "" {
		req.Header.Set(constants.HeaderXRequestId, requestID)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "order backend unreachable", "error", err)
		return nil, &ports.BackendError{Message: "order service unavailable"}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read order response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ports.BackendError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	return parseReceipt(raw), nil
}

// errorMessage picks "error", then "message", then a generic fallback.
func errorMessage(raw []byte) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		return fallbackErrorMessage
	}
	if eb.Error != "" {
		return eb.Error
	}
	if eb.Message != "" {
		return eb.Message
	}
	return fallbackErrorMessage
}

// parseReceipt accepts an empty body; the order is accepted either way.
func parseReceipt(raw []byte) *entity.OrderReceipt {
	var rb receiptBody
	if len(bytes.TrimSpace(raw)) == 0 || json.Unmarshal(raw, &rb) != nil {
		return &entity.OrderReceipt{}
	}

	for _, id := range []string{rb.ID, rb.MongoID, rb.OrderID} {
		if id != "" {
			return &entity.OrderReceipt{ID: id}
		}
	}
	if rb.Envelope != nil {
		if rb.Envelope.ID != "" {
			return &entity.OrderReceipt{ID: rb.Envelope.ID}
		}
		return &entity.OrderReceipt{ID: rb.Envelope.MongoID}
	}
	return &entity.OrderReceipt{}
}
