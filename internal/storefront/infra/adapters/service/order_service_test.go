package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/salad-storefront/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
)

func samplePayload() entity.OrderPayload {
	return entity.OrderPayload{
		Cart:          []entity.OrderLine{{Salad: "salad-caesar", Quantity: 2, Extra: []string{"ing-chicken"}}},
		TotalPrice:    2100,
		Customer:      entity.Customer{Name: "Ana", Address: "Av. Belgrano 123", Phone: "3875550000"},
		PaymentMethod: entity.PaymentTransfer,
	}
}

func TestHTTPOrderServiceSubmits(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		gotHeaders = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id": "65f0c0ffee"}`))
	}))
	t.Cleanup(srv.Close)

	ctx := context.WithValue(context.Background(), constants.ContextKeyRequestID, "req-1")
	receipt, err := NewHTTPOrderService(srv.URL, time.Second).SubmitOrder(ctx, "key-1", samplePayload())

	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee", receipt.ID)
	assert.Equal(t, "key-1", gotHeaders.Get(constants.HeaderXIdempotencyKey))
	assert.Equal(t, "req-1", gotHeaders.Get(constants.HeaderXRequestId))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, 2100.0, gotBody["totalPrice"])
	assert.Equal(t, "Transfer", gotBody["paymentMethod"])
	assert.NotContains(t, gotBody, "cashAmount")
}

func TestHTTPOrderServiceBackendErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "errorField", status: http.StatusBadRequest, body: `{"error": "salad out of stock", "message": "ignored"}`, wantMsg: "salad out of stock"},
		{name: "messageField", status: http.StatusConflict, body: `{"message": "duplicate order"}`, wantMsg: "duplicate order"},
		{name: "emptyObject", status: http.StatusInternalServerError, body: `{}`, wantMsg: fallbackErrorMessage},
		{name: "notJSON", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMsg: fallbackErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			_, err := NewHTTPOrderService(srv.URL, time.Second).SubmitOrder(context.Background(), "k", samplePayload())

			var berr *ports.BackendError
			require.ErrorAs(t, err, &berr)
			assert.Equal(t, tt.status, berr.StatusCode)
			assert.Equal(t, tt.wantMsg, berr.Message)
		})
	}
}

func TestHTTPOrderServiceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPOrderService(url, time.Second).SubmitOrder(context.Background(), "k", samplePayload())

	var berr *ports.BackendError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 0, berr.StatusCode)
}

func TestParseReceipt(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{body: ``, want: ""},
		{body: `{"id": "a"}`, want: "a"},
		{body: `{"_id": "b"}`, want: "b"},
		{body: `{"orderId": "c"}`, want: "c"},
		{body: `{"order": {"_id": "d"}}`, want: "d"},
		{body: `"ok"`, want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseReceipt([]byte(tt.body)).ID, tt.body)
	}
}

func TestFakeOrderServiceAcceptsEverything(t *testing.T) {
	receipt, err := NewFakeOrderService().SubmitOrder(context.Background(), "k", samplePayload())
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ID)
}
