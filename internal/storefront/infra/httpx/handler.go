package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/salad-storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/salad-storefront/internal/pkg/interceptors/constants"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/cart"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/checkout"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/pricing"
)

// Handler serves the catalog, the session cart and checkout.
type Handler struct {
	catalog  ports.CatalogSource
	carts    *cart.Registry
	checkout *checkout.Service
	history  sagalog.Reader // nil-safe: the checkout log endpoint answers 404
}

// NewHandler wires the handler. history may be nil when no checkout log is
// kept.
func NewHandler(catalog ports.CatalogSource, carts *cart.Registry, checkoutSvc *checkout.Service, history sagalog.Reader) *Handler {
	return &Handler{
		catalog:  catalog,
		carts:    carts,
		checkout: checkoutSvc,
		history:  history,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListSalads returns the catalog, optionally filtered by ?type=.
func (h *Handler) ListSalads(w http.ResponseWriter, r *http.Request) {
	productType := entity.ProductType(r.URL.Query().Get("type"))

	salads, err := h.catalog.Salads(r.Context(), productType)
	if err != nil {
		slog.ErrorContext(r.Context(), "catalog unavailable", "error", err)
		writeError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
		return
	}

	out := make([]SaladResponse, len(salads))
	for i, s := range salads {
		out[i] = mapSalad(s)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.catalog.Ingredients(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "catalog unavailable", "error", err)
		writeError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapIngredients(ingredients))
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mapCart(h.store(r).Lines()))
}

func (h *Handler) CartCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CountResponse{ItemCount: h.store(r).ItemCount()})
}

// AddItem resolves the product and the chosen ingredients from the catalog,
// validates them against the recipe and adds one unit to the cart.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.SaladID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "saladId is required")
		return
	}

	product, err := h.catalog.Salad(r.Context(), req.SaladID)
	if errors.Is(err, ports.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "catalog unavailable", "error", err)
		writeError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
		return
	}

	extras := pick(product.AllowedExtras, req.ExtraIDs)
	removed := pick(product.BaseIngredients, req.RemovedIDs)
	if err := pricing.ValidateSelection(*product, extras, removed); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_selection", err.Error())
		return
	}

	store := h.store(r)
	index := store.AddItem(r.Context(), *product, extras, removed)
	slog.DebugContext(r.Context(), "item added to cart", "salad_id", product.ID, "line", index)

	writeJSON(w, http.StatusCreated, mapCart(store.Lines()))
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "quantity is required")
		return
	}

	store := h.store(r)
	if err := store.SetQuantity(r.Context(), index, *req.Quantity); err != nil {
		writeLineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(store.Lines()))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}

	store := h.store(r)
	if err := store.RemoveItem(r.Context(), index); err != nil {
		writeLineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(store.Lines()))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store := h.store(r)
	store.Clear(r.Context())
	writeJSON(w, http.StatusOK, mapCart(store.Lines()))
}

// Checkout submits the session cart. The cart is emptied only when the
// order backend accepts the order.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	// Use comma-ok idiom to safely extract typed context values.
	idempKey, _ := r.Context().Value(constants.ContextKeyIdempotencyKey).(string)
	requestID, _ := r.Context().Value(constants.ContextKeyRequestID).(string)

	slog.InfoContext(r.Context(), "checkout requested", "request_id", requestID, "payment_method", req.PaymentMethod)

	confirmation, err := h.checkout.Checkout(r.Context(), h.store(r), req.toForm(), idempKey)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, confirmation)
}

// CheckoutLog returns the recorded transitions of one checkout, keyed by its
// idempotency key.
func (h *Handler) CheckoutLog(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if h.history == nil {
		writeError(w, http.StatusNotFound, "checkout_log_disabled", "")
		return
	}

	entries, err := h.history.History(r.Context(), key)
	if err != nil {
		slog.ErrorContext(r.Context(), "checkout log unavailable", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, "checkout_not_found", key)
		return
	}

	out := make([]CheckoutLogEntry, len(entries))
	for i, e := range entries {
		out[i] = mapLogEntry(r.Context(), e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) store(r *http.Request) *cart.Store {
	sessionID, _ := r.Context().Value(constants.ContextKeySessionID).(string)
	return h.carts.Store(r.Context(), sessionID)
}

// pick returns the ingredients of pool matching ids, in ids order. IDs
// absent from pool are kept as bare references so validation can reject
// them by ID.
func pick(pool []entity.Ingredient, ids []string) []entity.Ingredient {
	out := make([]entity.Ingredient, 0, len(ids))
	for _, id := range ids {
		ing := entity.Ingredient{ID: id}
		for _, candidate := range pool {
			if candidate.ID == id {
				ing = candidate
				break
			}
		}
		out = append(out, ing)
	}
	return out
}

func lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_index", "index must be an integer")
		return 0, false
	}
	return index, true
}

func writeLineError(w http.ResponseWriter, err error) {
	if errors.Is(err, cart.ErrLineNotFound) {
		writeError(w, http.StatusNotFound, "line_not_found", err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

func writeCheckoutError(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	var berr *ports.BackendError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_failed",
			Message: verr.Message,
			Field:   verr.Field,
		})
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		writeError(w, http.StatusConflict, "submission_in_progress", err.Error())
	case errors.As(err, &berr):
		writeError(w, http.StatusBadGateway, "order_service_error", berr.Message)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
