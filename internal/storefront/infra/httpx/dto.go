package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/salad-storefront/internal/coordinator/sagalog"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/checkout"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/pricing"
)

type AddItemRequest struct {
	SaladID    string   `json:"saladId"`
	ExtraIDs   []string `json:"extraIds"`
	RemovedIDs []string `json:"removedIds"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type CheckoutRequest struct {
	Customer       CustomerDTO          `json:"customer"`
	PaymentMethod  entity.PaymentMethod `json:"paymentMethod"`
	CashAmount     *decimal.Decimal     `json:"cashAmount"`
	IncludeCutlery bool                 `json:"includeCutlery"`
	Comments       string               `json:"comments"`
}

type CustomerDTO struct {
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Address  string             `json:"address"`
	Phone    string             `json:"phone"`
	Location *checkout.GeoPoint `json:"location"`
}

type IngredientResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      entity.Category `json:"category,omitempty"`
	PriceAsExtra  float64         `json:"priceAsExtra"`
	DiscountPrice float64         `json:"discountPrice"`
}

type SaladResponse struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	Image          string               `json:"image,omitempty"`
	Type           entity.ProductType   `json:"type,omitempty"`
	Price          float64              `json:"price"`
	PriceFormatted string               `json:"priceFormatted"`
	Base           []IngredientResponse `json:"base"`
	AllowedExtras  []IngredientResponse `json:"allowedExtras"`
}

type CartLineResponse struct {
	Index              int                  `json:"index"`
	SaladID            string               `json:"saladId"`
	Name               string               `json:"name"`
	Image              string               `json:"image,omitempty"`
	Quantity           int                  `json:"quantity"`
	Extras             []IngredientResponse `json:"extras"`
	Removed            []IngredientResponse `json:"removed"`
	RemovedIngredients string               `json:"removedIngredients,omitempty"`
	UnitPrice          float64              `json:"unitPrice"`
	UnitPriceFormatted string               `json:"unitPriceFormatted"`
	LineTotal          float64              `json:"lineTotal"`
	LineTotalFormatted string               `json:"lineTotalFormatted"`
}

type CartResponse struct {
	Items          []CartLineResponse `json:"items"`
	ItemCount      int                `json:"itemCount"`
	Total          float64            `json:"total"`
	TotalFormatted string             `json:"totalFormatted"`
}

type CountResponse struct {
	ItemCount int `json:"itemCount"`
}

type CheckoutLogEntry struct {
	Status    sagalog.Status `json:"status"`
	Step      string         `json:"step,omitempty"`
	Errors    []string       `json:"errors,omitempty"`
	TraceID   string         `json:"traceId,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

func (r CheckoutRequest) toForm() checkout.Form {
	return checkout.Form{
		Name:           r.Customer.Name,
		Email:          r.Customer.Email,
		Address:        r.Customer.Address,
		Phone:          r.Customer.Phone,
		Location:       r.Customer.Location,
		PaymentMethod:  r.PaymentMethod,
		CashAmount:     r.CashAmount,
		IncludeCutlery: r.IncludeCutlery,
		Comments:       r.Comments,
	}
}

func mapIngredients(in []entity.Ingredient) []IngredientResponse {
	out := make([]IngredientResponse, len(in))
	for i, ing := range in {
		out[i] = IngredientResponse{
			ID:            ing.ID,
			Name:          ing.Name,
			Category:      ing.Category,
			PriceAsExtra:  ing.PriceAsExtra.InexactFloat64(),
			DiscountPrice: ing.DiscountPrice.InexactFloat64(),
		}
	}
	return out
}

func mapSalad(s entity.Salad) SaladResponse {
	return SaladResponse{
		ID:             s.ID,
		Name:           s.Name,
		Description:    s.Description,
		Image:          s.Image,
		Type:           s.ProductType,
		Price:          s.BasePrice.InexactFloat64(),
		PriceFormatted: pricing.FormatMoney(s.BasePrice),
		Base:           mapIngredients(s.BaseIngredients),
		AllowedExtras:  mapIngredients(s.AllowedExtras),
	}
}

func mapCart(lines []entity.CartLine) CartResponse {
	items := make([]CartLineResponse, len(lines))
	count := 0
	for i, line := range lines {
		unit := pricing.LineUnitPrice(line)
		total := pricing.LineTotal(line)
		count += line.Quantity
		items[i] = CartLineResponse{
			Index:              i,
			SaladID:            line.Product.ID,
			Name:               line.Product.Name,
			Image:              line.Product.Image,
			Quantity:           line.Quantity,
			Extras:             mapIngredients(line.SelectedExtras),
			Removed:            mapIngredients(line.RemovedIngredients),
			RemovedIngredients: line.RemovedDescription,
			UnitPrice:          unit.InexactFloat64(),
			UnitPriceFormatted: pricing.FormatMoney(unit),
			LineTotal:          total.InexactFloat64(),
			LineTotalFormatted: pricing.FormatMoney(total),
		}
	}

	total := pricing.CartTotal(lines)
	return CartResponse{
		Items:          items,
		ItemCount:      count,
		Total:          total.InexactFloat64(),
		TotalFormatted: pricing.FormatMoney(total),
	}
}

func mapLogEntry(ctx context.Context, e *sagalog.SagaLog) CheckoutLogEntry {
	var errs []string
	if err := json.Unmarshal([]byte(e.ErrorMessages), &errs); err != nil {
		slog.DebugContext(ctx, "unreadable checkout log errors", "saga_id", e.SagaID, "status", e.Status, "error", err)
		errs = nil
	}
	return CheckoutLogEntry{
		Status:    e.Status,
		Step:      e.CurrentStep,
		Errors:    errs,
		TraceID:   e.TraceID,
		UpdatedAt: e.UpdatedAt,
	}
}
