package checkout

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
)

// MaxCommentLength bounds the free-text comments, in characters.
const MaxCommentLength = 500

// ErrSubmissionInFlight is returned when the same cart is already being
// submitted.
var ErrSubmissionInFlight = errors.New("order submission already in progress")

// ValidationError is a user-facing checkout precondition failure. Nothing is
// sent to the backend when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// GeoPoint is an optional delivery location.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Form is what the customer fills in at checkout.
type Form struct {
	Name           string
	Email          string
	Address        string
	Phone          string
	Location       *GeoPoint
	PaymentMethod  entity.PaymentMethod
	CashAmount     *decimal.Decimal
	IncludeCutlery bool
	Comments       string
}

// Validate checks the checkout preconditions in order and returns the first
// failure as a *ValidationError.
func Validate(form Form, lines []entity.CartLine, total decimal.Decimal) error {
	if blank(form.Name) || blank(form.Address) || blank(form.Phone) {
		return &ValidationError{Field: "customer", Message: "please fill in name, address and phone"}
	}

	if form.PaymentMethod == "" {
		return &ValidationError{Field: "paymentMethod", Message: "please choose a payment method"}
	}
	if !form.PaymentMethod.Valid() {
		return &ValidationError{Field: "paymentMethod", Message: "unsupported payment method"}
	}

	if form.PaymentMethod == entity.PaymentCash {
		if form.CashAmount == nil {
			return &ValidationError{Field: "cashAmount", Message: "please enter how much cash you will pay with"}
		}
		if form.CashAmount.LessThan(total) {
			return &ValidationError{Field: "cashAmount", Message: "cash amount must be greater than or equal to the total"}
		}
	}

	if len(lines) == 0 {
		return &ValidationError{Field: "cart", Message: "your cart is empty"}
	}

	if utf8.RuneCountInString(form.Comments) > MaxCommentLength {
		return &ValidationError{Field: "comments", Message: "comments must be at most 500 characters"}
	}

	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
