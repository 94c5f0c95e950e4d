// Package pricing computes cart prices. All functions are pure.
//
// A line's unit price is the product base price plus the price of every
// selected extra minus the discount of every removed base ingredient. The
// result is not clamped: discounts larger than base plus extras yield a
// negative unit price.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
)

var (
	ErrExtraNotAllowed    = errors.New("extra not allowed for product")
	ErrExtraIsBase        = errors.New("extra already part of the base recipe")
	ErrNotBaseIngredient  = errors.New("removed ingredient is not part of the base recipe")
	ErrDuplicateSelection = errors.New("ingredient selected more than once")
)

// LineUnitPrice returns the price of a single unit of line.
func LineUnitPrice(line entity.CartLine) decimal.Decimal {
	price := line.Product.BasePrice
	for _, extra := range line.SelectedExtras {
		price = price.Add(extra.PriceAsExtra)
	}
	for _, removed := range line.RemovedIngredients {
		price = price.Sub(removed.DiscountPrice)
	}
	return price
}

// LineTotal returns the unit price multiplied by the line quantity.
func LineTotal(line entity.CartLine) decimal.Decimal {
	return LineUnitPrice(line).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// CartTotal returns the sum of every line total.
func CartTotal(lines []entity.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineTotal(line))
	}
	return total
}

// ValidateSelection checks a customization against the product recipe before
// it reaches the cart.
func ValidateSelection(product entity.Salad, extras, removed []entity.Ingredient) error {
	seen := make(map[string]struct{}, len(extras)+len(removed))

	for _, ing := range extras {
		if _, dup := seen[ing.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSelection, ing.ID)
		}
		seen[ing.ID] = struct{}{}

		if product.IsBase(ing.ID) {
			return fmt.Errorf("%w: %s", ErrExtraIsBase, ing.ID)
		}
		if !product.AllowsExtra(ing.ID) {
			return fmt.Errorf("%w: %s", ErrExtraNotAllowed, ing.ID)
		}
	}

	for _, ing := range removed {
		if _, dup := seen[ing.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSelection, ing.ID)
		}
		seen[ing.ID] = struct{}{}

		if !product.IsBase(ing.ID) {
			return fmt.Errorf("%w: %s", ErrNotBaseIngredient, ing.ID)
		}
	}

	return nil
}

// RemovedDescription renders the free-text "Sin: a, b" note sent with an
// order line. Names follow the base recipe order, so the same set of
// removals always produces the same text.
func RemovedDescription(product entity.Salad, removed []entity.Ingredient) string {
	if len(removed) == 0 {
		return ""
	}

	ids := make(map[string]struct{}, len(removed))
	for _, ing := range removed {
		ids[ing.ID] = struct{}{}
	}

	names := make([]string, 0, len(removed))
	for _, ing := range product.BaseIngredients {
		if _, ok := ids[ing.ID]; ok {
			names = append(names, ing.Name)
			delete(ids, ing.ID)
		}
	}
	// Not in the recipe; keep caller order after the known ones.
	for _, ing := range removed {
		if _, ok := ids[ing.ID]; ok {
			names = append(names, ing.Name)
		}
	}

	return "Sin: " + strings.Join(names, ", ")
}
