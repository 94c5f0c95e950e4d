package entity

import "github.com/shopspring/decimal"

// Category groups ingredients for display. It never affects pricing.
type Category string

const (
	CategoryBase      Category = "base"
	CategoryVegetable Category = "vegetal"
	CategoryPremium   Category = "premium"
	CategoryProtein   Category = "proteina"
	CategoryDressing  Category = "aderezo"
	CategoryExtra     Category = "extra"
)

// ProductType is the catalog filter for products.
type ProductType string

const (
	ProductSalad   ProductType = "Ensalada"
	ProductPie     ProductType = "Tarta"
	ProductDrink   ProductType = "Bebida"
	ProductDessert ProductType = "Postre"
	ProductOther   ProductType = "Otros"
)

// Ingredient is read-only catalog data. Field names on the wire follow the
// catalog backend.
type Ingredient struct {
	ID            string          `json:"_id"`
	Name          string          `json:"name"`
	PriceAsExtra  decimal.Decimal `json:"priceAsExtra"`
	DiscountPrice decimal.Decimal `json:"precioDescuento"`
	Category      Category        `json:"type"`
}

// Salad is a customizable product. A CartLine keeps its own copy so later
// catalog edits never change a line's price.
type Salad struct {
	ID              string          `json:"_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Image           string          `json:"image,omitempty"`
	BasePrice       decimal.Decimal `json:"price"`
	BaseIngredients []Ingredient    `json:"base"`
	AllowedExtras   []Ingredient    `json:"allowedExtras"`
	ProductType     ProductType     `json:"type,omitempty"`
}

// IsBase reports whether the ingredient is part of the default recipe.
func (s Salad) IsBase(ingredientID string) bool {
	for _, ing := range s.BaseIngredients {
		if ing.ID == ingredientID {
			return true
		}
	}
	return false
}

// AllowsExtra reports whether the ingredient may be added to this product.
func (s Salad) AllowsExtra(ingredientID string) bool {
	for _, ing := range s.AllowedExtras {
		if ing.ID == ingredientID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy suitable for a cart snapshot.
func (s Salad) Clone() Salad {
	out := s
	out.BaseIngredients = append([]Ingredient(nil), s.BaseIngredients...)
	out.AllowedExtras = append([]Ingredient(nil), s.AllowedExtras...)
	return out
}
