package entity

import "sort"

// CartLine is one distinct configuration of a product with its quantity.
// The JSON shape is the persisted cart record.
type CartLine struct {
	Product            Salad        `json:"salad"`
	Quantity           int          `json:"quantity"`
	SelectedExtras     []Ingredient `json:"extra"`
	RemovedIngredients []Ingredient `json:"removed"`
	RemovedDescription string       `json:"removedIngredients"`
}

// ExtraIDs returns the IDs of the selected extras in selection order.
func (l CartLine) ExtraIDs() []string {
	ids := make([]string, len(l.SelectedExtras))
	for i, ing := range l.SelectedExtras {
		ids[i] = ing.ID
	}
	return ids
}

// SameConfiguration reports whether an add-to-cart for product with the
// given extras and removed description must merge into this line.
func (l CartLine) SameConfiguration(productID string, extras []Ingredient, removedDescription string) bool {
	if l.Product.ID != productID || l.RemovedDescription != removedDescription {
		return false
	}
	if len(l.SelectedExtras) != len(extras) {
		return false
	}

	a := l.ExtraIDs()
	b := make([]string, len(extras))
	for i, ing := range extras {
		b[i] = ing.ID
	}
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
