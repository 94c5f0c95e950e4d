package catalog

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
)

// placeholderName is shown for ingredients the catalog no longer lists.
const placeholderName = "Ingrediente"

// ingredientRef is a salad's reference to an ingredient: either a bare ID or
// an embedded ingredient object.
type ingredientRef struct {
	id       string
	embedded *entity.Ingredient
}

func (r *ingredientRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.id)
	}

	var ing entity.Ingredient
	if err := json.Unmarshal(data, &ing); err != nil {
		return err
	}
	r.id = ing.ID
	r.embedded = &ing
	return nil
}

type saladDoc struct {
	ID            string             `json:"_id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Image         string             `json:"image"`
	Price         decimal.Decimal    `json:"price"`
	Base          []ingredientRef    `json:"base"`
	AllowedExtras []ingredientRef    `json:"allowedExtras"`
	Extras        []ingredientRef    `json:"extras"`
	Type          entity.ProductType `json:"type"`
}

// toSalad resolves ingredient references against the active ingredient
// list. Active data wins over embedded objects; unknown IDs become a zero
// priced placeholder so the product can still be shown.
func (d saladDoc) toSalad(active map[string]entity.Ingredient) entity.Salad {
	extras := d.AllowedExtras
	if len(extras) == 0 {
		extras = d.Extras
	}

	return entity.Salad{
		ID:              d.ID,
		Name:            d.Name,
		Description:     d.Description,
		Image:           d.Image,
		BasePrice:       d.Price,
		BaseIngredients: resolveRefs(d.Base, active),
		AllowedExtras:   resolveRefs(extras, active),
		ProductType:     d.Type,
	}
}

func resolveRefs(refs []ingredientRef, active map[string]entity.Ingredient) []entity.Ingredient {
	out := make([]entity.Ingredient, 0, len(refs))
	for _, ref := range refs {
		if ing, ok := active[ref.id]; ok {
			out = append(out, ing)
			continue
		}
		if ref.embedded != nil {
			out = append(out, *ref.embedded)
			continue
		}
		out = append(out, entity.Ingredient{ID: ref.id, Name: placeholderName})
	}
	return out
}
