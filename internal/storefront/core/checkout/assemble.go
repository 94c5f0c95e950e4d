package checkout

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
)

// Assemble builds the order payload from validated input.
func Assemble(lines []entity.CartLine, total decimal.Decimal, form Form) entity.OrderPayload {
	cart := make([]entity.OrderLine, len(lines))
	for i, line := range lines {
		cart[i] = entity.OrderLine{
			Salad:              line.Product.ID,
			Quantity:           line.Quantity,
			RemovedIngredients: line.RemovedDescription,
			Extra:              line.ExtraIDs(),
		}
	}

	payload := entity.OrderPayload{
		Cart:       cart,
		TotalPrice: total.InexactFloat64(),
		Customer: entity.Customer{
			Name:     form.Name,
			Email:    form.Email,
			Address:  form.Address,
			Phone:    form.Phone,
			Location: formatLocation(form.Location),
		},
		PaymentMethod:  form.PaymentMethod,
		IncludeCutlery: form.IncludeCutlery,
		Comments:       form.Comments,
	}

	if form.PaymentMethod == entity.PaymentCash && form.CashAmount != nil {
		amount := form.CashAmount.InexactFloat64()
		payload.CashAmount = &amount
	}

	return payload
}

// formatLocation renders the "lat,lng" string the order backend stores.
func formatLocation(p *GeoPoint) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}
