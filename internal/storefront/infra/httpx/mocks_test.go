package httpx

import (
	"context"
	"fmt"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
)

// MockCatalog serves a fixed catalog.
type MockCatalog struct {
	SaladList      []entity.Salad
	IngredientList []entity.Ingredient
	Err            error
}

func (m *MockCatalog) Salads(ctx context.Context, productType entity.ProductType) ([]entity.Salad, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entity.Salad
	for _, s := range m.SaladList {
		if productType == "" || s.ProductType == productType {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockCatalog) Salad(ctx context.Context, id string) (*entity.Salad, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, s := range m.SaladList {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ports.ErrProductNotFound, id)
}

func (m *MockCatalog) Ingredients(ctx context.Context) ([]entity.Ingredient, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.IngredientList, nil
}

// MockOrderService accepts orders unless Err is set.
type MockOrderService struct {
	Err   error
	Calls int
	Key   string
}

func (m *MockOrderService) SubmitOrder(ctx context.Context, key string, payload entity.OrderPayload) (*entity.OrderReceipt, error) {
	m.Calls++
	m.Key = key
	if m.Err != nil {
		return nil, m.Err
	}
	return &entity.OrderReceipt{ID: "order-1"}, nil
}
