package coordinator

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/cart"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
)

var (
	caesar = entity.Salad{ID: "salad-caesar", Name: "Caesar", BasePrice: decimal.NewFromInt(1000)}
	tart   = entity.Salad{ID: "tart-veg", Name: "Tarta", BasePrice: decimal.NewFromInt(800), ProductType: entity.ProductPie}
)

func TestClearCartStepRemovesOnlyOrderedLines(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(ctx, "steps", nil, nil)
	store.AddItem(ctx, caesar, nil, nil)
	step := NewClearCartStep(store, store.Lines())

	store.AddItem(ctx, tart, nil, nil)
	require.NoError(t, step.Execute(ctx))

	require.Len(t, store.Lines(), 1)
	assert.Equal(t, tart.ID, store.Lines()[0].Product.ID)
}

func TestClearCartStepCompensatedByLaterFailure(t *testing.T) {
	ctx := context.Background()
	store := cart.NewStore(ctx, "steps", nil, nil)
	store.AddItem(ctx, caesar, nil, nil)
	store.AddItem(ctx, caesar, nil, nil)

	var trail []string
	boom := errors.New("boom")
	steps := []Step{
		NewClearCartStep(store, store.Lines()),
		&fakeStep{name: "notify", trail: &trail, execErr: boom},
	}

	err := NewOrchestrator("saga-4", steps, nil).Start(ctx)

	require.ErrorIs(t, err, boom)
	require.Len(t, store.Lines(), 1)
	assert.Equal(t, 2, store.ItemCount())
}
