package inventory

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

func product(stock int) *entity.Product {
	return &entity.Product{ID: "p1", Name: "Tornillo", TrackInventory: true, StockQuantity: stock}
}

func TestApply_EntradaSuma(t *testing.T) {
	r, err := Apply(product(4), Change{Type: entity.MovementTypeIn, Quantity: 6})
	require.NoError(t, err)
	assert.Equal(t, Result{PreviousQty: 4, NewQty: 10, Quantity: 6}, r)
}

func TestApply_SalidaExactaDejaCero(t *testing.T) {
	r, err := Apply(product(10), Change{Type: entity.MovementTypeOut, Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, r.NewQty)
	assert.Equal(t, -10, r.NewQty-r.PreviousQty)
}

func TestApply_SalidaSinStock(t *testing.T) {
	_, err := Apply(product(10), Change{Type: entity.MovementTypeOut, Quantity: 11})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	require.Len(t, ise.Items, 1)
	assert.Equal(t, 11, ise.Items[0].Requested)
	assert.Equal(t, 10, ise.Items[0].Available)
}

func TestApply_AjusteRegistraMagnitud(t *testing.T) {
	r, err := Apply(product(10), Change{Type: entity.MovementTypeAdjustment, Target: 7})
	require.NoError(t, err)
	assert.Equal(t, Result{PreviousQty: 10, NewQty: 7, Quantity: 3}, r)

	r, err = Apply(product(10), Change{Type: entity.MovementTypeAdjustment, Target: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, r.Quantity)
}

func TestApply_Invalidos(t *testing.T) {
	cases := []Change{
		{Type: entity.MovementTypeIn, Quantity: 0},
		{Type: entity.MovementTypeOut, Quantity: -1},
		{Type: entity.MovementTypeAdjustment, Target: -5},
		{Type: "transfer", Quantity: 1},
	}
	for _, c := range cases {
		_, err := Apply(product(3), c)
		assert.True(t, errors.Is(err, domain.ErrValidation), "%+v", c)
	}
}

func TestWeightedAverageCost(t *testing.T) {
	cur := decimal.NewFromInt(10)
	got := WeightedAverageCost(10, &cur, 10, decimal.NewFromInt(20))
	assert.True(t, got.Equal(decimal.NewFromInt(15)), got.String())

	got = WeightedAverageCost(0, nil, 5, decimal.RequireFromString("3.5"))
	assert.True(t, got.Equal(decimal.RequireFromString("3.5")))
}
