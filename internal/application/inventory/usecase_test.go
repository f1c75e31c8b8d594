package inventory

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/testutil"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

func newUseCase(s *testutil.Store) *StockUseCase {
	r := s.Repos()
	return NewStockUseCase(s, r.Products, r.Movements, logger.Nop())
}

func TestAddStock_RegistraEntrada(t *testing.T) {
	s := testutil.NewStore()
	b := s.SeedBusiness("Ferretería")
	p := s.SeedProduct(b.ID, "TOR-1", "10", 5, true)
	uc := newUseCase(s)

	out, err := uc.AddStock(context.Background(), b.ID, "u1", dto.AddStockRequest{ProductID: p.ID, Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, 12, out.Product.StockQuantity)
	require.NotNil(t, out.Movement)
	assert.Equal(t, entity.MovementTypeIn, out.Movement.Type)
	assert.Equal(t, 7, out.Movement.Quantity)
	assert.Equal(t, 5, out.Movement.PreviousQty)
	assert.Equal(t, 12, out.Movement.NewQty)
	assert.Equal(t, "reposición", out.Movement.Reason)
	require.NotNil(t, out.Movement.CreatedBy)
	assert.Equal(t, "u1", *out.Movement.CreatedBy)

	assert.Equal(t, 12, s.Product(p.ID).StockQuantity)
	assert.Len(t, s.Movements(), 1)
}

func TestAddStock_ActualizaCostoPromedio(t *testing.T) {
	s := testutil.NewStore()
	b := s.SeedBusiness("Ferretería")
	p := s.SeedProduct(b.ID, "TOR-1", "10", 0, true)
	uc := newUseCase(s)

	c1 := decimal.NewFromInt(4)
	_, err := uc.AddStock(context.Background(), b.ID, "", dto.AddStockRequest{ProductID: p.ID, Quantity: 10, UnitCost: &c1})
	require.NoError(t, err)
	c2 := decimal.NewFromInt(6)
	out, err := uc.AddStock(context.Background(), b.ID, "", dto.AddStockRequest{ProductID: p.ID, Quantity: 10, UnitCost: &c2})
	require.NoError(t, err)
	require.NotNil(t, out.Product.UnitCost)
	assert.True(t, out.Product.UnitCost.Equal(decimal.NewFromInt(5)))
}

func TestRemoveStock_SinExistenciaNoEscribe(t *testing.T) {
	s := testutil.NewStore()
	b := s.SeedBusiness("Ferretería")
	p := s.SeedProduct(b.ID, "TOR-1", "10", 3, true)
	uc := newUseCase(s)

	_, err := uc.RemoveStock(context.Background(), b.ID, "", dto.AddStockRequest{ProductID: p.ID, Quantity: 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 3, s.Product(p.ID).StockQuantity)
	assert.Empty(t, s.Movements())
}

func TestAdjustStock_ValorAbsoluto(t *testing.T) {
	s := testutil.NewStore()
	b := s.SeedBusiness("Ferretería")
	p := s.SeedProduct(b.ID, "TOR-1", "10", 10, true)
	uc := newUseCase(s)

	n := 4
	out, err := uc.AdjustStock(context.Background(), b.ID, "", dto.AdjustStockRequest{ProductID: p.ID, NewQuantity: &n})
	require.NoError(t, err)
	assert.Equal(t, 4, out.Product.StockQuantity)
	assert.Equal(t, entity.MovementTypeAdjustment, out.Movement.Type)
	assert.Equal(t, 6, out.Movement.Quantity)
	assert.Equal(t, 10, out.Movement.PreviousQty)
	assert.Equal(t, 4, out.Movement.NewQty)
}

func TestStock_ProductoSinControlEsNoOp(t *testing.T) {
	s := testutil.NewStore()
	b := s.SeedBusiness("Consultora")
	p := s.SeedProduct(b.ID, "HORA", "50", 0, false)
	uc := newUseCase(s)

	out, err := uc.RemoveStock(context.Background(), b.ID, "", dto.AddStockRequest{ProductID: p.ID, Quantity: 100})
	require.NoError(t, err)
	assert.Nil(t, out.Movement)
	assert.Equal(t, 0, out.Product.StockQuantity)
	assert.Empty(t, s.Movements())
}

func TestStock_OtraEmpresaNoEncuentraProducto(t *testing.T) {
	s := testutil.NewStore()
	b1 := s.SeedBusiness("A")
	b2 := s.SeedBusiness("B")
	p := s.SeedProduct(b1.ID, "TOR-1", "10", 10, true)
	uc := newUseCase(s)

	_, err := uc.AddStock(context.Background(), b2.ID, "", dto.AddStockRequest{ProductID: p.ID, Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 10, s.Product(p.ID).StockQuantity)
}

func TestStock_FalloDeAlmacenamientoHaceRollback(t *testing.T) {
	s := testutil.NewStore()
	b := s.SeedBusiness("Ferretería")
	p := s.SeedProduct(b.ID, "TOR-1", "10", 10, true)
	uc := newUseCase(s)
	s.FailOn("movements.create", errors.New("conexión perdida"))

	_, err := uc.AddStock(context.Background(), b.ID, "", dto.AddStockRequest{ProductID: p.ID, Quantity: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransactionFailure))
	assert.Equal(t, 10, s.Product(p.ID).StockQuantity)
}

func TestStock_DeltaDelKardexCoincideConLaExistencia(t *testing.T) {
	s := testutil.NewStore()
	b := s.SeedBusiness("Ferretería")
	p := s.SeedProduct(b.ID, "TOR-1", "10", 20, true)
	uc := newUseCase(s)
	ctx := context.Background()

	n := 13
	_, err := uc.AddStock(ctx, b.ID, "", dto.AddStockRequest{ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)
	_, err = uc.RemoveStock(ctx, b.ID, "", dto.AddStockRequest{ProductID: p.ID, Quantity: 8})
	require.NoError(t, err)
	_, err = uc.AdjustStock(ctx, b.ID, "", dto.AdjustStockRequest{ProductID: p.ID, NewQuantity: &n})
	require.NoError(t, err)
	_, err = uc.RemoveStock(ctx, b.ID, "", dto.AddStockRequest{ProductID: p.ID, Quantity: 50})
	require.Error(t, err)

	stock := 20
	for _, m := range s.Movements() {
		assert.Equal(t, stock, m.PreviousQty)
		switch m.Type {
		case entity.MovementTypeIn:
			assert.Equal(t, m.PreviousQty+m.Quantity, m.NewQty)
		case entity.MovementTypeOut:
			assert.Equal(t, m.PreviousQty-m.Quantity, m.NewQty)
			assert.GreaterOrEqual(t, m.NewQty, 0)
		case entity.MovementTypeAdjustment:
			assert.Equal(t, abs(m.NewQty-m.PreviousQty), m.Quantity)
		}
		stock += m.Delta()
	}
	assert.Equal(t, stock, s.Product(p.ID).StockQuantity)
	assert.Equal(t, 13, stock)
}

func TestListMovements_MasRecientePrimero(t *testing.T) {
	s := testutil.NewStore()
	b := s.SeedBusiness("Ferretería")
	p := s.SeedProduct(b.ID, "TOR-1", "10", 0, true)
	uc := newUseCase(s)
	ctx := context.Background()

	for _, q := range []int{1, 2, 3} {
		_, err := uc.AddStock(ctx, b.ID, "", dto.AddStockRequest{ProductID: p.ID, Quantity: q})
		require.NoError(t, err)
	}

	out, err := uc.ListMovements(ctx, b.ID, p.ID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Movements, 3)
	assert.Equal(t, 3, out.Movements[0].Quantity)
	assert.Equal(t, 1, out.Movements[2].Quantity)

	_, err = uc.ListMovements(ctx, b.ID, uuid.New().String(), dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListInventory_Idempotente(t *testing.T) {
	s := testutil.NewStore()
	b := s.SeedBusiness("Ferretería")
	s.SeedProduct(b.ID, "A", "1", 3, true)
	s.SeedProduct(b.ID, "B", "1", 0, true)
	s.SeedProduct(b.ID, "SERV", "1", 0, false)
	uc := newUseCase(s)

	first, err := uc.ListInventory(context.Background(), b.ID, dto.PageRequest{}, false)
	require.NoError(t, err)
	second, err := uc.ListInventory(context.Background(), b.ID, dto.PageRequest{}, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first.Items, 2)
	assert.Equal(t, 2, first.Page.Total)
}

func TestReplenishmentSuggestions(t *testing.T) {
	s := testutil.NewStore()
	b := s.SeedBusiness("Ferretería")
	p := s.SeedProduct(b.ID, "A", "1", 2, true)
	s.SeedProduct(b.ID, "B", "1", 50, true)
	threshold := 10
	prod := s.Product(p.ID)
	prod.LowStockThreshold = &threshold
	require.NoError(t, s.Repos().Products.Update(context.Background(), prod))

	out, err := newUseCase(s).ReplenishmentSuggestions(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 15, out[0].IdealStock)
	assert.Equal(t, 13, out[0].SuggestedOrderQty)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
