package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/cache"
	"github.com/jhoicas/facturacion-api/internal/testutil"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

func seedInvoice(t *testing.T, s *testutil.Store, businessID, customerID, productID string, total string, status string, issued time.Time) {
	t.Helper()
	amount := decimal.RequireFromString(total)
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		BusinessID:    businessID,
		CustomerID:    customerID,
		InvoiceNumber: uuid.New().String()[:8],
		IssueDate:     issued,
		DueDate:       issued.AddDate(0, 0, 30),
		Subtotal:      amount,
		TotalAmount:   amount,
		BalanceDue:    amount,
		Status:        status,
		CreatedAt:     issued,
		Items: []*entity.InvoiceItem{{
			ID:        uuid.New().String(),
			ProductID: &productID,
			Quantity:  2,
			UnitPrice: amount.Div(decimal.NewFromInt(2)),
			Amount:    amount,
		}},
	}
	require.NoError(t, s.Repos().Invoices.Create(context.Background(), inv))
}

func TestGetStats_Agregados(t *testing.T) {
	s := testutil.NewStore()
	b := s.SeedBusiness("Tienda")
	c := s.SeedCustomer(b.ID, "Cliente")
	p := s.SeedProduct(b.ID, "A", "50", 3, true)
	now := time.Now()
	seedInvoice(t, s, b.ID, c.ID, p.ID, "100", entity.InvoiceStatusSent, now)
	seedInvoice(t, s, b.ID, c.ID, p.ID, "40", entity.InvoiceStatusVoid, now)

	uc := NewDashboardUseCase(s.Analytics(), cache.NoopCache{}, time.Minute, logger.Nop())
	stats, err := uc.GetStats(context.Background(), b.ID)
	require.NoError(t, err)

	assert.True(t, stats.TotalInvoiced.Equal(decimal.NewFromInt(100)))
	assert.True(t, stats.Outstanding.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 1, stats.InvoicesByStatus[entity.InvoiceStatusSent])
	assert.Equal(t, 1, stats.InvoicesByStatus[entity.InvoiceStatusVoid])
	assert.Equal(t, 1, stats.Products)
	assert.Equal(t, 1, stats.Customers)

	require.Len(t, stats.Monthly, 6)
	last := stats.Monthly[5]
	assert.Equal(t, now.Format("2006-01"), last.Month)
	assert.True(t, last.Total.Equal(decimal.NewFromInt(100)))
	assert.True(t, stats.Monthly[0].Total.IsZero())

	require.Len(t, stats.TopProducts, 1)
	assert.Equal(t, p.ID, stats.TopProducts[0].ProductID)
	assert.Equal(t, 2, stats.TopProducts[0].Units)
}

func TestGetStats_UsaCache(t *testing.T) {
	s := testutil.NewStore()
	b := s.SeedBusiness("Tienda")
	repo := s.Analytics()
	uc := NewDashboardUseCase(repo, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, logger.Nop())

	first, err := uc.GetStats(context.Background(), b.ID)
	require.NoError(t, err)
	s.SeedCustomer(b.ID, "Nuevo")
	second, err := uc.GetStats(context.Background(), b.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.Calls)
	assert.Same(t, first, second)
	assert.Equal(t, 0, second.Customers)

	other := s.SeedBusiness("Otra")
	_, err = uc.GetStats(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Calls)
}

func TestFillMonths_Etiquetas(t *testing.T) {
	from := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	out := fillMonths(from, 3, nil)
	require.Len(t, out, 3)
	assert.Equal(t, "2025-11", out[0].Month)
	assert.Equal(t, "Nov 2025", out[0].Label)
	assert.Equal(t, "2026-01", out[2].Month)
	assert.Equal(t, "Ene 2026", out[2].Label)
}

func TestSystemStats(t *testing.T) {
	s := testutil.NewStore()
	s.SeedBusiness("Una")
	s.SeedBusiness("Dos")
	uc := NewDashboardUseCase(s.Analytics(), cache.NoopCache{}, time.Minute, logger.Nop())

	out, err := uc.SystemStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, out.BusinessesByStatus[entity.BusinessStatusApproved])
	assert.True(t, out.TotalInvoiced.IsZero())
}
