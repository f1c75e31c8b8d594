// Package analytics contiene los casos de uso del tablero de indicadores de la
// empresa y de las métricas globales del superadministrador.
package analytics

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

const (
	dashboardTopProducts = 5
	dashboardMonths      = 6
	cacheKeyPrefix       = "dashboard:v1:"
)

var monthNames = [...]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// DashboardUseCase arma el resumen de la empresa. El resultado se guarda en caché
// por empresa durante ttl; las escrituras no lo invalidan.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	cache         ports.StatsCache
	ttl           time.Duration
	log           *logger.Logger
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, cache ports.StatsCache, ttl time.Duration, log *logger.Logger) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		cache:         cache,
		ttl:           ttl,
		log:           log.Component("dashboard"),
		now:           time.Now,
	}
}

// GetStats devuelve el resumen, desde la caché si está vigente.
//
// Consultas en paralelo:
//  1. resumen de facturas y cobros
//  2. resumen de inventario
//  3. número de clientes
//  4. facturado por mes (últimos 6 meses)
//  5. productos más vendidos del mes en curso
func (uc *DashboardUseCase) GetStats(ctx context.Context, businessID string) (*dto.DashboardStatsDTO, error) {
	key := cacheKeyPrefix + businessID
	if v, ok := uc.cache.Get(key); ok {
		if stats, ok := v.(*dto.DashboardStatsDTO); ok {
			return stats, nil
		}
	}

	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	from := monthStart.AddDate(0, -(dashboardMonths - 1), 0)

	var (
		invoices  *repository.InvoiceSummary
		inventory *repository.InventorySummary
		customers int
		monthly   []repository.MonthlyAmount
		top       []repository.TopProduct
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) (err error) {
		invoices, err = uc.analyticsRepo.GetInvoiceSummary(ctx, businessID, now)
		return errors.Wrap(err, "resumen de facturas")
	})
	p.Go(func(ctx context.Context) (err error) {
		inventory, err = uc.analyticsRepo.GetInventorySummary(ctx, businessID)
		return errors.Wrap(err, "resumen de inventario")
	})
	p.Go(func(ctx context.Context) (err error) {
		customers, err = uc.analyticsRepo.CountCustomers(ctx, businessID)
		return errors.Wrap(err, "clientes")
	})
	p.Go(func(ctx context.Context) (err error) {
		monthly, err = uc.analyticsRepo.GetMonthlyInvoiced(ctx, businessID, from)
		return errors.Wrap(err, "facturado mensual")
	})
	p.Go(func(ctx context.Context) (err error) {
		top, err = uc.analyticsRepo.GetTopProducts(ctx, businessID, monthStart, now, dashboardTopProducts)
		return errors.Wrap(err, "productos más vendidos")
	})
	if err := p.Wait(); err != nil {
		return nil, errors.Wrap(err, "dashboard")
	}

	stats := &dto.DashboardStatsDTO{
		RevenueCollected: invoices.RevenueCollected.Round(2),
		Outstanding:      invoices.Outstanding.Round(2),
		TotalInvoiced:    invoices.TotalInvoiced.Round(2),
		InvoicesByStatus: invoices.CountByStatus,
		OverdueInvoices:  invoices.OverdueCount,
		Products:         inventory.Products,
		TrackedProducts:  inventory.Tracked,
		LowStockProducts: inventory.LowStock,
		OutOfStock:       inventory.OutOfStock,
		StockValue:       inventory.StockValue.Round(2),
		Customers:        customers,
		Monthly:          fillMonths(from, dashboardMonths, monthly),
		TopProducts: lo.Map(top, func(t repository.TopProduct, _ int) dto.TopProductDTO {
			return dto.TopProductDTO{
				ProductID: t.ProductID,
				SKU:       t.SKU,
				Name:      t.Name,
				Units:     t.Units,
				Revenue:   t.Revenue.Round(2),
			}
		}),
		GeneratedAt: now,
	}
	uc.cache.Set(key, stats, uc.ttl)
	uc.log.Debug().Str("business_id", businessID).Msg("dashboard recalculado")
	return stats, nil
}

// fillMonths devuelve exactamente n meses desde from, con cero en los meses sin facturas.
func fillMonths(from time.Time, n int, rows []repository.MonthlyAmount) []dto.MonthlyDTO {
	byMonth := lo.SliceToMap(rows, func(r repository.MonthlyAmount) (string, decimal.Decimal) {
		return r.Month.Format("2006-01"), r.Total
	})
	out := make([]dto.MonthlyDTO, 0, n)
	for i := 0; i < n; i++ {
		m := from.AddDate(0, i, 0)
		k := m.Format("2006-01")
		total, ok := byMonth[k]
		if !ok {
			total = decimal.Zero
		}
		out = append(out, dto.MonthlyDTO{
			Month: k,
			Label: monthNames[m.Month()-1] + " " + m.Format("2006"),
			Total: total.Round(2),
		})
	}
	return out
}

// SystemStats métricas globales para el superadministrador. No se cachean.
func (uc *DashboardUseCase) SystemStats(ctx context.Context) (*dto.SystemStatsDTO, error) {
	s, err := uc.analyticsRepo.GetSystemStats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SystemStatsDTO{
		BusinessesByStatus: s.BusinessesByStatus,
		Users:              s.Users,
		Invoices:           s.Invoices,
		TotalInvoiced:      s.TotalInvoiced.Round(2),
	}, nil
}
