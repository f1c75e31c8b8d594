package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo calcula los agregados del dashboard sobre el almacén en memoria.
// Calls cuenta las consultas de resumen para verificar la caché.
type AnalyticsRepo struct {
	s     *Store
	Calls int
}

// Analytics devuelve el repositorio de analítica del almacén.
func (s *Store) Analytics() *AnalyticsRepo {
	return &AnalyticsRepo{s: s}
}

func (r *AnalyticsRepo) GetInvoiceSummary(_ context.Context, businessID string, now time.Time) (*repository.InvoiceSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	r.Calls++
	out := &repository.InvoiceSummary{
		CountByStatus:    map[string]int{},
		TotalInvoiced:    decimal.Zero,
		RevenueCollected: decimal.Zero,
		Outstanding:      decimal.Zero,
	}
	for _, inv := range r.s.invoices {
		if inv.BusinessID != businessID {
			continue
		}
		out.CountByStatus[inv.Status]++
		if inv.Status == entity.InvoiceStatusVoid {
			continue
		}
		out.TotalInvoiced = out.TotalInvoiced.Add(inv.TotalAmount)
		out.Outstanding = out.Outstanding.Add(inv.BalanceDue)
		if inv.BalanceDue.IsPositive() && (inv.Status == entity.InvoiceStatusOverdue || inv.DueDate.Before(now)) {
			out.OverdueCount++
		}
	}
	for _, p := range r.s.payments {
		if p.BusinessID == businessID {
			out.RevenueCollected = out.RevenueCollected.Add(p.Amount)
		}
	}
	return out, nil
}

func (r *AnalyticsRepo) GetInventorySummary(_ context.Context, businessID string) (*repository.InventorySummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := &repository.InventorySummary{StockValue: decimal.Zero}
	for _, p := range r.s.products {
		if p.BusinessID != businessID {
			continue
		}
		out.Products++
		if !p.TrackInventory {
			continue
		}
		out.Tracked++
		if p.IsLowStock() {
			out.LowStock++
		}
		if p.StockQuantity == 0 {
			out.OutOfStock++
		}
		if p.UnitCost != nil {
			out.StockValue = out.StockValue.Add(p.UnitCost.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
		}
	}
	return out, nil
}

func (r *AnalyticsRepo) CountCustomers(_ context.Context, businessID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, c := range r.s.customers {
		if c.BusinessID == businessID {
			n++
		}
	}
	return n, nil
}

func (r *AnalyticsRepo) GetMonthlyInvoiced(_ context.Context, businessID string, from time.Time) ([]repository.MonthlyAmount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	totals := map[time.Time]decimal.Decimal{}
	for _, inv := range r.s.invoices {
		if inv.BusinessID != businessID || inv.Status == entity.InvoiceStatusVoid || inv.IssueDate.Before(from) {
			continue
		}
		m := time.Date(inv.IssueDate.Year(), inv.IssueDate.Month(), 1, 0, 0, 0, 0, inv.IssueDate.Location())
		totals[m] = totals[m].Add(inv.TotalAmount)
	}
	out := make([]repository.MonthlyAmount, 0, len(totals))
	for m, t := range totals {
		out = append(out, repository.MonthlyAmount{Month: m, Total: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out, nil
}

func (r *AnalyticsRepo) GetTopProducts(_ context.Context, businessID string, from, to time.Time, limit int) ([]repository.TopProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	acc := map[string]*repository.TopProduct{}
	for _, inv := range r.s.invoices {
		if inv.BusinessID != businessID || inv.Status == entity.InvoiceStatusVoid ||
			inv.IssueDate.Before(from) || !inv.IssueDate.Before(to) {
			continue
		}
		for _, it := range inv.Items {
			if it.ProductID == nil {
				continue
			}
			tp, ok := acc[*it.ProductID]
			if !ok {
				tp = &repository.TopProduct{ProductID: *it.ProductID, Revenue: decimal.Zero}
				if p, ok := r.s.products[*it.ProductID]; ok {
					tp.SKU, tp.Name = p.SKU, p.Name
				}
				acc[*it.ProductID] = tp
			}
			tp.Units += it.Quantity
			tp.Revenue = tp.Revenue.Add(it.Amount)
		}
	}
	out := make([]repository.TopProduct, 0, len(acc))
	for _, tp := range acc {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AnalyticsRepo) GetSystemStats(_ context.Context) (*repository.SystemStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := &repository.SystemStats{BusinessesByStatus: map[string]int{}, TotalInvoiced: decimal.Zero}
	for _, b := range r.s.businesses {
		out.BusinessesByStatus[b.Status]++
	}
	out.Users = len(r.s.users)
	out.Invoices = len(r.s.invoices)
	for _, inv := range r.s.invoices {
		if inv.Status != entity.InvoiceStatusVoid {
			out.TotalInvoiced = out.TotalInvoiced.Add(inv.TotalAmount)
		}
	}
	return out, nil
}
