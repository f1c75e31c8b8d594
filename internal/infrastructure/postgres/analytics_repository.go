package postgres

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard y la vista del superadministrador.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetInvoiceSummary conteo por estado y totales de cartera.
// Las facturas anuladas no suman a lo facturado ni al saldo.
func (r *AnalyticsRepo) GetInvoiceSummary(ctx context.Context, businessID string, now time.Time) (*repository.InvoiceSummary, error) {
	const byStatus = `
	SELECT status, COUNT(*)
	FROM invoices
	WHERE business_id = $1
	GROUP BY status`

	rows, err := r.pool.Query(ctx, byStatus, businessID)
	if err != nil {
		return nil, errors.Wrap(err, "analytics.GetInvoiceSummary")
	}
	defer rows.Close()

	s := &repository.InvoiceSummary{CountByStatus: map[string]int{}}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, errors.Wrap(err, "analytics.GetInvoiceSummary scan")
		}
		s.CountByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "analytics.GetInvoiceSummary rows")
	}

	const totals = `
	SELECT
	    COALESCE(SUM(total_amount) FILTER (WHERE status <> 'void'), 0)                          AS total_invoiced,
	    COALESCE(SUM(balance_due)  FILTER (WHERE status <> 'void'), 0)                          AS outstanding,
	    COUNT(*) FILTER (WHERE status NOT IN ('void', 'paid', 'draft') AND balance_due > 0
	                       AND due_date < $2)                                                   AS overdue_count,
	    (SELECT COALESCE(SUM(amount), 0) FROM payments WHERE business_id = $1
	       AND status = 'completed')                                                            AS collected
	FROM invoices
	WHERE business_id = $1`

	err = r.pool.QueryRow(ctx, totals, businessID, now).
		Scan(&s.TotalInvoiced, &s.Outstanding, &s.OverdueCount, &s.RevenueCollected)
	if err != nil {
		return nil, errors.Wrap(err, "analytics.GetInvoiceSummary totals")
	}
	return s, nil
}

// GetInventorySummary productos, existencias bajas o agotadas y valor del inventario a costo.
func (r *AnalyticsRepo) GetInventorySummary(ctx context.Context, businessID string) (*repository.InventorySummary, error) {
	const query = `
	SELECT
	    COUNT(*)                                                                       AS products,
	    COUNT(*) FILTER (WHERE track_inventory)                                        AS tracked,
	    COUNT(*) FILTER (WHERE track_inventory AND low_stock_threshold IS NOT NULL
	                       AND stock_quantity <= low_stock_threshold)                  AS low_stock,
	    COUNT(*) FILTER (WHERE track_inventory AND stock_quantity = 0)                 AS out_of_stock,
	    COALESCE(SUM(stock_quantity * unit_cost) FILTER (WHERE track_inventory), 0)    AS stock_value
	FROM products
	WHERE business_id = $1`

	var s repository.InventorySummary
	err := r.pool.QueryRow(ctx, query, businessID).
		Scan(&s.Products, &s.Tracked, &s.LowStock, &s.OutOfStock, &s.StockValue)
	if err != nil {
		return nil, errors.Wrap(err, "analytics.GetInventorySummary")
	}
	return &s, nil
}

// CountCustomers clientes de la empresa.
func (r *AnalyticsRepo) CountCustomers(ctx context.Context, businessID string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE business_id = $1`, businessID).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "analytics.CountCustomers")
	}
	return n, nil
}

// GetMonthlyInvoiced total facturado (no anulado) por mes de emisión desde `from`.
func (r *AnalyticsRepo) GetMonthlyInvoiced(ctx context.Context, businessID string, from time.Time) ([]repository.MonthlyAmount, error) {
	const query = `
	SELECT date_trunc('month', issue_date) AS month, SUM(total_amount)
	FROM invoices
	WHERE business_id = $1
	  AND status <> 'void'
	  AND issue_date >= $2
	GROUP BY month
	ORDER BY month`

	rows, err := r.pool.Query(ctx, query, businessID, from)
	if err != nil {
		return nil, errors.Wrap(err, "analytics.GetMonthlyInvoiced")
	}
	defer rows.Close()

	var out []repository.MonthlyAmount
	for rows.Next() {
		var m repository.MonthlyAmount
		if err := rows.Scan(&m.Month, &m.Total); err != nil {
			return nil, errors.Wrap(err, "analytics.GetMonthlyInvoiced scan")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetTopProducts los `limit` productos con más unidades vendidas en facturas no anuladas del período.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, businessID string, from, to time.Time, limit int) ([]repository.TopProduct, error) {
	const query = `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    SUM(it.quantity)  AS units,
	    SUM(it.amount)    AS revenue
	FROM invoice_items it
	JOIN invoices i ON i.id = it.invoice_id
	JOIN products p ON p.id = it.product_id
	WHERE i.business_id = $1
	  AND i.status <> 'void'
	  AND i.issue_date >= $2 AND i.issue_date < $3
	GROUP BY p.id, p.sku, p.name
	ORDER BY units DESC, revenue DESC
	LIMIT $4`

	rows, err := r.pool.Query(ctx, query, businessID, from, to, limit)
	if err != nil {
		return nil, errors.Wrap(err, "analytics.GetTopProducts")
	}
	defer rows.Close()

	var out []repository.TopProduct
	for rows.Next() {
		var t repository.TopProduct
		if err := rows.Scan(&t.ProductID, &t.SKU, &t.Name, &t.Units, &t.Revenue); err != nil {
			return nil, errors.Wrap(err, "analytics.GetTopProducts scan")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetSystemStats métricas de todas las empresas.
func (r *AnalyticsRepo) GetSystemStats(ctx context.Context) (*repository.SystemStats, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM businesses GROUP BY status`)
	if err != nil {
		return nil, errors.Wrap(err, "analytics.GetSystemStats")
	}
	defer rows.Close()

	s := &repository.SystemStats{BusinessesByStatus: map[string]int{}}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, errors.Wrap(err, "analytics.GetSystemStats scan")
		}
		s.BusinessesByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "analytics.GetSystemStats rows")
	}

	const totals = `
	SELECT
	    (SELECT COUNT(*) FROM users),
	    COUNT(*),
	    COALESCE(SUM(total_amount) FILTER (WHERE status <> 'void'), 0)
	FROM invoices`
	if err := r.pool.QueryRow(ctx, totals).Scan(&s.Users, &s.Invoices, &s.TotalInvoiced); err != nil {
		return nil, errors.Wrap(err, "analytics.GetSystemStats totals")
	}
	return s, nil
}
