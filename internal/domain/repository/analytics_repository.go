package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceSummary agregados de facturación de una empresa.
type InvoiceSummary struct {
	CountByStatus    map[string]int
	TotalInvoiced    decimal.Decimal // facturas no anuladas
	RevenueCollected decimal.Decimal // suma de pagos aplicados
	Outstanding      decimal.Decimal // saldo pendiente de facturas no anuladas
	OverdueCount     int             // vencidas con saldo
}

// InventorySummary agregados de inventario de una empresa.
type InventorySummary struct {
	Products   int
	Tracked    int
	LowStock   int
	OutOfStock int
	StockValue decimal.Decimal // existencia * costo unitario
}

// MonthlyAmount total facturado en un mes.
type MonthlyAmount struct {
	Month time.Time
	Total decimal.Decimal
}

// TopProduct producto más vendido en un período.
type TopProduct struct {
	ProductID string
	SKU       string
	Name      string
	Units     int
	Revenue   decimal.Decimal
}

// SystemStats métricas globales para el superadministrador.
type SystemStats struct {
	BusinessesByStatus map[string]int
	Users              int
	Invoices           int
	TotalInvoiced      decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para el dashboard.
type AnalyticsRepository interface {
	GetInvoiceSummary(ctx context.Context, businessID string, now time.Time) (*InvoiceSummary, error)
	GetInventorySummary(ctx context.Context, businessID string) (*InventorySummary, error)
	CountCustomers(ctx context.Context, businessID string) (int, error)
	// GetMonthlyInvoiced devuelve los totales mensuales desde `from` (meses sin facturas se omiten).
	GetMonthlyInvoiced(ctx context.Context, businessID string, from time.Time) ([]MonthlyAmount, error)
	GetTopProducts(ctx context.Context, businessID string, from, to time.Time, limit int) ([]TopProduct, error)
	GetSystemStats(ctx context.Context) (*SystemStats, error)
}
