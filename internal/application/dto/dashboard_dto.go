package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	RevenueCollected decimal.Decimal `json:"revenueCollected"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	TotalInvoiced    decimal.Decimal `json:"totalInvoiced"`
	InvoicesByStatus map[string]int  `json:"invoicesByStatus"`
	OverdueInvoices  int             `json:"overdueInvoices"`
	Products         int             `json:"products"`
	TrackedProducts  int             `json:"trackedProducts"`
	LowStockProducts int             `json:"lowStockProducts"`
	OutOfStock       int             `json:"outOfStock"`
	StockValue       decimal.Decimal `json:"stockValue"`
	Customers        int             `json:"customers"`
	Monthly          []MonthlyDTO    `json:"monthly"`
	TopProducts      []TopProductDTO `json:"topProducts"`
	GeneratedAt      time.Time       `json:"generatedAt"`
}

// MonthlyDTO total facturado de un mes.
type MonthlyDTO struct {
	Month string          `json:"month"` // "2025-03"
	Label string          `json:"label"` // "Mar 2025"
	Total decimal.Decimal `json:"total"`
}

// TopProductDTO producto más vendido del mes en curso.
type TopProductDTO struct {
	ProductID string          `json:"productId"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Units     int             `json:"units"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// SystemStatsDTO respuesta de GET /api/admin/stats.
type SystemStatsDTO struct {
	BusinessesByStatus map[string]int  `json:"businessesByStatus"`
	Users              int             `json:"users"`
	Invoices           int             `json:"invoices"`
	TotalInvoiced      decimal.Decimal `json:"totalInvoiced"`
}
