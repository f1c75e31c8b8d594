package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o servicio facturable.
// Si TrackInventory es true, StockQuantity es la existencia autoritativa y nunca es negativa;
// solo la modifican las operaciones de ajuste de stock.
type Product struct {
	ID                string
	BusinessID        string
	SKU               string
	Name              string
	Description       string
	UnitPrice         decimal.Decimal
	UnitCost          *decimal.Decimal // nil = costo desconocido
	TaxRate           decimal.Decimal  // porcentaje: 19 = 19%
	TrackInventory    bool
	StockQuantity     int
	LowStockThreshold *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica si el producto está en o por debajo de su umbral.
func (p *Product) IsLowStock() bool {
	if !p.TrackInventory || p.LowStockThreshold == nil {
		return false
	}
	return p.StockQuantity <= *p.LowStockThreshold
}
