package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIn         = "in"
	MovementTypeOut        = "out"
	MovementTypeAdjustment = "adjustment"
)

// StockMovement es un registro inmutable del kardex: un cambio en la existencia de un producto.
// Quantity es siempre la magnitud; la dirección la da Type.
//   in:         NewQty = PreviousQty + Quantity
//   out:        NewQty = PreviousQty - Quantity
//   adjustment: NewQty es el valor contado, Quantity = |NewQty - PreviousQty|
type StockMovement struct {
	ID          string
	BusinessID  string
	ProductID   string
	Type        string
	Quantity    int
	PreviousQty int
	NewQty      int
	InvoiceID   *string
	Reason      string
	Notes       string
	CreatedBy   *string // UserID
	CreatedAt   time.Time
}

// Delta devuelve el cambio con signo aplicado a la existencia.
func (m *StockMovement) Delta() int {
	return m.NewQty - m.PreviousQty
}
