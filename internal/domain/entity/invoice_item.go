package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa una línea de la factura. Inmutable tras la creación.
// Amount = (Quantity*UnitPrice - descuento) * (1 + TaxRate/100)
type InvoiceItem struct {
	ID              string
	InvoiceID       string
	ProductID       *string
	Position        int
	Description     string
	Quantity        int
	UnitPrice       decimal.Decimal
	TaxRate         decimal.Decimal // porcentaje
	DiscountPercent decimal.Decimal // 0..100
	DiscountAmount  decimal.Decimal
	TaxAmount       decimal.Decimal
	Amount          decimal.Decimal
}
