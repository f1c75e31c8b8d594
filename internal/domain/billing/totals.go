package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line son los datos de entrada de una línea de factura.
type Line struct {
	Quantity        int
	UnitPrice       decimal.Decimal
	TaxRate         decimal.Decimal // porcentaje
	DiscountPercent decimal.Decimal // 0..100
}

// LineTotals son los importes calculados de una línea.
type LineTotals struct {
	Gross    decimal.Decimal // cantidad * precio
	Discount decimal.Decimal
	Taxable  decimal.Decimal // bruto - descuento
	Tax      decimal.Decimal
	Amount   decimal.Decimal // base + impuesto
}

// Totals son los importes del documento.
type Totals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	Lines          []LineTotals
}

// ComputeLine calcula los importes de una línea. Descuento e impuesto se redondean a 2 decimales.
func ComputeLine(l Line) LineTotals {
	gross := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
	discount := gross.Mul(l.DiscountPercent).Div(hundred).Round(2)
	taxable := gross.Sub(discount)
	tax := taxable.Mul(l.TaxRate).Div(hundred).Round(2)
	return LineTotals{
		Gross:    gross,
		Discount: discount,
		Taxable:  taxable,
		Tax:      tax,
		Amount:   taxable.Add(tax),
	}
}

// ComputeTotals acumula las líneas. El subtotal suma la base gravable de cada línea
// (neta de su descuento), de modo que Subtotal + TaxAmount es la suma de los Amount.
// El descuento del documento nace en cero y queda reservado para ajustes posteriores.
func ComputeTotals(lines []Line) Totals {
	t := Totals{
		Subtotal:       decimal.Zero,
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		Lines:          make([]LineTotals, 0, len(lines)),
	}
	for _, l := range lines {
		lt := ComputeLine(l)
		t.Subtotal = t.Subtotal.Add(lt.Taxable)
		t.TaxAmount = t.TaxAmount.Add(lt.Tax)
		t.Lines = append(t.Lines, lt)
	}
	t.TotalAmount = t.Subtotal.Add(t.TaxAmount).Sub(t.DiscountAmount)
	return t
}

// FormatNumber construye el consecutivo visible: {prefijo}-{número con 5 dígitos}.
func FormatNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s-%05d", prefix, n)
}
