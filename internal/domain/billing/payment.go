package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// PaymentOutcome es el nuevo estado de la factura tras aplicar un abono.
type PaymentOutcome struct {
	PaidAmount decimal.Decimal
	BalanceDue decimal.Decimal
	Status     string
	PaidDate   *time.Time
}

// ApplyPayment calcula el efecto de un abono sobre la factura sin modificarla.
// Se rechazan los abonos no positivos, los que superan el saldo y los de facturas anuladas.
func ApplyPayment(inv *entity.Invoice, amount decimal.Decimal, now time.Time) (PaymentOutcome, error) {
	if !amount.IsPositive() {
		return PaymentOutcome{}, domain.NewValidationError("amount", "el monto debe ser mayor que cero")
	}
	if inv.Status == entity.InvoiceStatusVoid {
		return PaymentOutcome{}, domain.NewValidationError("invoiceId", "la factura está anulada")
	}
	if amount.GreaterThan(inv.BalanceDue) {
		return PaymentOutcome{}, &domain.ValidationError{
			Message: "el monto excede el saldo pendiente",
			Details: map[string]string{"amount": "máximo " + inv.BalanceDue.StringFixed(2)},
		}
	}

	paid := inv.PaidAmount.Add(amount)
	balance := inv.TotalAmount.Sub(paid)
	out := PaymentOutcome{
		PaidAmount: paid,
		BalanceDue: balance,
		Status:     inv.Status,
		PaidDate:   inv.PaidDate,
	}
	if balance.LessThanOrEqual(decimal.Zero) {
		out.Status = entity.InvoiceStatusPaid
		if inv.Status != entity.InvoiceStatusPaid {
			t := now
			out.PaidDate = &t
		}
	}
	return out, nil
}
