package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura: draft → sent → paid; void y overdue son variantes terminales/manuales.
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
	InvoiceStatusVoid    = "void"
)

// Invoice representa la cabecera de una factura.
//   TotalAmount = Subtotal + TaxAmount - DiscountAmount
//   BalanceDue  = TotalAmount - PaidAmount
type Invoice struct {
	ID             string
	BusinessID     string
	CustomerID     string
	InvoiceNumber  string
	IssueDate      time.Time
	DueDate        time.Time
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	BalanceDue     decimal.Decimal
	Status         string
	PaidDate       *time.Time
	Notes          string
	Terms          string
	CreatedBy      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items []*InvoiceItem
}

// IsTerminal indica si la factura ya no admite cambios de estado manuales.
func (i *Invoice) IsTerminal() bool {
	return i.Status == InvoiceStatusPaid || i.Status == InvoiceStatusVoid
}

// ValidInvoiceStatus valida un estado recibido del exterior.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusVoid:
		return true
	}
	return false
}
