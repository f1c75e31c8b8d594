package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheck        = "check"
	PaymentMethodOther        = "other"
)

// PaymentStatusCompleted es el único estado que produce la aplicación de pagos.
const PaymentStatusCompleted = "completed"

// Payment registra un abono contra una factura. Se crea una vez y no se modifica.
type Payment struct {
	ID            string
	BusinessID    string
	InvoiceID     string
	PaymentNumber string
	Amount        decimal.Decimal
	PaymentDate   time.Time
	Method        string
	TransactionID string
	CheckNumber   string
	Notes         string
	Status        string
	CreatedBy     *string
	CreatedAt     time.Time
}
