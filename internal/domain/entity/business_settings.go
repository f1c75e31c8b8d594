package entity

import "time"

// Prefijos por defecto de los consecutivos.
const (
	DefaultInvoicePrefix = "INV"
	DefaultPaymentPrefix = "PAY"
)

// BusinessSettings guarda los prefijos y los contadores de consecutivos de una empresa.
// NextInvoiceNumber y NextPaymentNumber solo se incrementan dentro de la transacción
// que crea la factura o el pago.
type BusinessSettings struct {
	BusinessID        string
	InvoicePrefix     string
	NextInvoiceNumber int64
	PaymentPrefix     string
	NextPaymentNumber int64
	DefaultTerms      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewBusinessSettings devuelve la configuración inicial de una empresa recién registrada.
func NewBusinessSettings(businessID string, now time.Time) *BusinessSettings {
	return &BusinessSettings{
		BusinessID:        businessID,
		InvoicePrefix:     DefaultInvoicePrefix,
		NextInvoiceNumber: 1,
		PaymentPrefix:     DefaultPaymentPrefix,
		NextPaymentNumber: 1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
