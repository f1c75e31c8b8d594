package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Clientes ─────────────────────────────────────────────────────────────────

// CustomerRequest body para POST y PUT /api/customers.
type CustomerRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	TaxID   string `json:"taxId,omitempty" validate:"omitempty,max=30"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address string `json:"address,omitempty" validate:"omitempty,max=300"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId"`
	Name       string    `json:"name"`
	TaxID      string    `json:"taxId,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CustomerListResponse listado paginado de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ── Facturas ─────────────────────────────────────────────────────────────────

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	BusinessID string               `json:"businessId,omitempty" validate:"omitempty,uuid"`
	CustomerID string               `json:"customerId" validate:"required,uuid"`
	Items      []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	IssueDate  *time.Time           `json:"issueDate,omitempty"`
	DueDate    *time.Time           `json:"dueDate" validate:"required"`
	Status     string               `json:"status,omitempty" validate:"omitempty,oneof=draft sent"`
	Notes      string               `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Terms      string               `json:"terms,omitempty" validate:"omitempty,max=2000"`
}

// InvoiceItemRequest línea de factura. ProductID es opcional (servicios o conceptos libres).
type InvoiceItemRequest struct {
	ProductID       string          `json:"productId,omitempty" validate:"omitempty,uuid"`
	Description     string          `json:"description" validate:"required,min=1,max=500"`
	Quantity        int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unitPrice" validate:"gte=0"`
	TaxRate         decimal.Decimal `json:"taxRate" validate:"gte=0,lte=100"`
	DiscountPercent decimal.Decimal `json:"discountPercent" validate:"gte=0,lte=100"`
}

// InvoiceItemResponse línea en la respuesta.
type InvoiceItemResponse struct {
	ID              string          `json:"id"`
	ProductID       *string         `json:"productId,omitempty"`
	Description     string          `json:"description"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	Amount          decimal.Decimal `json:"amount"`
}

// InvoiceResponse factura con detalle.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	BusinessID     string                `json:"businessId"`
	CustomerID     string                `json:"customerId"`
	CustomerName   string                `json:"customerName,omitempty"`
	InvoiceNumber  string                `json:"invoiceNumber"`
	IssueDate      time.Time             `json:"issueDate"`
	DueDate        time.Time             `json:"dueDate"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxAmount      decimal.Decimal       `json:"taxAmount"`
	DiscountAmount decimal.Decimal       `json:"discountAmount"`
	TotalAmount    decimal.Decimal       `json:"totalAmount"`
	PaidAmount     decimal.Decimal       `json:"paidAmount"`
	BalanceDue     decimal.Decimal       `json:"balanceDue"`
	Status         string                `json:"status"`
	PaidDate       *time.Time            `json:"paidDate,omitempty"`
	Notes          string                `json:"notes,omitempty"`
	Terms          string                `json:"terms,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	Items          []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceListResponse listado paginado de facturas (sin líneas).
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// InvoiceFilterRequest query de GET /api/invoices.
type InvoiceFilterRequest struct {
	PageRequest
	Status     string `query:"status" validate:"omitempty,oneof=draft sent paid overdue void"`
	CustomerID string `query:"customerId" validate:"omitempty,uuid"`
}

// UpdateInvoiceStatusRequest body para PATCH /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent overdue void"`
}

// ── Pagos ────────────────────────────────────────────────────────────────────

// CreatePaymentRequest body para POST /api/payments.
type CreatePaymentRequest struct {
	BusinessID    string          `json:"businessId,omitempty" validate:"omitempty,uuid"`
	InvoiceID     string          `json:"invoiceId" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
	PaymentMethod string          `json:"paymentMethod" validate:"required,oneof=cash card bank_transfer check other"`
	TransactionID string          `json:"transactionId,omitempty" validate:"omitempty,max=100"`
	CheckNumber   string          `json:"checkNumber,omitempty" validate:"omitempty,max=50"`
	Notes         string          `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID            string          `json:"id"`
	BusinessID    string          `json:"businessId"`
	InvoiceID     string          `json:"invoiceId"`
	PaymentNumber string          `json:"paymentNumber"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"paymentDate"`
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID string          `json:"transactionId,omitempty"`
	CheckNumber   string          `json:"checkNumber,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// PaymentResultResponse respuesta de POST /api/payments: el pago y la factura actualizada.
type PaymentResultResponse struct {
	Payment PaymentResponse `json:"payment"`
	Invoice InvoiceResponse `json:"invoice"`
}

// PaymentListResponse listado de pagos.
type PaymentListResponse struct {
	Items []PaymentResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ── Configuración ────────────────────────────────────────────────────────────

// SettingsRequest body para PUT /api/settings. Los contadores no son editables.
type SettingsRequest struct {
	InvoicePrefix string `json:"invoicePrefix" validate:"required,alphanum,min=1,max=10"`
	PaymentPrefix string `json:"paymentPrefix" validate:"required,alphanum,min=1,max=10"`
	DefaultTerms  string `json:"defaultTerms,omitempty" validate:"omitempty,max=2000"`
}

// SettingsResponse configuración de consecutivos de la empresa.
type SettingsResponse struct {
	InvoicePrefix     string `json:"invoicePrefix"`
	NextInvoiceNumber int64  `json:"nextInvoiceNumber"`
	PaymentPrefix     string `json:"paymentPrefix"`
	NextPaymentNumber int64  `json:"nextPaymentNumber"`
	DefaultTerms      string `json:"defaultTerms,omitempty"`
}
