package dto

import "github.com/shopspring/decimal"

// InvoiceDraftRequest body para POST /api/ai/invoice-draft.
type InvoiceDraftRequest struct {
	Text string `json:"text" validate:"required,min=3,max=8000"`
}

// InvoiceDraftDTO borrador propuesto por el modelo. No se persiste: el cliente lo
// revisa y lo envía a POST /api/invoices.
type InvoiceDraftDTO struct {
	CustomerName string             `json:"customerName,omitempty"`
	CustomerID   string             `json:"customerId,omitempty"`
	Items        []InvoiceDraftItem `json:"items"`
	Notes        string             `json:"notes,omitempty"`
	Confidence   float64            `json:"confidence"`
}

// InvoiceDraftItem línea propuesta. ProductID se completa si el SKU o el nombre coinciden
// con un producto de la empresa.
type InvoiceDraftItem struct {
	Description string          `json:"description"`
	SKU         string          `json:"sku,omitempty"`
	ProductID   string          `json:"productId,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
}
