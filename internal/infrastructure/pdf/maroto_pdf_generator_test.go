package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

func TestMoneyFormatter(t *testing.T) {
	f := newMoneyFormatter(language.English, "USD")
	assert.Equal(t, "USD 1,234.50", f.format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "USD 0.00", f.format(decimal.Zero))

	assert.Equal(t, "USD 10.00", newMoneyFormatter(language.English, "").format(decimal.NewFromInt(10)))
}

func TestGenerateInvoicePDF(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	pid := "p-1"
	inv := &entity.Invoice{
		ID:            "i-1",
		InvoiceNumber: "INV-00007",
		IssueDate:     now,
		DueDate:       now.AddDate(0, 0, 30),
		Subtotal:      decimal.RequireFromString("180"),
		TaxAmount:     decimal.RequireFromString("34.2"),
		TotalAmount:   decimal.RequireFromString("214.2"),
		PaidAmount:    decimal.RequireFromString("100"),
		BalanceDue:    decimal.RequireFromString("114.2"),
		Status:        entity.InvoiceStatusSent,
		Notes:         "Gracias por su compra",
		Terms:         "Pago a 30 días",
		Items: []*entity.InvoiceItem{{
			ProductID:       &pid,
			Position:        0,
			Description:     "Café molido 500 g",
			Quantity:        2,
			UnitPrice:       decimal.RequireFromString("100"),
			TaxRate:         decimal.RequireFromString("19"),
			DiscountPercent: decimal.RequireFromString("10"),
			Amount:          decimal.RequireFromString("214.2"),
		}},
	}
	business := &entity.Business{Name: "Tostadores del Sur", TaxID: "900123", Currency: "USD"}
	customer := &entity.Customer{Name: "Cafetería Central", Email: "compras@central.test"}

	out, err := NewMarotoPDFGenerator(language.Spanish).GenerateInvoicePDF(context.Background(), inv, business, customer)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
