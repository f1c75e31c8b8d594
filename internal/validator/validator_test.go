package validator

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
)

const customerID = "8a1f7e0c-3b7a-4c1e-9f4e-2d5b6a7c8d9e"

func validInvoice() dto.CreateInvoiceRequest {
	due := time.Now().Add(30 * 24 * time.Hour)
	return dto.CreateInvoiceRequest{
		CustomerID: customerID,
		DueDate:    &due,
		Items: []dto.InvoiceItemRequest{{
			Description: "Servicio",
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(100),
			TaxRate:     decimal.NewFromInt(19),
		}},
	}
}

func TestValidateRequest_Valida(t *testing.T) {
	req := validInvoice()
	assert.NoError(t, ValidateRequest(&req))
}

func TestValidateRequest_SinLineas(t *testing.T) {
	req := validInvoice()
	req.Items = nil

	err := ValidateRequest(&req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Details, "items")
}

func TestValidateRequest_DetallePorLinea(t *testing.T) {
	req := validInvoice()
	req.Items[0].Quantity = 0
	req.Items[0].UnitPrice = decimal.NewFromInt(-1)
	req.Items[0].DiscountPercent = decimal.NewFromInt(101)

	var ve *domain.ValidationError
	require.True(t, errors.As(ValidateRequest(&req), &ve))
	assert.Contains(t, ve.Details, "items[0].quantity")
	assert.Contains(t, ve.Details, "items[0].unitPrice")
	assert.Contains(t, ve.Details, "items[0].discountPercent")
}

func TestValidateRequest_PagoMontoDecimal(t *testing.T) {
	req := dto.CreatePaymentRequest{
		InvoiceID:     customerID,
		Amount:        decimal.Zero,
		PaymentMethod: "cash",
	}
	var ve *domain.ValidationError
	require.True(t, errors.As(ValidateRequest(&req), &ve))
	assert.Contains(t, ve.Details, "amount")

	req.Amount = decimal.RequireFromString("0.01")
	assert.NoError(t, ValidateRequest(&req))

	req.PaymentMethod = "bitcoin"
	assert.Error(t, ValidateRequest(&req))
}
