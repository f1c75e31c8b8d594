package billing

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeLine_DescuentoEImpuesto(t *testing.T) {
	lt := ComputeLine(Line{Quantity: 3, UnitPrice: d("100"), TaxRate: d("19"), DiscountPercent: d("10")})
	assert.Equal(t, "300.00", lt.Gross.StringFixed(2))
	assert.Equal(t, "30.00", lt.Discount.StringFixed(2))
	assert.Equal(t, "270.00", lt.Taxable.StringFixed(2))
	assert.Equal(t, "51.30", lt.Tax.StringFixed(2))
	assert.Equal(t, "321.30", lt.Amount.StringFixed(2))
}

func TestComputeTotals_InvarianteDelTotal(t *testing.T) {
	tot := ComputeTotals([]Line{
		{Quantity: 10, UnitPrice: d("100"), TaxRate: d("19"), DiscountPercent: d("0")},
		{Quantity: 1, UnitPrice: d("33.33"), TaxRate: d("5"), DiscountPercent: d("0")},
		{Quantity: 2, UnitPrice: d("9.99"), TaxRate: d("0"), DiscountPercent: d("50")},
	})
	require.Len(t, tot.Lines, 3)
	assert.True(t, tot.DiscountAmount.IsZero())
	assert.True(t, tot.TotalAmount.Equal(tot.Subtotal.Add(tot.TaxAmount).Sub(tot.DiscountAmount)))

	sum := decimal.Zero
	for _, l := range tot.Lines {
		sum = sum.Add(l.Amount)
	}
	assert.True(t, tot.TotalAmount.Equal(sum), "total %s, suma de líneas %s", tot.TotalAmount, sum)
	assert.Equal(t, "1043.32", tot.Subtotal.StringFixed(2))
	assert.Equal(t, "191.67", tot.TaxAmount.StringFixed(2))
}

func TestComputeTotals_SinDescuentoSubtotalEsBruto(t *testing.T) {
	tot := ComputeTotals([]Line{{Quantity: 10, UnitPrice: d("150"), TaxRate: d("0"), DiscountPercent: d("0")}})
	assert.Equal(t, "1500.00", tot.Subtotal.StringFixed(2))
	assert.Equal(t, "1500.00", tot.TotalAmount.StringFixed(2))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-00001", FormatNumber("INV", 1))
	assert.Equal(t, "PAY-00042", FormatNumber("PAY", 42))
	assert.Equal(t, "F-123456", FormatNumber("F", 123456))
}

func invoice(total string) *entity.Invoice {
	return &entity.Invoice{
		Status:         entity.InvoiceStatusSent,
		TotalAmount:    d(total),
		DiscountAmount: decimal.Zero,
		PaidAmount:     decimal.Zero,
		BalanceDue:     d(total),
	}
}

func TestApplyPayment_PagoTotal(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	out, err := ApplyPayment(invoice("1500"), d("1500"), now)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, out.Status)
	assert.True(t, out.BalanceDue.IsZero())
	require.NotNil(t, out.PaidDate)
	assert.Equal(t, now, *out.PaidDate)
}

func TestApplyPayment_DosAbonos(t *testing.T) {
	inv := invoice("1000")
	now := time.Now()

	out, err := ApplyPayment(inv, d("500"), now)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusSent, out.Status)
	assert.Equal(t, "500.00", out.BalanceDue.StringFixed(2))
	assert.Nil(t, out.PaidDate)

	inv.PaidAmount, inv.BalanceDue, inv.Status = out.PaidAmount, out.BalanceDue, out.Status
	out, err = ApplyPayment(inv, d("500"), now)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, out.Status)
	assert.True(t, out.BalanceDue.IsZero())
	assert.NotNil(t, out.PaidDate)
}

func TestApplyPayment_Rechazos(t *testing.T) {
	now := time.Now()

	_, err := ApplyPayment(invoice("100"), d("100.01"), now)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = ApplyPayment(invoice("100"), d("0"), now)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	void := invoice("100")
	void.Status = entity.InvoiceStatusVoid
	_, err = ApplyPayment(void, d("10"), now)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
