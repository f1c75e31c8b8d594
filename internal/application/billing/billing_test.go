package billing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/testutil"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

type fixture struct {
	store    *testutil.Store
	invoices *InvoiceUseCase
	payments *PaymentUseCase
	business *entity.Business
	customer *entity.Customer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := testutil.NewStore()
	r := s.Repos()
	b := s.SeedBusiness("Papelería Central")
	return &fixture{
		store:    s,
		invoices: NewInvoiceUseCase(s, r.Customers, r.Invoices, logger.Nop()),
		payments: NewPaymentUseCase(s, r.Invoices, r.Payments, logger.Nop()),
		business: b,
		customer: s.SeedCustomer(b.ID, "Cliente Uno"),
	}
}

func (f *fixture) invoiceRequest(lines ...dto.InvoiceItemRequest) dto.CreateInvoiceRequest {
	due := time.Now().AddDate(0, 0, 30)
	return dto.CreateInvoiceRequest{
		CustomerID: f.customer.ID,
		Items:      lines,
		DueDate:    &due,
		Status:     entity.InvoiceStatusSent,
	}
}

func line(productID string, qty int, price string) dto.InvoiceItemRequest {
	return dto.InvoiceItemRequest{
		ProductID:   productID,
		Description: "Línea",
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Creación ────────────────────────────────────────────────────────────────

func TestCreateInvoice_DescuentaTodoElStock(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.business.ID, "CUA-1", "2.50", 10, true)

	out, err := f.invoices.CreateInvoice(context.Background(), f.business.ID, "u1", f.invoiceRequest(line(p.ID, 10, "2.50")))
	require.NoError(t, err)
	assert.Equal(t, "INV-00001", out.InvoiceNumber)
	assert.Equal(t, entity.InvoiceStatusSent, out.Status)
	assert.Equal(t, "Cliente Uno", out.CustomerName)
	assert.True(t, out.TotalAmount.Equal(dec("25")))
	assert.True(t, out.BalanceDue.Equal(out.TotalAmount))
	require.Len(t, out.Items, 1)

	assert.Equal(t, 0, f.store.Product(p.ID).StockQuantity)
	movs := f.store.Movements()
	require.Len(t, movs, 1)
	m := movs[0]
	assert.Equal(t, entity.MovementTypeOut, m.Type)
	assert.Equal(t, 10, m.Quantity)
	assert.Equal(t, 10, m.PreviousQty)
	assert.Equal(t, 0, m.NewQty)
	require.NotNil(t, m.InvoiceID)
	assert.Equal(t, out.ID, *m.InvoiceID)
	assert.Equal(t, "venta INV-00001", m.Reason)

	assert.Equal(t, int64(2), f.store.Settings(f.business.ID).NextInvoiceNumber)
}

func TestCreateInvoice_StockInsuficienteNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.business.ID, "CUA-1", "2.50", 10, true)

	_, err := f.invoices.CreateInvoice(context.Background(), f.business.ID, "", f.invoiceRequest(line(p.ID, 11, "2.50")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	require.Len(t, ise.Items, 1)
	assert.Equal(t, 11, ise.Items[0].Requested)
	assert.Equal(t, 10, ise.Items[0].Available)

	assert.Empty(t, f.store.Invoices())
	assert.Empty(t, f.store.Movements())
	assert.Equal(t, 10, f.store.Product(p.ID).StockQuantity)
	assert.Equal(t, int64(1), f.store.Settings(f.business.ID).NextInvoiceNumber)
}

func TestCreateInvoice_ReportaTodasLasLineasFaltantes(t *testing.T) {
	f := newFixture(t)
	a := f.store.SeedProduct(f.business.ID, "A", "1", 2, true)
	b := f.store.SeedProduct(f.business.ID, "B", "1", 1, true)
	c := f.store.SeedProduct(f.business.ID, "C", "1", 50, true)

	_, err := f.invoices.CreateInvoice(context.Background(), f.business.ID, "", f.invoiceRequest(
		line(a.ID, 3, "1"),
		line(c.ID, 1, "1"),
		line(b.ID, 5, "1"),
	))
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	require.Len(t, ise.Items, 2)
	assert.Equal(t, 0, ise.Items[0].LineIndex)
	assert.Equal(t, 2, ise.Items[1].LineIndex)
}

func TestCreateInvoice_SumaDemandaDelMismoProducto(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.business.ID, "A", "1", 5, true)

	_, err := f.invoices.CreateInvoice(context.Background(), f.business.ID, "", f.invoiceRequest(
		line(p.ID, 3, "1"),
		line(p.ID, 3, "1"),
	))
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	require.Len(t, ise.Items, 2)
	assert.Equal(t, 6, ise.Items[0].Requested)
	assert.Equal(t, 5, f.store.Product(p.ID).StockQuantity)
}

func TestCreateInvoice_ProductoSinControlNoMueveInventario(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.business.ID, "SERV", "100", 0, false)

	out, err := f.invoices.CreateInvoice(context.Background(), f.business.ID, "", f.invoiceRequest(
		line(p.ID, 3, "100"),
		line("", 1, "20"),
	))
	require.NoError(t, err)
	assert.True(t, out.TotalAmount.Equal(dec("320")))
	assert.Empty(t, f.store.Movements())
	assert.Equal(t, 0, f.store.Product(p.ID).StockQuantity)
}

func TestCreateInvoice_ImportesConImpuestoYDescuento(t *testing.T) {
	f := newFixture(t)
	req := f.invoiceRequest(dto.InvoiceItemRequest{
		Description:     "Consultoría",
		Quantity:        2,
		UnitPrice:       dec("100"),
		TaxRate:         dec("19"),
		DiscountPercent: dec("10"),
	})

	out, err := f.invoices.CreateInvoice(context.Background(), f.business.ID, "", req)
	require.NoError(t, err)
	assert.True(t, out.Subtotal.Equal(dec("180")), out.Subtotal.String())
	assert.True(t, out.TaxAmount.Equal(dec("34.2")), out.TaxAmount.String())
	assert.True(t, out.TotalAmount.Equal(out.Subtotal.Add(out.TaxAmount).Sub(out.DiscountAmount)))
	assert.True(t, out.Items[0].Amount.Equal(dec("214.2")))
}

func TestCreateInvoice_EstadoPorDefectoBorrador(t *testing.T) {
	f := newFixture(t)
	req := f.invoiceRequest(line("", 1, "5"))
	req.Status = ""

	out, err := f.invoices.CreateInvoice(context.Background(), f.business.ID, "", req)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusDraft, out.Status)
}

func TestCreateInvoice_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.invoiceRequest()
	_, err := f.invoices.CreateInvoice(ctx, f.business.ID, "", req)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	req = f.invoiceRequest(line("", 0, "5"))
	_, err = f.invoices.CreateInvoice(ctx, f.business.ID, "", req)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Details, "items[0].quantity")

	req = f.invoiceRequest(line("", 1, "5"))
	past := time.Now().AddDate(0, 0, -3)
	req.DueDate = &past
	_, err = f.invoices.CreateInvoice(ctx, f.business.ID, "", req)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestCreateInvoice_ClienteDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	other := f.store.SeedBusiness("Otra")
	p := f.store.SeedProduct(other.ID, "X", "1", 5, true)

	_, err := f.invoices.CreateInvoice(context.Background(), other.ID, "", f.invoiceRequest(line(p.ID, 1, "1")))
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.invoices.CreateInvoice(context.Background(), f.business.ID, "", f.invoiceRequest(line(p.ID, 1, "1")))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 5, f.store.Product(p.ID).StockQuantity)
}

func TestCreateInvoice_FalloDeAlmacenamientoRevierteTodo(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.business.ID, "A", "1", 5, true)
	f.store.FailOn("movements.create", errors.New("conexión perdida"))

	_, err := f.invoices.CreateInvoice(context.Background(), f.business.ID, "", f.invoiceRequest(line(p.ID, 2, "1")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransactionFailure))
	assert.Empty(t, f.store.Invoices())
	assert.Equal(t, 5, f.store.Product(p.ID).StockQuantity)
	assert.Equal(t, int64(1), f.store.Settings(f.business.ID).NextInvoiceNumber)
}

func TestCreateInvoice_ConsecutivosUnicosEnConcurrencia(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.business.ID, "A", "1", 1000, true)

	const n = 25
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[string]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := f.invoices.CreateInvoice(context.Background(), f.business.ID, "", f.invoiceRequest(line(p.ID, 2, "1")))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			numbers[out.InvoiceNumber] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, n)
	for i := 1; i <= n; i++ {
		assert.True(t, numbers[fmt.Sprintf("INV-%05d", i)], "falta INV-%05d", i)
	}
	assert.Equal(t, 1000-2*n, f.store.Product(p.ID).StockQuantity)
	assert.Len(t, f.store.Movements(), n)
}

// ── Pagos ───────────────────────────────────────────────────────────────────

func (f *fixture) createInvoice(t *testing.T, total string) *dto.InvoiceResponse {
	t.Helper()
	out, err := f.invoices.CreateInvoice(context.Background(), f.business.ID, "", f.invoiceRequest(line("", 1, total)))
	require.NoError(t, err)
	return out
}

func (f *fixture) pay(invoiceID, amount string) (*dto.PaymentResultResponse, error) {
	return f.payments.ApplyPayment(context.Background(), f.business.ID, "u1", dto.CreatePaymentRequest{
		InvoiceID:     invoiceID,
		Amount:        dec(amount),
		PaymentMethod: entity.PaymentMethodCash,
	})
}

func TestApplyPayment_PagoTotal(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, "1500")

	res, err := f.pay(inv.ID, "1500")
	require.NoError(t, err)
	assert.Equal(t, "PAY-00001", res.Payment.PaymentNumber)
	assert.Equal(t, entity.PaymentStatusCompleted, res.Payment.Status)
	assert.Equal(t, entity.InvoiceStatusPaid, res.Invoice.Status)
	assert.True(t, res.Invoice.BalanceDue.IsZero())
	assert.NotNil(t, res.Invoice.PaidDate)
	assert.True(t, res.Invoice.TotalAmount.Equal(res.Invoice.PaidAmount.Add(res.Invoice.BalanceDue)))
}

func TestApplyPayment_DosAbonos(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, "1000")

	first, err := f.pay(inv.ID, "500")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusSent, first.Invoice.Status)
	assert.True(t, first.Invoice.BalanceDue.Equal(dec("500")))
	assert.Nil(t, first.Invoice.PaidDate)

	second, err := f.pay(inv.ID, "500")
	require.NoError(t, err)
	assert.Equal(t, "PAY-00002", second.Payment.PaymentNumber)
	assert.Equal(t, entity.InvoiceStatusPaid, second.Invoice.Status)
	assert.True(t, second.Invoice.BalanceDue.IsZero())

	list, err := f.payments.ListByInvoice(context.Background(), f.business.ID, inv.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestApplyPayment_RechazaSobrepago(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, "100")

	_, err := f.pay(inv.ID, "100.01")
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Empty(t, f.store.Payments())
	assert.Equal(t, int64(1), f.store.Settings(f.business.ID).NextPaymentNumber)
}

func TestApplyPayment_RechazaMontoNoPositivo(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, "100")

	_, err := f.pay(inv.ID, "0")
	assert.True(t, errors.Is(err, domain.ErrValidation))
	_, err = f.pay(inv.ID, "-5")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestApplyPayment_FacturaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.pay("6f1c1a0e-9a51-4c55-9a43-3a6a3f1f8c11", "10")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestApplyPayment_FalloRevierteFactura(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, "100")
	f.store.FailOn("invoices.update_payment", errors.New("timeout"))

	_, err := f.pay(inv.ID, "40")
	assert.True(t, errors.Is(err, domain.ErrTransactionFailure))
	assert.Empty(t, f.store.Payments())
	got := f.store.Invoices()[0]
	assert.True(t, got.PaidAmount.IsZero())
	assert.Equal(t, int64(1), f.store.Settings(f.business.ID).NextPaymentNumber)
}

func TestApplyPayment_ConsecutivosUnicosEnConcurrencia(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, "1000")

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.pay(inv.ID, "100")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, p := range f.store.Payments() {
		seen[p.PaymentNumber] = true
	}
	assert.Len(t, seen, n)
	got := f.store.Invoices()[0]
	assert.Equal(t, entity.InvoiceStatusPaid, got.Status)
	assert.True(t, got.BalanceDue.IsZero())
}

// ── Estados ─────────────────────────────────────────────────────────────────

func TestUpdateStatus_AnularDevuelveStock(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.business.ID, "A", "1", 10, true)
	inv, err := f.invoices.CreateInvoice(context.Background(), f.business.ID, "", f.invoiceRequest(line(p.ID, 4, "1")))
	require.NoError(t, err)
	require.Equal(t, 6, f.store.Product(p.ID).StockQuantity)

	out, err := f.invoices.UpdateStatus(context.Background(), f.business.ID, "u1", inv.ID,
		dto.UpdateInvoiceStatusRequest{Status: entity.InvoiceStatusVoid})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusVoid, out.Status)
	assert.Equal(t, 10, f.store.Product(p.ID).StockQuantity)

	movs := f.store.Movements()
	require.Len(t, movs, 2)
	var restock entity.StockMovement
	for _, m := range movs {
		if m.Type == entity.MovementTypeIn {
			restock = m
		}
	}
	assert.Equal(t, 4, restock.Quantity)
	require.NotNil(t, restock.InvoiceID)
	assert.Equal(t, inv.ID, *restock.InvoiceID)

	_, err = f.invoices.UpdateStatus(context.Background(), f.business.ID, "", inv.ID,
		dto.UpdateInvoiceStatusRequest{Status: entity.InvoiceStatusSent})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestUpdateStatus_AnularSoloRevierteSalidasRegistradas(t *testing.T) {
	f := newFixture(t)
	p := f.store.SeedProduct(f.business.ID, "B", "1", 3, false)
	inv, err := f.invoices.CreateInvoice(context.Background(), f.business.ID, "", f.invoiceRequest(line(p.ID, 2, "1")))
	require.NoError(t, err)
	require.Empty(t, f.store.Movements())

	// el producto empieza a controlar stock después de facturar
	tracked := f.store.Product(p.ID)
	tracked.TrackInventory = true
	require.NoError(t, f.store.Repos().Products.Update(context.Background(), tracked))

	_, err = f.invoices.UpdateStatus(context.Background(), f.business.ID, "", inv.ID,
		dto.UpdateInvoiceStatusRequest{Status: entity.InvoiceStatusVoid})
	require.NoError(t, err)
	assert.Equal(t, 3, f.store.Product(p.ID).StockQuantity)
	assert.Empty(t, f.store.Movements())
}

func TestUpdateStatus_NoAnulaFacturaConAbonos(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, "100")
	_, err := f.pay(inv.ID, "10")
	require.NoError(t, err)

	_, err = f.invoices.UpdateStatus(context.Background(), f.business.ID, "", inv.ID,
		dto.UpdateInvoiceStatusRequest{Status: entity.InvoiceStatusVoid})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestUpdateStatus_PagadaSoloConPagos(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t, "100")

	_, err := f.invoices.UpdateStatus(context.Background(), f.business.ID, "", inv.ID,
		dto.UpdateInvoiceStatusRequest{Status: entity.InvoiceStatusPaid})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	out, err := f.invoices.UpdateStatus(context.Background(), f.business.ID, "", inv.ID,
		dto.UpdateInvoiceStatusRequest{Status: entity.InvoiceStatusOverdue})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusOverdue, out.Status)
}

func TestListInvoices_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	a := f.createInvoice(t, "10")
	f.createInvoice(t, "20")
	_, err := f.pay(a.ID, "10")
	require.NoError(t, err)

	out, err := f.invoices.ListInvoices(context.Background(), f.business.ID,
		dto.InvoiceFilterRequest{Status: entity.InvoiceStatusPaid})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, a.ID, out.Items[0].ID)
	assert.Equal(t, 1, out.Page.Total)

	all, err := f.invoices.ListInvoices(context.Background(), f.business.ID, dto.InvoiceFilterRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, "INV-00002", all.Items[0].InvoiceNumber)
}
