package billing

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/testutil"
)

func TestCustomerUseCase_CRUD(t *testing.T) {
	s := testutil.NewStore()
	r := s.Repos()
	b := s.SeedBusiness("Taller")
	uc := NewCustomerUseCase(r.Customers, r.Invoices)
	ctx := context.Background()

	created, err := uc.Create(ctx, b.ID, dto.CustomerRequest{Name: "Ana Gómez", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, b.ID, created.BusinessID)

	updated, err := uc.Update(ctx, b.ID, created.ID, dto.CustomerRequest{Name: "Ana María Gómez", Phone: "3001234567"})
	require.NoError(t, err)
	assert.Equal(t, "Ana María Gómez", updated.Name)
	assert.Empty(t, updated.Email)

	list, err := uc.List(ctx, b.ID, "maría", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	require.NoError(t, uc.Delete(ctx, b.ID, created.ID))
	_, err = uc.Get(ctx, b.ID, created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCustomerUseCase_Validacion(t *testing.T) {
	s := testutil.NewStore()
	r := s.Repos()
	b := s.SeedBusiness("Taller")
	uc := NewCustomerUseCase(r.Customers, r.Invoices)

	_, err := uc.Create(context.Background(), b.ID, dto.CustomerRequest{Email: "no-es-email"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Details, "name")
	assert.Contains(t, ve.Details, "email")
}

func TestCustomerUseCase_NoBorraClienteConFacturas(t *testing.T) {
	f := newFixture(t)
	r := f.store.Repos()
	uc := NewCustomerUseCase(r.Customers, r.Invoices)
	f.createInvoice(t, "10")

	err := uc.Delete(context.Background(), f.business.ID, f.customer.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestCustomerUseCase_AisladoPorEmpresa(t *testing.T) {
	f := newFixture(t)
	r := f.store.Repos()
	uc := NewCustomerUseCase(r.Customers, r.Invoices)
	other := f.store.SeedBusiness("Otra")

	_, err := uc.Get(context.Background(), other.ID, f.customer.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSettingsUseCase_CambiaPrefijosSinTocarContadores(t *testing.T) {
	f := newFixture(t)
	f.createInvoice(t, "10")
	uc := NewSettingsUseCase(f.store.Repos().Settings)

	out, err := uc.Update(context.Background(), f.business.ID, dto.SettingsRequest{InvoicePrefix: "FAC", PaymentPrefix: "REC"})
	require.NoError(t, err)
	assert.Equal(t, "FAC", out.InvoicePrefix)
	assert.Equal(t, int64(2), out.NextInvoiceNumber)

	inv := f.createInvoice(t, "10")
	assert.Equal(t, "FAC-00002", inv.InvoiceNumber)

	_, err = uc.Update(context.Background(), f.business.ID, dto.SettingsRequest{InvoicePrefix: "F-1", PaymentPrefix: "R"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
