package postgres

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.BusinessSettingsRepository = (*BusinessSettingsRepo)(nil)

// BusinessSettingsRepo prefijos y contadores de consecutivos por empresa.
type BusinessSettingsRepo struct {
	q Querier
}

// NewBusinessSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessSettingsRepository(q Querier) *BusinessSettingsRepo {
	return &BusinessSettingsRepo{q: q}
}

// Create inserta la configuración inicial; si ya existe no hace nada.
func (r *BusinessSettingsRepo) Create(ctx context.Context, s *entity.BusinessSettings) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO business_settings
			(business_id, invoice_prefix, next_invoice_number, payment_prefix, next_payment_number, default_terms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (business_id) DO NOTHING`,
		s.BusinessID, s.InvoicePrefix, s.NextInvoiceNumber, s.PaymentPrefix, s.NextPaymentNumber,
		nullIfEmpty(s.DefaultTerms), s.CreatedAt, s.UpdatedAt,
	)
	return errors.Wrap(err, "insert business settings")
}

// Get devuelve la configuración de la empresa.
func (r *BusinessSettingsRepo) Get(ctx context.Context, businessID string) (*entity.BusinessSettings, error) {
	var (
		s     entity.BusinessSettings
		terms *string
	)
	err := r.q.QueryRow(ctx, `
		SELECT business_id, invoice_prefix, next_invoice_number, payment_prefix, next_payment_number,
		       default_terms, created_at, updated_at
		FROM business_settings WHERE business_id = $1`, businessID,
	).Scan(&s.BusinessID, &s.InvoicePrefix, &s.NextInvoiceNumber, &s.PaymentPrefix, &s.NextPaymentNumber,
		&terms, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "get business settings")
	}
	s.DefaultTerms = deref(terms)
	return &s, nil
}

// UpdatePrefixes cambia prefijos y términos; los contadores no se tocan.
func (r *BusinessSettingsRepo) UpdatePrefixes(ctx context.Context, businessID, invoicePrefix, paymentPrefix, defaultTerms string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE business_settings
		SET invoice_prefix = $2, payment_prefix = $3, default_terms = $4, updated_at = now()
		WHERE business_id = $1`,
		businessID, invoicePrefix, paymentPrefix, nullIfEmpty(defaultTerms))
	if err != nil {
		return errors.Wrap(err, "update business settings")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextInvoiceNumber incrementa el contador con un único UPSERT: la fila queda bloqueada
// hasta el commit, así que dos transacciones concurrentes nunca leen el mismo valor.
// Si la empresa no tiene configuración se crea con los valores por defecto.
func (r *BusinessSettingsRepo) NextInvoiceNumber(ctx context.Context, businessID string) (string, int64, error) {
	var (
		prefix string
		n      int64
	)
	err := r.q.QueryRow(ctx, `
		INSERT INTO business_settings (business_id, invoice_prefix, next_invoice_number, payment_prefix, next_payment_number)
		VALUES ($1, $2, 2, $3, 1)
		ON CONFLICT (business_id) DO UPDATE
			SET next_invoice_number = business_settings.next_invoice_number + 1,
			    updated_at = now()
		RETURNING invoice_prefix, next_invoice_number - 1`,
		businessID, entity.DefaultInvoicePrefix, entity.DefaultPaymentPrefix,
	).Scan(&prefix, &n)
	if err != nil {
		return "", 0, errors.Wrap(err, "next invoice number")
	}
	return prefix, n, nil
}

// NextPaymentNumber igual que NextInvoiceNumber sobre el contador de pagos.
func (r *BusinessSettingsRepo) NextPaymentNumber(ctx context.Context, businessID string) (string, int64, error) {
	var (
		prefix string
		n      int64
	)
	err := r.q.QueryRow(ctx, `
		INSERT INTO business_settings (business_id, invoice_prefix, next_invoice_number, payment_prefix, next_payment_number)
		VALUES ($1, $2, 1, $3, 2)
		ON CONFLICT (business_id) DO UPDATE
			SET next_payment_number = business_settings.next_payment_number + 1,
			    updated_at = now()
		RETURNING payment_prefix, next_payment_number - 1`,
		businessID, entity.DefaultInvoicePrefix, entity.DefaultPaymentPrefix,
	).Scan(&prefix, &n)
	if err != nil {
		return "", 0, errors.Wrap(err, "next payment number")
	}
	return prefix, n, nil
}
