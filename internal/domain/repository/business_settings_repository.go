package repository

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// BusinessSettingsRepository administra prefijos y contadores de consecutivos.
type BusinessSettingsRepository interface {
	Create(ctx context.Context, s *entity.BusinessSettings) error
	Get(ctx context.Context, businessID string) (*entity.BusinessSettings, error)
	UpdatePrefixes(ctx context.Context, businessID, invoicePrefix, paymentPrefix, defaultTerms string) error

	// NextInvoiceNumber reserva el siguiente número de factura y avanza el contador en 1.
	// Debe ejecutarse en la misma transacción que inserta la factura; bloquea la fila
	// de configuración hasta el commit.
	NextInvoiceNumber(ctx context.Context, businessID string) (prefix string, number int64, err error)
	// NextPaymentNumber hace lo mismo para los pagos.
	NextPaymentNumber(ctx context.Context, businessID string) (prefix string, number int64, err error)
}
