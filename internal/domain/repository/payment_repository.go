package repository

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Payment, error)
	ListByInvoice(ctx context.Context, businessID, invoiceID string) ([]*entity.Payment, error)
	List(ctx context.Context, businessID string, limit, offset int) ([]*entity.Payment, int, error)
}
