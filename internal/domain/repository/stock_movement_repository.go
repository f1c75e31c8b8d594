package repository

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// StockMovementRepository es el kardex: solo inserta y lee.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	// ListByProduct devuelve los movimientos del producto, el más reciente primero.
	ListByProduct(ctx context.Context, businessID, productID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByInvoice(ctx context.Context, businessID, invoiceID string) ([]*entity.StockMovement, error)
}
