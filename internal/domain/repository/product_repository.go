package repository

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	Search      string
	TrackedOnly bool
	LowStock    bool
	Limit       int
	Offset      int
}

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, businessID, id string) (*entity.Product, error)
	List(ctx context.Context, businessID string, f ProductFilter) ([]*entity.Product, int, error)
	// Update modifica los datos descriptivos; nunca la existencia.
	Update(ctx context.Context, p *entity.Product) error
	// UpdateStock escribe la nueva existencia (y el costo promedio si cambió).
	UpdateStock(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, businessID, id string) error
}
