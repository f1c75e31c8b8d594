package repository

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// CustomerFilter filtros de listado de clientes.
type CustomerFilter struct {
	Search string
	Limit  int
	Offset int
}

// CustomerRepository define el puerto de persistencia para Customer. Todas las
// consultas se filtran por empresa.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Customer, error)
	List(ctx context.Context, businessID string, f CustomerFilter) ([]*entity.Customer, int, error)
	Update(ctx context.Context, c *entity.Customer) error
	Delete(ctx context.Context, businessID, id string) error
}
