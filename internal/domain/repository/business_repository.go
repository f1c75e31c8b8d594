package repository

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// BusinessRepository define el puerto de persistencia para Business (tenant).
type BusinessRepository interface {
	Create(ctx context.Context, b *entity.Business) error
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Business, int, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
