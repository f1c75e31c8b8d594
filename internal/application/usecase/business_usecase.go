package usecase

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/jhoicas/facturacion-api/internal/application/auth"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/internal/validator"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

const statusCacheTTL = 30 * time.Second

// BusinessUseCase consulta empresas y gestiona su aprobación (superadmin).
// Es el único punto que decide si una empresa puede operar.
type BusinessUseCase struct {
	repo  repository.BusinessRepository
	cache ports.StatsCache
	log   *logger.Logger
}

// NewBusinessUseCase construye el caso de uso con el puerto de persistencia.
func NewBusinessUseCase(repo repository.BusinessRepository, cache ports.StatsCache, log *logger.Logger) *BusinessUseCase {
	return &BusinessUseCase{repo: repo, cache: cache, log: log.Component("business")}
}

// GetByID obtiene una empresa por ID.
func (uc *BusinessUseCase) GetByID(ctx context.Context, id string) (*dto.BusinessResponse, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := auth.ToBusinessResponse(b)
	return &out, nil
}

// List lista empresas, opcionalmente filtradas por estado.
func (uc *BusinessUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.BusinessListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.BusinessListResponse{
		Items: lo.Map(list, func(b *entity.Business, _ int) dto.BusinessResponse { return auth.ToBusinessResponse(b) }),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// UpdateStatus aprueba, suspende o devuelve a pendiente una empresa.
func (uc *BusinessUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateBusinessStatusRequest) (*dto.BusinessResponse, error) {
	if err := validator.ValidateRequest(&in); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateStatus(ctx, id, in.Status); err != nil {
		return nil, err
	}
	uc.cache.Set(statusKey(id), in.Status, statusCacheTTL)
	uc.log.Info().Str("business_id", id).Str("status", in.Status).Msg("estado de empresa actualizado")
	return uc.GetByID(ctx, id)
}

// IsApproved informa si la empresa puede operar. El estado se guarda en caché unos
// segundos para no consultar la DB en cada petición.
func (uc *BusinessUseCase) IsApproved(ctx context.Context, id string) (bool, error) {
	if v, ok := uc.cache.Get(statusKey(id)); ok {
		if status, ok := v.(string); ok {
			return status == entity.BusinessStatusApproved, nil
		}
	}
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	uc.cache.Set(statusKey(id), b.Status, statusCacheTTL)
	return b.IsApproved(), nil
}

func statusKey(id string) string { return "business:status:" + id }
