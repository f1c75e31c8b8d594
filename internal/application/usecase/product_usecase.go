package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/inventory"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/internal/validator"
)

// ProductUseCase casos de uso CRUD para productos. La existencia solo cambia vía movimientos.
type ProductUseCase struct {
	txRunner    ports.TxRunner
	repo        repository.ProductRepository
	movRepo     repository.StockMovementRepository
	invoiceRepo repository.InvoiceRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner ports.TxRunner,
	repo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	invoiceRepo repository.InvoiceRepository,
) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, movRepo: movRepo, invoiceRepo: invoiceRepo}
}

// Create crea el producto. Si controla inventario y trae existencia inicial, la
// registra como una entrada del kardex en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, businessID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validator.ValidateRequest(&in); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		BusinessID:        businessID,
		SKU:               in.SKU,
		Name:              in.Name,
		Description:       in.Description,
		UnitPrice:         in.UnitPrice,
		UnitCost:          in.UnitCost,
		TaxRate:           in.TaxRate,
		TrackInventory:    in.TrackInventory,
		LowStockThreshold: in.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var actor *string
	if userID != "" {
		actor = &userID
	}
	err := uc.txRunner.WithinTx(ctx, func(tx ports.TxRepos) error {
		if err := tx.Products.Create(ctx, product); err != nil {
			return err
		}
		if !in.TrackInventory || in.InitialStock == 0 {
			return nil
		}
		p, _, err := inventory.ApplyInTx(ctx, tx, inventory.Adjustment{
			BusinessID: businessID,
			ProductID:  product.ID,
			Type:       entity.MovementTypeIn,
			Quantity:   in.InitialStock,
			UnitCost:   in.UnitCost,
			Reason:     "existencia inicial",
			ActorID:    actor,
		}, now)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := inventory.ToProductResponse(product)
	return &out, nil
}

// GetByID obtiene un producto de la empresa.
func (uc *ProductUseCase) GetByID(ctx context.Context, businessID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	out := inventory.ToProductResponse(product)
	return &out, nil
}

// Update modifica los datos descriptivos. No permite modificar la existencia.
func (uc *ProductUseCase) Update(ctx context.Context, businessID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := validator.ValidateRequest(&in); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil {
		product.SKU = *in.SKU
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.UnitPrice != nil {
		product.UnitPrice = *in.UnitPrice
	}
	if in.UnitCost != nil {
		product.UnitCost = in.UnitCost
	}
	if in.TaxRate != nil {
		product.TaxRate = *in.TaxRate
	}
	if in.TrackInventory != nil {
		if !*in.TrackInventory && product.TrackInventory && product.StockQuantity > 0 {
			return nil, domain.NewValidationError("trackInventory", "ajuste la existencia a cero antes de desactivar el control")
		}
		product.TrackInventory = *in.TrackInventory
	}
	if in.LowStockThreshold != nil {
		product.LowStockThreshold = in.LowStockThreshold
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	out := inventory.ToProductResponse(product)
	return &out, nil
}

// List lista productos por empresa con paginación y búsqueda por nombre o SKU.
func (uc *ProductUseCase) List(ctx context.Context, businessID, search string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, businessID, repository.ProductFilter{
		Search: search,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: lo.Map(list, func(p *entity.Product, _ int) dto.ProductResponse { return inventory.ToProductResponse(p) }),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete elimina el producto si ninguna factura lo referencia y no tiene kardex.
func (uc *ProductUseCase) Delete(ctx context.Context, businessID, id string) error {
	if _, err := uc.repo.GetByID(ctx, businessID, id); err != nil {
		return err
	}
	n, err := uc.invoiceRepo.CountByProduct(ctx, businessID, id)
	if err != nil {
		return errors.Wrap(err, "contar facturas")
	}
	if n > 0 {
		return domain.ErrConflict
	}
	movs, err := uc.movRepo.ListByProduct(ctx, businessID, id, 1, 0)
	if err != nil {
		return errors.Wrap(err, "consultar kardex")
	}
	if len(movs) > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, businessID, id)
}
