package inventory

import (
	"context"
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

// StockUseCase expone las operaciones manuales de inventario: entradas, salidas,
// ajustes a valor contado y consultas del kardex.
type StockUseCase struct {
	txRunner    ports.TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner ports.TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	log *logger.Logger,
) *StockUseCase {
	return &StockUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		log:         log.Component("inventory"),
		now:         time.Now,
	}
}

// AddStock registra una entrada (reposición) de stock.
func (uc *StockUseCase) AddStock(ctx context.Context, businessID, userID string, in dto.AddStockRequest) (*dto.StockAdjustmentResponse, error) {
	return uc.run(ctx, Adjustment{
		BusinessID: businessID,
		ProductID:  in.ProductID,
		Type:       entity.MovementTypeIn,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		Reason:     lo.Ternary(in.Reason != "", in.Reason, "reposición"),
		Notes:      in.Notes,
		ActorID:    optional(userID),
	})
}

// RemoveStock registra una salida manual (merma, consumo interno, devolución a proveedor).
func (uc *StockUseCase) RemoveStock(ctx context.Context, businessID, userID string, in dto.AddStockRequest) (*dto.StockAdjustmentResponse, error) {
	return uc.run(ctx, Adjustment{
		BusinessID: businessID,
		ProductID:  in.ProductID,
		Type:       entity.MovementTypeOut,
		Quantity:   in.Quantity,
		Reason:     lo.Ternary(in.Reason != "", in.Reason, "salida manual"),
		Notes:      in.Notes,
		ActorID:    optional(userID),
	})
}

// AdjustStock fija la existencia a un valor contado.
func (uc *StockUseCase) AdjustStock(ctx context.Context, businessID, userID string, in dto.AdjustStockRequest) (*dto.StockAdjustmentResponse, error) {
	if in.NewQuantity == nil {
		return nil, domain.NewValidationError("newQuantity", "es obligatorio")
	}
	return uc.run(ctx, Adjustment{
		BusinessID: businessID,
		ProductID:  in.ProductID,
		Type:       entity.MovementTypeAdjustment,
		Target:     *in.NewQuantity,
		Reason:     lo.Ternary(in.Reason != "", in.Reason, "ajuste de inventario"),
		Notes:      in.Notes,
		ActorID:    optional(userID),
	})
}

func (uc *StockUseCase) run(ctx context.Context, a Adjustment) (*dto.StockAdjustmentResponse, error) {
	var (
		product *entity.Product
		mov     *entity.StockMovement
	)
	err := uc.txRunner.WithinTx(ctx, func(tx ports.TxRepos) error {
		var err error
		product, mov, err = ApplyInTx(ctx, tx, a, uc.now())
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("business_id", a.BusinessID).
			Str("product_id", a.ProductID).
			Str("type", a.Type).
			Msg("operación de stock rechazada")
		return nil, err
	}

	out := &dto.StockAdjustmentResponse{Product: ToProductResponse(product)}
	if mov != nil {
		m := ToMovementResponse(mov)
		out.Movement = &m
		uc.log.Info().
			Str("business_id", a.BusinessID).
			Str("product_id", product.ID).
			Str("type", mov.Type).
			Int("previous_qty", mov.PreviousQty).
			Int("new_qty", mov.NewQty).
			Msg("stock actualizado")
	}
	return out, nil
}

// ListInventory devuelve los productos con control de inventario y su existencia.
func (uc *StockUseCase) ListInventory(ctx context.Context, businessID string, page dto.PageRequest, lowOnly bool) (*dto.InventoryListResponse, error) {
	page.DefaultPage()
	products, total, err := uc.productRepo.List(ctx, businessID, repository.ProductFilter{
		TrackedOnly: true,
		LowStock:    lowOnly,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.InventoryListResponse{
		Items: lo.Map(products, func(p *entity.Product, _ int) dto.InventoryItemDTO {
			return dto.InventoryItemDTO{
				ProductID:         p.ID,
				SKU:               p.SKU,
				Name:              p.Name,
				StockQuantity:     p.StockQuantity,
				LowStockThreshold: p.LowStockThreshold,
				LowStock:          p.IsLowStock(),
				UnitCost:          p.UnitCost,
			}
		}),
		Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ReplenishmentSuggestions lista los productos en o bajo su umbral con la cantidad
// sugerida para volver al stock ideal (umbral * 1.5).
func (uc *StockUseCase) ReplenishmentSuggestions(ctx context.Context, businessID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	products, _, err := uc.productRepo.List(ctx, businessID, repository.ProductFilter{
		TrackedOnly: true,
		LowStock:    true,
		Limit:       500,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(products))
	for _, p := range products {
		if p.LowStockThreshold == nil {
			continue
		}
		ideal := int(math.Ceil(float64(*p.LowStockThreshold) * 1.5))
		if ideal < 1 {
			ideal = 1
		}
		out = append(out, dto.ReplenishmentSuggestionDTO{
			ProductID:         p.ID,
			SKU:               p.SKU,
			Name:              p.Name,
			CurrentStock:      p.StockQuantity,
			Threshold:         *p.LowStockThreshold,
			IdealStock:        ideal,
			SuggestedOrderQty: max(ideal-p.StockQuantity, 0),
		})
	}
	return out, nil
}

// ListMovements devuelve el kardex del producto, el movimiento más reciente primero.
func (uc *StockUseCase) ListMovements(ctx context.Context, businessID, productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	if _, err := uc.productRepo.GetByID(ctx, businessID, productID); err != nil {
		return nil, err
	}
	movs, err := uc.movRepo.ListByProduct(ctx, businessID, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.MovementListResponse{
		Movements: lo.Map(movs, func(m *entity.StockMovement, _ int) dto.StockMovementResponse {
			return ToMovementResponse(m)
		}),
	}, nil
}

// ToMovementResponse convierte un movimiento a DTO.
func ToMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		PreviousQty: m.PreviousQty,
		NewQty:      m.NewQty,
		InvoiceID:   m.InvoiceID,
		Reason:      m.Reason,
		Notes:       m.Notes,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// ToProductResponse convierte un producto a DTO.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                p.ID,
		BusinessID:        p.BusinessID,
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		UnitPrice:         p.UnitPrice,
		UnitCost:          p.UnitCost,
		TaxRate:           p.TaxRate,
		TrackInventory:    p.TrackInventory,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
