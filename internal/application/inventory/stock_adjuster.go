package inventory

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/inventory"
)

// Adjustment es una operación de stock que se ejecuta dentro de una transacción abierta.
type Adjustment struct {
	BusinessID string
	ProductID  string
	Type       string // in, out, adjustment
	Quantity   int    // magnitud para in/out
	Target     int    // existencia contada para adjustment
	UnitCost   *decimal.Decimal
	InvoiceID  *string
	Reason     string
	Notes      string
	ActorID    *string
}

// ApplyInTx bloquea el producto (SELECT FOR UPDATE), calcula la nueva existencia,
// la escribe y agrega un movimiento al kardex, todo con los repositorios de tx.
// Si el producto no controla inventario no hace nada y devuelve movimiento nil.
// Si la salida dejaría la existencia negativa devuelve domain.InsufficientStockError
// y el caller debe hacer rollback.
func ApplyInTx(ctx context.Context, tx ports.TxRepos, a Adjustment, now time.Time) (*entity.Product, *entity.StockMovement, error) {
	product, err := tx.Products.GetForUpdate(ctx, a.BusinessID, a.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if !product.TrackInventory {
		return product, nil, nil
	}

	res, err := inventory.Apply(product, inventory.Change{Type: a.Type, Quantity: a.Quantity, Target: a.Target})
	if err != nil {
		return nil, nil, err
	}

	if a.Type == entity.MovementTypeIn && a.UnitCost != nil {
		cost := inventory.WeightedAverageCost(res.PreviousQty, product.UnitCost, res.Quantity, *a.UnitCost)
		product.UnitCost = &cost
	}
	product.StockQuantity = res.NewQty
	product.UpdatedAt = now
	if err := tx.Products.UpdateStock(ctx, product); err != nil {
		return nil, nil, errors.Wrap(err, "actualizar existencia")
	}

	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		BusinessID:  a.BusinessID,
		ProductID:   product.ID,
		Type:        a.Type,
		Quantity:    res.Quantity,
		PreviousQty: res.PreviousQty,
		NewQty:      res.NewQty,
		InvoiceID:   a.InvoiceID,
		Reason:      a.Reason,
		Notes:       a.Notes,
		CreatedBy:   a.ActorID,
		CreatedAt:   now,
	}
	if err := tx.Movements.Create(ctx, mov); err != nil {
		return nil, nil, errors.Wrap(err, "registrar movimiento")
	}
	return product, mov, nil
}
