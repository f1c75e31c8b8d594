package inventory

import (
	"github.com/cockroachdb/errors"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// Change describe una operación sobre la existencia de un producto.
// Para in/out Quantity es la magnitud (> 0); para adjustment Target es la existencia contada (>= 0).
type Change struct {
	Type     string
	Quantity int
	Target   int
}

// Result es el par leído/escrito que queda registrado en el movimiento.
type Result struct {
	PreviousQty int
	NewQty      int
	Quantity    int
}

// Apply calcula la nueva existencia a partir de la actual. No modifica nada.
// Una salida que dejaría la existencia negativa devuelve InsufficientStockError.
func Apply(p *entity.Product, c Change) (Result, error) {
	prev := p.StockQuantity
	switch c.Type {
	case entity.MovementTypeIn:
		if c.Quantity <= 0 {
			return Result{}, domain.NewValidationError("quantity", "la cantidad debe ser mayor que cero")
		}
		return Result{PreviousQty: prev, NewQty: prev + c.Quantity, Quantity: c.Quantity}, nil
	case entity.MovementTypeOut:
		if c.Quantity <= 0 {
			return Result{}, domain.NewValidationError("quantity", "la cantidad debe ser mayor que cero")
		}
		if prev-c.Quantity < 0 {
			return Result{}, &domain.InsufficientStockError{Items: []domain.StockShortage{{
				LineIndex:   -1,
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   c.Quantity,
				Available:   prev,
			}}}
		}
		return Result{PreviousQty: prev, NewQty: prev - c.Quantity, Quantity: c.Quantity}, nil
	case entity.MovementTypeAdjustment:
		if c.Target < 0 {
			return Result{}, domain.NewValidationError("newQuantity", "la existencia no puede ser negativa")
		}
		diff := c.Target - prev
		if diff < 0 {
			diff = -diff
		}
		return Result{PreviousQty: prev, NewQty: c.Target, Quantity: diff}, nil
	default:
		return Result{}, errors.Wrapf(domain.NewValidationError("type", "tipo de movimiento inválido"), "tipo %q", c.Type)
	}
}
