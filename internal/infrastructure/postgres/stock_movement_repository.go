package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo kardex sobre PostgreSQL. Solo inserta y lee.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, business_id, product_id, type, quantity, previous_qty, new_qty,
	invoice_id, reason, notes, created_by, created_at`

// Create inserta un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.BusinessID, m.ProductID, m.Type, m.Quantity, m.PreviousQty, m.NewQty,
		m.InvoiceID, nullIfEmpty(m.Reason), nullIfEmpty(m.Notes), m.CreatedBy, m.CreatedAt,
	)
	return errors.Wrap(err, "insert stock movement")
}

// ListByProduct movimientos del producto, el más reciente primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, businessID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+movementColumns+` FROM stock_movements
		WHERE business_id = $1 AND product_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`, businessID, productID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "list stock movements")
	}
	return collectMovements(rows)
}

// ListByInvoice movimientos generados por una factura (venta y anulación).
func (r *StockMovementRepo) ListByInvoice(ctx context.Context, businessID, invoiceID string) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+movementColumns+` FROM stock_movements
		WHERE business_id = $1 AND invoice_id = $2
		ORDER BY created_at, id`, businessID, invoiceID)
	if err != nil {
		return nil, errors.Wrap(err, "list invoice movements")
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m             entity.StockMovement
			reason, notes *string
		)
		if err := rows.Scan(&m.ID, &m.BusinessID, &m.ProductID, &m.Type, &m.Quantity, &m.PreviousQty, &m.NewQty,
			&m.InvoiceID, &reason, &notes, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan stock movement")
		}
		m.Reason, m.Notes = deref(reason), deref(notes)
		list = append(list, &m)
	}
	return list, rows.Err()
}
