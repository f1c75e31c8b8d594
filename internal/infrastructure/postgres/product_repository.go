package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, business_id, sku, name, description, unit_price, unit_cost, tax_rate,
	track_inventory, stock_quantity, low_stock_threshold, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p           entity.Product
		description *string
	)
	err := row.Scan(&p.ID, &p.BusinessID, &p.SKU, &p.Name, &description, &p.UnitPrice, &p.UnitCost, &p.TaxRate,
		&p.TrackInventory, &p.StockQuantity, &p.LowStockThreshold, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = deref(description)
	return &p, nil
}

// Create persiste un producto. El SKU es único por empresa sin distinguir mayúsculas.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.BusinessID, p.SKU, p.Name, nullIfEmpty(p.Description), p.UnitPrice, p.UnitCost, p.TaxRate,
		p.TrackInventory, p.StockQuantity, p.LowStockThreshold, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return errors.Wrap(err, "insert product")
	}
	return nil
}

// GetByID obtiene un producto de la empresa.
func (r *ProductRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND business_id = $2`, id, businessID))
	if err != nil {
		return nil, notFound(err, "get product")
	}
	return p, nil
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, businessID, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND business_id = $2 FOR UPDATE`, id, businessID))
	if err != nil {
		return nil, notFound(err, "get product for update")
	}
	return p, nil
}

// List lista productos por nombre. LowStock implica TrackedOnly.
func (r *ProductRepo) List(ctx context.Context, businessID string, f repository.ProductFilter) ([]*entity.Product, int, error) {
	const where = `
		WHERE business_id = $1
		  AND ($2 = '' OR name ILIKE $3 OR sku ILIKE $3)
		  AND (NOT $4 OR track_inventory)
		  AND (NOT $5 OR (track_inventory AND low_stock_threshold IS NOT NULL AND stock_quantity <= low_stock_threshold))`
	pattern := escapeLike(f.Search)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products`+where,
		businessID, f.Search, pattern, f.TrackedOnly, f.LowStock,
	).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products`+where+`
		ORDER BY name, sku LIMIT $6 OFFSET $7`,
		businessID, f.Search, pattern, f.TrackedOnly, f.LowStock, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	defer rows.Close()

	list := make([]*entity.Product, 0, f.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scan product")
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Update modifica los datos descriptivos. stock_quantity y unit_cost solo los escribe UpdateStock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE products
		SET sku = $3, name = $4, description = $5, unit_price = $6, tax_rate = $7,
		    track_inventory = $8, low_stock_threshold = $9, updated_at = $10
		WHERE id = $1 AND business_id = $2`,
		p.ID, p.BusinessID, p.SKU, p.Name, nullIfEmpty(p.Description), p.UnitPrice, p.TaxRate,
		p.TrackInventory, p.LowStockThreshold, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return errors.Wrap(err, "update product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock escribe existencia y costo promedio. El CHECK de la tabla rechaza negativos.
func (r *ProductRepo) UpdateStock(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE products
		SET stock_quantity = $3, unit_cost = $4, updated_at = $5
		WHERE id = $1 AND business_id = $2`,
		p.ID, p.BusinessID, p.StockQuantity, p.UnitCost, p.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "update product stock")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto sin referencias.
func (r *ProductRepo) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1 AND business_id = $2`, id, businessID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return errors.Wrap(err, "delete product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
