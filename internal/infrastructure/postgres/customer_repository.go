package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, business_id, name, tax_id, email, phone, address, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var (
		c                            entity.Customer
		taxID, email, phone, address *string
	)
	if err := row.Scan(&c.ID, &c.BusinessID, &c.Name, &taxID, &email, &phone, &address, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.TaxID, c.Email, c.Phone, c.Address = deref(taxID), deref(email), deref(phone), deref(address)
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.BusinessID, c.Name, nullIfEmpty(c.TaxID), nullIfEmpty(c.Email), nullIfEmpty(c.Phone),
		nullIfEmpty(c.Address), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return errors.Wrap(err, "insert customer")
	}
	return nil
}

// GetByID obtiene un cliente de la empresa.
func (r *CustomerRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1 AND business_id = $2`, id, businessID))
	if err != nil {
		return nil, notFound(err, "get customer")
	}
	return c, nil
}

// List lista clientes por nombre con búsqueda opcional en nombre, email y documento.
func (r *CustomerRepo) List(ctx context.Context, businessID string, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	const where = `
		WHERE business_id = $1
		  AND ($2 = '' OR name ILIKE $3 OR email ILIKE $3 OR tax_id ILIKE $3)`
	pattern := escapeLike(f.Search)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM customers`+where, businessID, f.Search, pattern).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count customers")
	}
	rows, err := r.q.Query(ctx, `SELECT `+customerColumns+` FROM customers`+where+`
		ORDER BY name LIMIT $4 OFFSET $5`, businessID, f.Search, pattern, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list customers")
	}
	defer rows.Close()

	list := make([]*entity.Customer, 0, f.Limit)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scan customer")
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Update reemplaza los datos del cliente.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE customers
		SET name = $3, tax_id = $4, email = $5, phone = $6, address = $7, updated_at = $8
		WHERE id = $1 AND business_id = $2`,
		c.ID, c.BusinessID, c.Name, nullIfEmpty(c.TaxID), nullIfEmpty(c.Email), nullIfEmpty(c.Phone),
		nullIfEmpty(c.Address), c.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "update customer")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente. Si tiene facturas la FK lo impide y se devuelve ErrConflict.
func (r *CustomerRepo) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1 AND business_id = $2`, id, businessID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return errors.Wrap(err, "delete customer")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
