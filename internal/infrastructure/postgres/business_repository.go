package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// BusinessRepo implementación de BusinessRepository sobre PostgreSQL (usable con pool o tx).
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

const businessColumns = `id, name, tax_id, address, phone, email, currency, status, created_at, updated_at`

func scanBusiness(row pgx.Row) (*entity.Business, error) {
	var (
		b                            entity.Business
		taxID, address, phone, email *string
	)
	if err := row.Scan(&b.ID, &b.Name, &taxID, &address, &phone, &email, &b.Currency, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.TaxID, b.Address, b.Phone, b.Email = deref(taxID), deref(address), deref(phone), deref(email)
	return &b, nil
}

// Create persiste una nueva empresa.
func (r *BusinessRepo) Create(ctx context.Context, b *entity.Business) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO businesses (`+businessColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.Name, nullIfEmpty(b.TaxID), nullIfEmpty(b.Address), nullIfEmpty(b.Phone), nullIfEmpty(b.Email),
		b.Currency, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return errors.Wrap(err, "insert business")
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	b, err := scanBusiness(r.q.QueryRow(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "get business")
	}
	return b, nil
}

// List lista empresas, la más reciente primero. status vacío = todas.
func (r *BusinessRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Business, int, error) {
	var total int
	if err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM businesses WHERE ($1 = '' OR status = $1)`, status,
	).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count businesses")
	}

	rows, err := r.q.Query(ctx, `
		SELECT `+businessColumns+` FROM businesses
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list businesses")
	}
	defer rows.Close()

	list := make([]*entity.Business, 0, limit)
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scan business")
		}
		list = append(list, b)
	}
	return list, total, rows.Err()
}

// UpdateStatus cambia el estado de aprobación.
func (r *BusinessRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE businesses SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return errors.Wrap(err, "update business status")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
