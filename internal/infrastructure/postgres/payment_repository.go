package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, business_id, invoice_id, payment_number, amount, payment_date, payment_method,
	transaction_id, check_number, notes, status, created_by, created_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var (
		p                        entity.Payment
		txID, checkNumber, notes *string
	)
	err := row.Scan(&p.ID, &p.BusinessID, &p.InvoiceID, &p.PaymentNumber, &p.Amount, &p.PaymentDate, &p.Method,
		&txID, &checkNumber, &notes, &p.Status, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.TransactionID, p.CheckNumber, p.Notes = deref(txID), deref(checkNumber), deref(notes)
	return &p, nil
}

// Create persiste un pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.BusinessID, p.InvoiceID, p.PaymentNumber, p.Amount, p.PaymentDate, p.Method,
		nullIfEmpty(p.TransactionID), nullIfEmpty(p.CheckNumber), nullIfEmpty(p.Notes), p.Status,
		p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Mark(errors.Wrap(err, "payment number already exists"), domain.ErrDuplicate)
		}
		return errors.Wrap(err, "insert payment")
	}
	return nil
}

// GetByID obtiene un pago de la empresa.
func (r *PaymentRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1 AND business_id = $2`, id, businessID))
	if err != nil {
		return nil, notFound(err, "get payment")
	}
	return p, nil
}

// ListByInvoice pagos de una factura en orden de aplicación.
func (r *PaymentRepo) ListByInvoice(ctx context.Context, businessID, invoiceID string) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE business_id = $1 AND invoice_id = $2
		ORDER BY created_at, payment_number`, businessID, invoiceID)
	if err != nil {
		return nil, errors.Wrap(err, "list invoice payments")
	}
	defer rows.Close()

	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan payment")
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// List pagos de la empresa, el más reciente primero.
func (r *PaymentRepo) List(ctx context.Context, businessID string, limit, offset int) ([]*entity.Payment, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM payments WHERE business_id = $1`, businessID).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count payments")
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE business_id = $1
		ORDER BY created_at DESC, payment_number DESC
		LIMIT $2 OFFSET $3`, businessID, limit, offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list payments")
	}
	defer rows.Close()

	list := make([]*entity.Payment, 0, limit)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scan payment")
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}
