package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, business_id, customer_id, invoice_number, issue_date, due_date,
	subtotal, tax_amount, discount_amount, total_amount, paid_amount, balance_due,
	status, paid_date, notes, terms, created_by, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv          entity.Invoice
		notes, terms *string
	)
	err := row.Scan(&inv.ID, &inv.BusinessID, &inv.CustomerID, &inv.InvoiceNumber, &inv.IssueDate, &inv.DueDate,
		&inv.Subtotal, &inv.TaxAmount, &inv.DiscountAmount, &inv.TotalAmount, &inv.PaidAmount, &inv.BalanceDue,
		&inv.Status, &inv.PaidDate, &notes, &terms, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.Notes, inv.Terms = deref(notes), deref(terms)
	return &inv, nil
}

// Create persiste la cabecera y envía todas las líneas en un solo batch.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		inv.ID, inv.BusinessID, inv.CustomerID, inv.InvoiceNumber, inv.IssueDate, inv.DueDate,
		inv.Subtotal, inv.TaxAmount, inv.DiscountAmount, inv.TotalAmount, inv.PaidAmount, inv.BalanceDue,
		inv.Status, inv.PaidDate, nullIfEmpty(inv.Notes), nullIfEmpty(inv.Terms), inv.CreatedBy,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Mark(errors.Wrap(err, "invoice number already exists"), domain.ErrDuplicate)
		}
		return errors.Wrap(err, "insert invoice")
	}
	if len(inv.Items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, it := range inv.Items {
		batch.Queue(`
			INSERT INTO invoice_items (id, invoice_id, product_id, position, description, quantity,
				unit_price, tax_rate, discount_percent, discount_amount, tax_amount, amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			it.ID, inv.ID, it.ProductID, it.Position, it.Description, it.Quantity,
			it.UnitPrice, it.TaxRate, it.DiscountPercent, it.DiscountAmount, it.TaxAmount, it.Amount)
	}
	br := r.q.SendBatch(ctx, batch)
	for range inv.Items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return errors.Wrap(err, "insert invoice item")
		}
	}
	return errors.Wrap(br.Close(), "close invoice items batch")
}

// GetByID obtiene la cabecera de una factura de la empresa (sin líneas).
func (r *InvoiceRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 AND business_id = $2`, id, businessID))
	if err != nil {
		return nil, notFound(err, "get invoice")
	}
	return inv, nil
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, businessID, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 AND business_id = $2 FOR UPDATE`, id, businessID))
	if err != nil {
		return nil, notFound(err, "get invoice for update")
	}
	return inv, nil
}

// GetItems devuelve las líneas en el orden en que se capturaron.
func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, product_id, position, description, quantity,
		       unit_price, tax_rate, discount_percent, discount_amount, tax_amount, amount
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`, invoiceID)
	if err != nil {
		return nil, errors.Wrap(err, "list invoice items")
	}
	defer rows.Close()

	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Position, &it.Description, &it.Quantity,
			&it.UnitPrice, &it.TaxRate, &it.DiscountPercent, &it.DiscountAmount, &it.TaxAmount, &it.Amount); err != nil {
			return nil, errors.Wrap(err, "scan invoice item")
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List lista facturas, la más reciente primero.
func (r *InvoiceRepo) List(ctx context.Context, businessID string, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	const where = `
		WHERE business_id = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR customer_id::text = $3)`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM invoices`+where,
		businessID, f.Status, f.CustomerID,
	).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count invoices")
	}

	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices`+where+`
		ORDER BY created_at DESC, invoice_number DESC LIMIT $4 OFFSET $5`,
		businessID, f.Status, f.CustomerID, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list invoices")
	}
	defer rows.Close()

	list := make([]*entity.Invoice, 0, f.Limit)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scan invoice")
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

// UpdatePayment persiste el resultado de aplicar un pago.
func (r *InvoiceRepo) UpdatePayment(ctx context.Context, inv *entity.Invoice) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices
		SET paid_amount = $3, balance_due = $4, status = $5, paid_date = $6, updated_at = $7
		WHERE id = $1 AND business_id = $2`,
		inv.ID, inv.BusinessID, inv.PaidAmount, inv.BalanceDue, inv.Status, inv.PaidDate, inv.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "update invoice payment")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia el estado manualmente.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, businessID, id, status string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $3, updated_at = now() WHERE id = $1 AND business_id = $2`,
		id, businessID, status)
	if err != nil {
		return errors.Wrap(err, "update invoice status")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByCustomer número de facturas del cliente.
func (r *InvoiceRepo) CountByCustomer(ctx context.Context, businessID, customerID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM invoices WHERE business_id = $1 AND customer_id = $2`, businessID, customerID,
	).Scan(&n)
	return n, errors.Wrap(err, "count invoices by customer")
}

// CountByProduct número de facturas con al menos una línea del producto.
func (r *InvoiceRepo) CountByProduct(ctx context.Context, businessID, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT count(DISTINCT i.id)
		FROM invoice_items it
		JOIN invoices i ON i.id = it.invoice_id
		WHERE i.business_id = $1 AND it.product_id = $2`, businessID, productID,
	).Scan(&n)
	return n, errors.Wrap(err, "count invoices by product")
}
