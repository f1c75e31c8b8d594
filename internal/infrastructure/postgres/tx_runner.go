package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL READ COMMITTED.
// La consistencia de existencias y consecutivos la dan los SELECT ... FOR UPDATE de
// los repositorios y el UPDATE ... RETURNING de los contadores.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Repos construye los repositorios sobre un Querier: el pool o la tx en curso.
func Repos(q Querier) ports.TxRepos {
	return ports.TxRepos{
		Businesses: NewBusinessRepository(q),
		Settings:   NewBusinessSettingsRepository(q),
		Users:      NewUserRepository(q),
		Customers:  NewCustomerRepository(q),
		Products:   NewProductRepository(q),
		Movements:  NewStockMovementRepository(q),
		Invoices:   NewInvoiceRepository(q),
		Payments:   NewPaymentRepository(q),
	}
}

// WithinTx inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(tx ports.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return domain.AsTransactionFailure(errors.Wrap(err, "begin transaction"))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(Repos(tx)); err != nil {
		return domain.AsTransactionFailure(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.AsTransactionFailure(errors.Wrap(err, "commit transaction"))
	}
	return nil
}
