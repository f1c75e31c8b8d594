package ports

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción.
type TxRepos struct {
	Businesses repository.BusinessRepository
	Settings   repository.BusinessSettingsRepository
	Users      repository.UserRepository
	Customers  repository.CustomerRepository
	Products   repository.ProductRepository
	Movements  repository.StockMovementRepository
	Invoices   repository.InvoiceRepository
	Payments   repository.PaymentRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD. Si fn devuelve error se hace
// rollback completo; si no, commit. Los errores de almacenamiento se devuelven
// marcados como domain.ErrTransactionFailure.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx TxRepos) error) error
}
