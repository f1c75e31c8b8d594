package repository

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// InvoiceFilter filtros de listado de facturas.
type InvoiceFilter struct {
	Status     string
	CustomerID string
	Limit      int
	Offset     int
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// Create inserta la cabecera y todas sus líneas.
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Invoice, error)
	// GetForUpdate bloquea la factura hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, businessID, id string) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	List(ctx context.Context, businessID string, f InvoiceFilter) ([]*entity.Invoice, int, error)
	// UpdatePayment persiste PaidAmount, BalanceDue, Status y PaidDate.
	UpdatePayment(ctx context.Context, inv *entity.Invoice) error
	UpdateStatus(ctx context.Context, businessID, id, status string) error
	CountByCustomer(ctx context.Context, businessID, customerID string) (int, error)
	CountByProduct(ctx context.Context, businessID, productID string) (int, error)
}
