package billing

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/inventory"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

// InvoiceUseCase crea facturas (con descuento de inventario en la misma transacción),
// las consulta y gestiona sus cambios de estado manuales.
type InvoiceUseCase struct {
	txRunner     ports.TxRunner
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	log          *logger.Logger
	now          func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner ports.TxRunner,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		log:          log.Component("billing"),
		now:          time.Now,
	}
}

// GetInvoice devuelve la factura con sus líneas.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, businessID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Items == nil {
		if inv.Items, err = uc.invoiceRepo.GetItems(ctx, inv.ID); err != nil {
			return nil, err
		}
	}
	name := ""
	if c, err := uc.customerRepo.GetByID(ctx, businessID, inv.CustomerID); err == nil {
		name = c.Name
	}
	out := ToInvoiceResponse(inv, name)
	return &out, nil
}

// ListInvoices lista las facturas de la empresa, la más reciente primero.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, businessID string, f dto.InvoiceFilterRequest) (*dto.InvoiceListResponse, error) {
	f.DefaultPage()
	invs, total, err := uc.invoiceRepo.List(ctx, businessID, repository.InvoiceFilter{
		Status:     f.Status,
		CustomerID: f.CustomerID,
		Limit:      f.Limit,
		Offset:     f.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceListResponse{
		Items: lo.Map(invs, func(inv *entity.Invoice, _ int) dto.InvoiceResponse {
			return ToInvoiceResponse(inv, "")
		}),
		Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}, nil
}

// UpdateStatus aplica un cambio de estado manual. Las facturas pagadas o anuladas
// no cambian; "paid" solo se alcanza aplicando pagos. Anular una factura sin abonos
// devuelve al inventario las unidades que descontó.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, businessID, userID, invoiceID string, in dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	if !entity.ValidInvoiceStatus(in.Status) || in.Status == entity.InvoiceStatusPaid {
		return nil, domain.NewValidationError("status", "estado no permitido")
	}

	var inv *entity.Invoice
	err := uc.txRunner.WithinTx(ctx, func(tx ports.TxRepos) error {
		var err error
		inv, err = tx.Invoices.GetForUpdate(ctx, businessID, invoiceID)
		if err != nil {
			return err
		}
		if inv.IsTerminal() {
			return domain.ErrConflict
		}
		if in.Status == entity.InvoiceStatusVoid && inv.PaidAmount.IsPositive() {
			return domain.ErrConflict
		}
		if inv.Status == in.Status {
			return nil
		}
		if err := tx.Invoices.UpdateStatus(ctx, businessID, invoiceID, in.Status); err != nil {
			return err
		}
		if in.Status == entity.InvoiceStatusVoid {
			if err := uc.restock(ctx, tx, inv, userID); err != nil {
				return err
			}
		}
		inv.Status = in.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("business_id", businessID).
		Str("invoice", inv.InvoiceNumber).
		Str("status", inv.Status).
		Msg("estado de factura actualizado")
	return uc.GetInvoice(ctx, businessID, invoiceID)
}

// restock revierte las salidas que la factura registró en el kardex. Se basa en los
// movimientos y no en las líneas: un producto que empezó a controlar stock después
// de facturar no recibe unidades que nunca se descontaron.
func (uc *InvoiceUseCase) restock(ctx context.Context, tx ports.TxRepos, inv *entity.Invoice, userID string) error {
	movs, err := tx.Movements.ListByInvoice(ctx, inv.BusinessID, inv.ID)
	if err != nil {
		return err
	}
	now := uc.now()
	for _, m := range movs {
		if m.Type != entity.MovementTypeOut {
			continue
		}
		_, _, err := inventory.ApplyInTx(ctx, tx, inventory.Adjustment{
			BusinessID: inv.BusinessID,
			ProductID:  m.ProductID,
			Type:       entity.MovementTypeIn,
			Quantity:   m.Quantity,
			InvoiceID:  &inv.ID,
			Reason:     "anulación de factura " + inv.InvoiceNumber,
			ActorID:    optional(userID),
		}, now)
		if err != nil {
			return err
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
