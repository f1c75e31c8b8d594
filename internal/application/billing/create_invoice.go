package billing

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/inventory"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/billing"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/validator"
)

// CreateInvoice crea la factura y descuenta el inventario en una sola transacción:
//  1. bloquea los productos referenciados y valida la existencia de todas las líneas;
//  2. calcula los importes;
//  3. reserva el consecutivo de la empresa;
//  4. inserta la cabecera y las líneas;
//  5. registra una salida por cada línea con producto controlado.
//
// Cualquier error deshace todo: no quedan facturas, movimientos ni consecutivos consumidos.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, businessID, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validator.ValidateRequest(&in); err != nil {
		return nil, err
	}

	now := uc.now()
	issueDate := now
	if in.IssueDate != nil {
		issueDate = *in.IssueDate
	}
	if in.DueDate.Before(truncateDay(issueDate)) {
		return nil, domain.NewValidationError("dueDate", "la fecha de vencimiento es anterior a la de emisión")
	}

	customer, err := uc.customerRepo.GetByID(ctx, businessID, in.CustomerID)
	if err != nil {
		return nil, errors.Wrap(err, "cliente")
	}

	totals := billing.ComputeTotals(lo.Map(in.Items, func(it dto.InvoiceItemRequest, _ int) billing.Line {
		return billing.Line{
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			TaxRate:         it.TaxRate,
			DiscountPercent: it.DiscountPercent,
		}
	}))

	var inv *entity.Invoice
	err = uc.txRunner.WithinTx(ctx, func(tx ports.TxRepos) error {
		products, err := lockProducts(ctx, tx, businessID, in.Items)
		if err != nil {
			return err
		}
		if err := checkStock(in.Items, products); err != nil {
			return err
		}

		prefix, number, err := tx.Settings.NextInvoiceNumber(ctx, businessID)
		if err != nil {
			return errors.Wrap(err, "reservar consecutivo")
		}

		inv = buildInvoice(businessID, userID, in, totals, issueDate, now)
		inv.InvoiceNumber = billing.FormatNumber(prefix, number)
		if err := tx.Invoices.Create(ctx, inv); err != nil {
			return errors.Wrap(err, "insertar factura")
		}

		for _, it := range inv.Items {
			if it.ProductID == nil || !products[*it.ProductID].TrackInventory {
				continue
			}
			_, _, err := inventory.ApplyInTx(ctx, tx, inventory.Adjustment{
				BusinessID: businessID,
				ProductID:  *it.ProductID,
				Type:       entity.MovementTypeOut,
				Quantity:   it.Quantity,
				InvoiceID:  &inv.ID,
				Reason:     "venta " + inv.InvoiceNumber,
				ActorID:    optional(userID),
			}, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		ev := uc.log.Warn()
		if errors.Is(err, domain.ErrTransactionFailure) {
			ev = uc.log.Error()
		}
		ev.Err(err).Str("business_id", businessID).Str("customer_id", in.CustomerID).Msg("factura no creada")
		return nil, err
	}

	uc.log.Info().
		Str("business_id", businessID).
		Str("invoice", inv.InvoiceNumber).
		Str("total", inv.TotalAmount.StringFixed(2)).
		Int("items", len(inv.Items)).
		Msg("factura creada")

	out := ToInvoiceResponse(inv, customer.Name)
	return &out, nil
}

// lockProducts bloquea los productos en orden de ID para que dos facturas que comparten
// productos no se bloqueen mutuamente.
func lockProducts(ctx context.Context, tx ports.TxRepos, businessID string, items []dto.InvoiceItemRequest) (map[string]*entity.Product, error) {
	ids := lo.Uniq(lo.FilterMap(items, func(it dto.InvoiceItemRequest, _ int) (string, bool) {
		return it.ProductID, it.ProductID != ""
	}))
	sort.Strings(ids)

	products := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := tx.Products.GetForUpdate(ctx, businessID, id)
		if err != nil {
			return nil, errors.Wrapf(err, "producto %s", id)
		}
		products[id] = p
	}
	return products, nil
}

// checkStock reúne todas las líneas cuyo producto no alcanza. La demanda se suma por
// producto, así que dos líneas del mismo producto se validan juntas.
func checkStock(items []dto.InvoiceItemRequest, products map[string]*entity.Product) error {
	demand := make(map[string]int, len(products))
	for _, it := range items {
		if it.ProductID != "" {
			demand[it.ProductID] += it.Quantity
		}
	}

	var short []domain.StockShortage
	for i, it := range items {
		p, ok := products[it.ProductID]
		if !ok || !p.TrackInventory {
			continue
		}
		if p.StockQuantity < demand[p.ID] {
			short = append(short, domain.StockShortage{
				LineIndex:   i,
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   demand[p.ID],
				Available:   p.StockQuantity,
			})
		}
	}
	if len(short) > 0 {
		return &domain.InsufficientStockError{Items: short}
	}
	return nil
}

func buildInvoice(businessID, userID string, in dto.CreateInvoiceRequest, totals billing.Totals, issueDate, now time.Time) *entity.Invoice {
	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		BusinessID:     businessID,
		CustomerID:     in.CustomerID,
		IssueDate:      issueDate,
		DueDate:        *in.DueDate,
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.TaxAmount,
		DiscountAmount: totals.DiscountAmount,
		TotalAmount:    totals.TotalAmount,
		PaidAmount:     decimal.Zero,
		BalanceDue:     totals.TotalAmount,
		Status:         lo.Ternary(in.Status != "", in.Status, entity.InvoiceStatusDraft),
		Notes:          in.Notes,
		Terms:          in.Terms,
		CreatedBy:      optional(userID),
		CreatedAt:      now,
		UpdatedAt:      now,
		Items:          make([]*entity.InvoiceItem, 0, len(in.Items)),
	}
	for i, it := range in.Items {
		lt := totals.Lines[i]
		inv.Items = append(inv.Items, &entity.InvoiceItem{
			ID:              uuid.New().String(),
			InvoiceID:       inv.ID,
			ProductID:       optional(it.ProductID),
			Position:        i + 1,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			TaxRate:         it.TaxRate,
			DiscountPercent: it.DiscountPercent,
			DiscountAmount:  lt.Discount,
			TaxAmount:       lt.Tax,
			Amount:          lt.Amount,
		})
	}
	return inv
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
