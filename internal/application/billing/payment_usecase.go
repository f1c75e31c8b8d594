package billing

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/domain/billing"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/internal/validator"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

// PaymentUseCase registra abonos contra facturas.
type PaymentUseCase struct {
	txRunner    ports.TxRunner
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	txRunner ports.TxRunner,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	log *logger.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		log:         log.Component("payments"),
		now:         time.Now,
	}
}

// ApplyPayment bloquea la factura, calcula el nuevo saldo, reserva el consecutivo del
// pago, inserta el pago y actualiza la factura en la misma transacción.
// Abonos mayores que el saldo se rechazan con ValidationError.
func (uc *PaymentUseCase) ApplyPayment(ctx context.Context, businessID, userID string, in dto.CreatePaymentRequest) (*dto.PaymentResultResponse, error) {
	if err := validator.ValidateRequest(&in); err != nil {
		return nil, err
	}
	now := uc.now()
	paymentDate := now
	if in.PaymentDate != nil {
		paymentDate = *in.PaymentDate
	}

	var (
		inv *entity.Invoice
		pay *entity.Payment
	)
	err := uc.txRunner.WithinTx(ctx, func(tx ports.TxRepos) error {
		var err error
		inv, err = tx.Invoices.GetForUpdate(ctx, businessID, in.InvoiceID)
		if err != nil {
			return errors.Wrap(err, "factura")
		}

		outcome, err := billing.ApplyPayment(inv, in.Amount, now)
		if err != nil {
			return err
		}

		prefix, number, err := tx.Settings.NextPaymentNumber(ctx, businessID)
		if err != nil {
			return errors.Wrap(err, "reservar consecutivo de pago")
		}

		pay = &entity.Payment{
			ID:            uuid.New().String(),
			BusinessID:    businessID,
			InvoiceID:     inv.ID,
			PaymentNumber: billing.FormatNumber(prefix, number),
			Amount:        in.Amount,
			PaymentDate:   paymentDate,
			Method:        in.PaymentMethod,
			TransactionID: in.TransactionID,
			CheckNumber:   in.CheckNumber,
			Notes:         in.Notes,
			Status:        entity.PaymentStatusCompleted,
			CreatedBy:     optional(userID),
			CreatedAt:     now,
		}
		if err := tx.Payments.Create(ctx, pay); err != nil {
			return errors.Wrap(err, "insertar pago")
		}

		inv.PaidAmount = outcome.PaidAmount
		inv.BalanceDue = outcome.BalanceDue
		inv.Status = outcome.Status
		inv.PaidDate = outcome.PaidDate
		inv.UpdatedAt = now
		return tx.Invoices.UpdatePayment(ctx, inv)
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("business_id", businessID).
			Str("invoice_id", in.InvoiceID).
			Str("amount", in.Amount.String()).
			Msg("pago rechazado")
		return nil, err
	}

	uc.log.Info().
		Str("business_id", businessID).
		Str("payment", pay.PaymentNumber).
		Str("invoice", inv.InvoiceNumber).
		Str("balance_due", inv.BalanceDue.StringFixed(2)).
		Str("status", inv.Status).
		Msg("pago aplicado")

	inv.Items = nil
	return &dto.PaymentResultResponse{
		Payment: ToPaymentResponse(pay),
		Invoice: ToInvoiceResponse(inv, ""),
	}, nil
}

// ListByInvoice devuelve los pagos de una factura en orden de registro.
func (uc *PaymentUseCase) ListByInvoice(ctx context.Context, businessID, invoiceID string) ([]dto.PaymentResponse, error) {
	if _, err := uc.invoiceRepo.GetByID(ctx, businessID, invoiceID); err != nil {
		return nil, err
	}
	pays, err := uc.paymentRepo.ListByInvoice(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}
	return lo.Map(pays, func(p *entity.Payment, _ int) dto.PaymentResponse { return ToPaymentResponse(p) }), nil
}

// List devuelve los pagos de la empresa, el más reciente primero.
func (uc *PaymentUseCase) List(ctx context.Context, businessID string, page dto.PageRequest) (*dto.PaymentListResponse, error) {
	page.DefaultPage()
	pays, total, err := uc.paymentRepo.List(ctx, businessID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.PaymentListResponse{
		Items: lo.Map(pays, func(p *entity.Payment, _ int) dto.PaymentResponse { return ToPaymentResponse(p) }),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Get devuelve un pago.
func (uc *PaymentUseCase) Get(ctx context.Context, businessID, paymentID string) (*dto.PaymentResponse, error) {
	p, err := uc.paymentRepo.GetByID(ctx, businessID, paymentID)
	if err != nil {
		return nil, err
	}
	out := ToPaymentResponse(p)
	return &out, nil
}
