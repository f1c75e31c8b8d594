package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

// PaymentHandler registro y consulta de pagos.
type PaymentHandler struct {
	uc  *billing.PaymentUseCase
	log *logger.Logger
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *billing.PaymentUseCase, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar pago
// @Description  Aplica el pago a la factura y recalcula saldo y estado en la misma transacción.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePaymentRequest  true  "Pago"
// @Success      201   {object}  dto.PaymentResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := sameBusiness(c, in.BusinessID); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ApplyPayment(c.UserContext(), GetBusinessID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pagos
// @Description  Con invoiceId devuelve solo los pagos de esa factura.
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        invoiceId  query  string  false  "ID de la factura"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200        {object}  dto.PaymentListResponse
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	biz := GetBusinessID(c)
	if invoiceID := c.Query("invoiceId"); invoiceID != "" {
		items, err := h.uc.ListByInvoice(c.UserContext(), biz, invoiceID)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(dto.PaymentListResponse{
			Items: items,
			Page:  dto.PageResponse{Limit: len(items), Total: len(items)},
		})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), biz, page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pago
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pago"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
