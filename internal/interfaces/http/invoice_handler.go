package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	invoices  *billing.InvoiceUseCase
	payments  *billing.PaymentUseCase
	documents *billing.DocumentUseCase
	log       *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoices *billing.InvoiceUseCase, payments *billing.PaymentUseCase, documents *billing.DocumentUseCase, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, payments: payments, documents: documents, log: log}
}

// Create godoc
// @Summary      Crear factura
// @Description  Asigna el número consecutivo, calcula totales y descuenta inventario en una sola transacción.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Cliente y líneas"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK con details.items"
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := sameBusiness(c, in.BusinessID); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.invoices.CreateInvoice(c.UserContext(), GetBusinessID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "draft, sent, paid, overdue o void"
// @Param        customerId  query  string  false  "ID del cliente"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {object}  dto.InvoiceListResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var f dto.InvoiceFilterRequest
	if err := c.QueryParser(&f); err != nil {
		return badBody(c)
	}
	out, err := h.invoices.ListInvoices(c.UserContext(), GetBusinessID(c), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.invoices.GetInvoice(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de factura
// @Description  Anular devuelve el stock descontado; no se puede anular una factura con pagos.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la factura"
// @Param        body  body  dto.UpdateInvoiceStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.invoices.UpdateStatus(c.UserContext(), GetBusinessID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Payments godoc
// @Summary      Pagos de una factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {array}   dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/payments [get]
func (h *InvoiceHandler) Payments(c *fiber.Ctx) error {
	out, err := h.payments.ListByInvoice(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar factura en PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	body, name, err := h.documents.DownloadInvoicePDF(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendAttachment(c, "application/pdf", name, body)
}

// XML godoc
// @Summary      Exportar factura en UBL 2.1
// @Tags         invoices
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/xml [get]
func (h *InvoiceHandler) XML(c *fiber.Ctx) error {
	body, name, err := h.documents.ExportInvoiceXML(c.UserContext(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendAttachment(c, fiber.MIMEApplicationXMLCharsetUTF8, name, body)
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(body)
}
