package http

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/application/usecase"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

// AIHandler borradores de factura asistidos por IA.
type AIHandler struct {
	uc  *usecase.AIUseCase
	log *logger.Logger
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.AIUseCase, log *logger.Logger) *AIHandler {
	return &AIHandler{uc: uc, log: log}
}

// DraftFromText godoc
// @Summary      Borrador de factura desde texto
// @Description  Interpreta un pedido en texto libre (correo, chat) y propone cliente y líneas.
// @Description  No crea la factura. Timeout interno de 10 s.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InvoiceDraftRequest  true  "Texto del pedido"
// @Success      200   {object}  dto.InvoiceDraftDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Router       /api/ai/invoice-draft [post]
func (h *AIHandler) DraftFromText(c *fiber.Ctx) error {
	var in dto.InvoiceDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.draft(c, ports.DraftSource{Text: in.Text})
}

// DraftFromImage godoc
// @Summary      Borrador de factura desde imagen
// @Description  Recibe la foto de un pedido o recibo (multipart, campo "image", máx. 5 MB).
// @Tags         ai
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file    true   "Imagen del pedido"
// @Param        text   formData  string  false  "Indicaciones adicionales"
// @Success      200    {object}  dto.InvoiceDraftDTO
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      408    {object}  dto.ErrorResponse
// @Router       /api/ai/invoice-draft/image [post]
func (h *AIHandler) DraftFromImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return badBody(c)
	}
	f, err := fh.Open()
	if err != nil {
		return badBody(c)
	}
	defer f.Close()
	img, err := io.ReadAll(f)
	if err != nil {
		return badBody(c)
	}
	return h.draft(c, ports.DraftSource{
		Text:      c.FormValue("text"),
		Image:     img,
		MediaType: fh.Header.Get(fiber.HeaderContentType),
	})
}

func (h *AIHandler) draft(c *fiber.Ctx, src ports.DraftSource) error {
	out, err := h.uc.DraftInvoice(c.UserContext(), GetBusinessID(c), src)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{
				Code: "TIMEOUT", Message: "el servicio de IA tardó demasiado; intenta de nuevo",
			})
		}
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
