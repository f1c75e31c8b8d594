package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-api/internal/application/analytics"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/usecase"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

// AdminHandler endpoints del superadministrador: aprobación de empresas y métricas globales.
type AdminHandler struct {
	businesses *usecase.BusinessUseCase
	dashboard  *analytics.DashboardUseCase
	log        *logger.Logger
}

// NewAdminHandler construye el handler.
func NewAdminHandler(businesses *usecase.BusinessUseCase, dashboard *analytics.DashboardUseCase, log *logger.Logger) *AdminHandler {
	return &AdminHandler{businesses: businesses, dashboard: dashboard, log: log}
}

// ListBusinesses godoc
// @Summary      Listar empresas
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | approved | suspended"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.BusinessListResponse
// @Router       /api/admin/businesses [get]
func (h *AdminHandler) ListBusinesses(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.businesses.List(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetBusiness godoc
// @Summary      Obtener empresa
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.BusinessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/businesses/{id} [get]
func (h *AdminHandler) GetBusiness(c *fiber.Ctx) error {
	out, err := h.businesses.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateBusinessStatus godoc
// @Summary      Aprobar, suspender o devolver a pendiente una empresa
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID de la empresa"
// @Param        body  body  dto.UpdateBusinessStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.BusinessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/businesses/{id}/status [patch]
func (h *AdminHandler) UpdateBusinessStatus(c *fiber.Ctx) error {
	var in dto.UpdateBusinessStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.businesses.UpdateStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Métricas globales del sistema
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SystemStatsDTO
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	out, err := h.dashboard.SystemStats(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
