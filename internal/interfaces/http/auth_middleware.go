package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/pkg/jwt"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

// Locals keys para UserID, BusinessID y Role en Fiber.
const (
	LocalUserID     = "user_id"
	LocalBusinessID = "business_id"
	LocalRole       = "role"
)

// AuthMiddleware valida el JWT y carga UserID, BusinessID y Role en c.Locals.
// Acepta "Authorization: Bearer <token>" o, si no viene la cabecera, la cookie de sesión.
func AuthMiddleware(jwtSecret, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""
		if authHeader := c.Get("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
			}
			tokenString = strings.TrimSpace(parts[1])
		} else if cookieName != "" {
			tokenString = c.Cookies(cookieName)
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token requerido"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalBusinessID, claims.BusinessID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Debe ir después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "rol no encontrado en el token"})
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permisos para este recurso"})
		}
		return c.Next()
	}
}

// BusinessApprovalChecker lo implementa usecase.BusinessUseCase.
type BusinessApprovalChecker interface {
	IsApproved(ctx context.Context, businessID string) (bool, error)
}

// RequireActiveBusiness exige un token con empresa y que la empresa esté aprobada.
func RequireActiveBusiness(checker BusinessApprovalChecker, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		businessID := GetBusinessID(c)
		if businessID == "" {
			return writeError(c, log, domain.ErrForbidden)
		}
		ok, err := checker.IsApproved(c.UserContext(), businessID)
		if err != nil {
			return writeError(c, log, err)
		}
		if !ok {
			return writeError(c, log, domain.ErrBusinessNotActive)
		}
		return c.Next()
	}
}

// sameBusiness valida el businessId opcional del body contra el del token.
func sameBusiness(c *fiber.Ctx, bodyBusinessID string) error {
	if bodyBusinessID != "" && bodyBusinessID != GetBusinessID(c) {
		return domain.ErrUnauthorized
	}
	return nil
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetBusinessID devuelve la empresa del token; vacío para el superadministrador.
func GetBusinessID(c *fiber.Ctx) string { return localString(c, LocalBusinessID) }

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// staffRoles roles que operan el libro de una empresa.
var staffRoles = []string{entity.RoleAdmin, entity.RoleStaff}
