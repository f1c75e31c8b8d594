package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturacion-api/internal/application/analytics"
	"github.com/jhoicas/facturacion-api/internal/application/auth"
	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/inventory"
	"github.com/jhoicas/facturacion-api/internal/application/usecase"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	BusinessUC  *usecase.BusinessUseCase
	ProductUC   *usecase.ProductUseCase
	AIUC        *usecase.AIUseCase
	StockUC     *inventory.StockUseCase
	CustomerUC  *billing.CustomerUseCase
	InvoiceUC   *billing.InvoiceUseCase
	PaymentUC   *billing.PaymentUseCase
	SettingsUC  *billing.SettingsUseCase
	DocumentUC  *billing.DocumentUseCase
	DashboardUC *analytics.DashboardUseCase
	JWTSecret   string
	Cookie      CookieConfig
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authn := AuthMiddleware(deps.JWTSecret, deps.Cookie.Name)
	active := RequireActiveBusiness(deps.BusinessUC, log)

	// Auth (público salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/register-business", authHandler.RegisterBusiness)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", authn, authHandler.Me)

	// Superadministrador
	adminHandler := NewAdminHandler(deps.BusinessUC, deps.DashboardUC, log)
	admin := api.Group("/admin", authn, RequireRole(entity.RoleSuperAdmin))
	admin.Get("/businesses", adminHandler.ListBusinesses)
	admin.Get("/businesses/:id", adminHandler.GetBusiness)
	admin.Patch("/businesses/:id/status", adminHandler.UpdateBusinessStatus)
	admin.Get("/stats", adminHandler.Stats)

	// Usuarios de la empresa (solo admin)
	userHandler := NewUserHandler(deps.UserUC, log)
	users := api.Group("/users", authn, RequireRole(entity.RoleAdmin), active)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)

	// Libro de la empresa; cada recurso con su propio grupo para que /api sin ruta siga en 404.
	ledger := []fiber.Handler{authn, RequireRole(staffRoles...), active}

	customerHandler := NewCustomerHandler(deps.CustomerUC, log)
	customers := api.Group("/customers", ledger...)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.Get)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	productHandler := NewProductHandler(deps.ProductUC, log)
	products := api.Group("/products", ledger...)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.StockUC, log)
	inv := api.Group("/inventory", ledger...)
	inv.Post("/", inventoryHandler.AddStock)
	inv.Post("/remove", inventoryHandler.RemoveStock)
	inv.Put("/", inventoryHandler.AdjustStock)
	inv.Get("/", inventoryHandler.List)
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Get("/replenishment", inventoryHandler.Replenishment)
	inv.Get("/:productId/movements", inventoryHandler.Movements)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PaymentUC, deps.DocumentUC, log)
	invoices := api.Group("/invoices", ledger...)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Get("/:id/payments", invoiceHandler.Payments)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Get("/:id/xml", invoiceHandler.XML)

	paymentHandler := NewPaymentHandler(deps.PaymentUC, log)
	payments := api.Group("/payments", ledger...)
	payments.Post("/", paymentHandler.Create)
	payments.Get("/", paymentHandler.List)
	payments.Get("/:id", paymentHandler.GetByID)

	settingsHandler := NewSettingsHandler(deps.SettingsUC, log)
	settings := api.Group("/settings", ledger...)
	settings.Get("/", settingsHandler.Get)
	settings.Put("/", settingsHandler.Update)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)
	api.Group("/dashboard", ledger...).Get("/stats", dashboardHandler.GetStats)

	if deps.AIUC != nil {
		aiHandler := NewAIHandler(deps.AIUC, log)
		ai := api.Group("/ai", ledger...)
		ai.Post("/invoice-draft", aiHandler.DraftFromText)
		ai.Post("/invoice-draft/image", aiHandler.DraftFromImage)
	}
}
