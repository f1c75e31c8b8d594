package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	appanalytics "github.com/jhoicas/facturacion-api/internal/application/analytics"
	"github.com/jhoicas/facturacion-api/internal/application/auth"
	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/inventory"
	"github.com/jhoicas/facturacion-api/internal/application/ports"
	"github.com/jhoicas/facturacion-api/internal/application/usecase"
	infraai "github.com/jhoicas/facturacion-api/internal/infrastructure/ai"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/facturacion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/facturacion-api/internal/interfaces/http"
	"github.com/jhoicas/facturacion-api/pkg/config"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func newServeCmd() *cobra.Command {
	var migrateFirst bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Arranca el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if migrateFirst {
				if err := postgres.Migrate(cfg.DB.ConnectionString(), "up", log); err != nil {
					return err
				}
			}
			return serve(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "aplicar migraciones antes de arrancar")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("version", version).
		Msg("iniciando aplicación")

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return errors.Wrap(err, "conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.Repos(pool)
	txRunner := postgres.NewTxRunner(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)

	var statsCache ports.StatsCache = cache.NoopCache{}
	if cfg.Cache.Enabled {
		statsCache = cache.NewMemoryCache(cfg.Cache.DashboardTTL, 10*time.Minute)
	}

	authUC := auth.NewAuthUseCase(txRunner, repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	if cfg.SuperAdmin.Email != "" && cfg.SuperAdmin.Password != "" {
		if created, err := authUC.EnsureSuperAdmin(ctx, cfg.SuperAdmin.Email, cfg.SuperAdmin.Password, cfg.SuperAdmin.Name); err != nil {
			log.Warn().Err(err).Msg("no se pudo asegurar el superadmin")
		} else if created {
			log.Info().Str("email", cfg.SuperAdmin.Email).Msg("superadmin creado")
		}
	}

	// Documentos: PDF (maroto) y UBL 2.1 (etree)
	documentUC := billing.NewDocumentUseCase(
		repos.Invoices, repos.Businesses, repos.Customers,
		infrapdf.NewMarotoPDFGenerator(language.Make(cfg.App.Locale)),
		ubl.NewExporter(),
	)

	deps := httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(repos.Users),
		BusinessUC:  usecase.NewBusinessUseCase(repos.Businesses, statsCache, log),
		ProductUC:   usecase.NewProductUseCase(txRunner, repos.Products, repos.Movements, repos.Invoices),
		StockUC:     inventory.NewStockUseCase(txRunner, repos.Products, repos.Movements, log),
		CustomerUC:  billing.NewCustomerUseCase(repos.Customers, repos.Invoices),
		InvoiceUC:   billing.NewInvoiceUseCase(txRunner, repos.Customers, repos.Invoices, log),
		PaymentUC:   billing.NewPaymentUseCase(txRunner, repos.Invoices, repos.Payments, log),
		SettingsUC:  billing.NewSettingsUseCase(repos.Settings),
		DocumentUC:  documentUC,
		DashboardUC: appanalytics.NewDashboardUseCase(analyticsRepo, statsCache, cfg.Cache.DashboardTTL, log),
		AIUC:        usecase.NewAIUseCase(newLLM(cfg.AI, log), repos.Products, repos.Customers, cfg.AI.Timeout, log),
		JWTSecret:   cfg.JWT.Secret,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.HTTP.CookieName,
			Secure: cfg.HTTP.CookieSecure,
		},
		Log: log,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimitMB << 20,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.AccessLog(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
	}))

	// Swagger UI: http://localhost:<port>/docs (requiere swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Facturación API",
		}))
	}

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	log.Info().Msg("aplicación detenida")
	return nil
}

// newLLM elige el proveedor de IA; sin proveedor los endpoints de borrador responden 400.
func newLLM(cfg config.AIConfig, log *logger.Logger) ports.LLMService {
	switch cfg.Provider {
	case "anthropic":
		return infraai.NewAnthropicService(cfg.AnthropicKey, cfg.AnthropicModel, log)
	case "openai":
		return infraai.NewOpenAIService(cfg.OpenAIKey, cfg.OpenAIModel, "")
	}
	return infraai.DisabledService{}
}
