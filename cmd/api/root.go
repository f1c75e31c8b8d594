package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/jhoicas/facturacion-api/pkg/config"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "facturacion-api",
		Short: "API de facturación e inventario multiempresa",
		Long: `facturacion-api expone la API HTTP de facturación, pagos e inventario.

La configuración se lee de variables de entorno (y de .env si existe):
DATABASE_URL o DB_*, JWT_SECRET, HTTP_PORT, AI_PROVIDER, etc.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedSuperAdminCmd())
	return root
}

// bootstrap carga la configuración y construye el logger común a todos los comandos.
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "cargar configuración")
	}
	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	return cfg, log, nil
}
