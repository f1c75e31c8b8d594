package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/facturacion-api/internal/infrastructure/postgres"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Aplica o revierte las migraciones de esquema",
		Example:   "  facturacion-api migrate up\n  facturacion-api migrate down",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			return postgres.Migrate(cfg.DB.ConnectionString(), args[0], log)
		},
	}
}
