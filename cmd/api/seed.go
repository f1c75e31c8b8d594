package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/jhoicas/facturacion-api/internal/application/auth"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/postgres"
)

func newSeedSuperAdminCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "seed-superadmin",
		Short: "Crea el superadministrador si no existe",
		Long: `Crea el usuario superadmin que aprueba empresas. Es idempotente.
Sin flags toma SUPERADMIN_EMAIL, SUPERADMIN_PASSWORD y SUPERADMIN_NAME.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			if email == "" {
				email = cfg.SuperAdmin.Email
			}
			if password == "" {
				password = cfg.SuperAdmin.Password
			}
			if name == "" {
				name = cfg.SuperAdmin.Name
			}

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.DB, log)
			if err != nil {
				return errors.Wrap(err, "conexión a PostgreSQL")
			}
			defer pool.Close()

			authUC := auth.NewAuthUseCase(
				postgres.NewTxRunner(pool),
				postgres.NewUserRepository(pool),
				auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
				log,
			)
			created, err := authUC.EnsureSuperAdmin(ctx, email, password, name)
			if err != nil {
				return err
			}
			log.Info().Str("email", email).Bool("created", created).Msg("superadmin")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email del superadmin")
	cmd.Flags().StringVar(&password, "password", "", "contraseña (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&name, "name", "", "nombre visible")
	return cmd
}
