package postgres

import (
	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // driver postgres://
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jhoicas/facturacion-api/migrations"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

// Migrate aplica (up) o revierte (down, un paso) las migraciones embebidas.
// "version" solo informa la versión actual.
func Migrate(dsn, direction string, log *logger.Logger) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return errors.Wrap(err, "migraciones: fuente")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return errors.Wrap(err, "migraciones: conexión")
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("db", dbErr).Msg("cerrar migrador")
		}
	}()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
	default:
		return errors.Newf("migraciones: dirección desconocida %q", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrapf(err, "migraciones: %s", direction)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return errors.Wrap(verr, "migraciones: versión")
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Str("direction", direction).Msg("migraciones")
	return nil
}
