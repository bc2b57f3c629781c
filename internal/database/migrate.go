package database

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrate applies every pending embedded migration to the PostgreSQL
// database at dsn. An up-to-date schema is not an error.
func Migrate(dsn string, opts ...Option) error {
	return MigrateFS(Migrations(), dsn, opts...)
}

// MigrateFS applies the migrations found at the root of fsys.
func MigrateFS(fsys fs.FS, dsn string, opts ...Option) error {
	o := resolve(opts)

	source, err := iofs.New(fsys, ".")
	if err != nil {
		return fmt.Errorf("database: migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("database: migration init: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("database: migration up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("database: migration version: %w", err)
	}
	o.logger.Info("storage.migrated", "version", version, "dirty", dirty)
	return nil
}
