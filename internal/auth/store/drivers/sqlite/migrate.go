package sqlite

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/teamauth/internal/auth/store/drivers/sqlite/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func (m *Store) migrator() (*migrate.Migrate, error) {
	driver, err := migratesqlite.WithInstance(m.db, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("sqlite: migrate driver: %w", err)
	}
	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("sqlite: migration source: %w", err)
	}
	return migrate.NewWithInstance("iofs", src, "sqlite", driver)
}

// ApplyMigrations brings the schema up to date from the embedded migration
// files. A current schema is not an error; a dirty one is.
func (m *Store) ApplyMigrations() error {
	mg, err := m.migrator()
	if err != nil {
		return err
	}
	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlite: migrate up: %w", err)
	}
	return nil
}

// SchemaVersion reports the applied migration, or 0 on an empty database.
func (m *Store) SchemaVersion() (uint, error) {
	mg, err := m.migrator()
	if err != nil {
		return 0, err
	}
	v, dirty, err := mg.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("sqlite: schema version: %w", err)
	case dirty:
		return v, fmt.Errorf("sqlite: schema version %d is dirty", v)
	}
	return v, nil
}
