package db

import (
	"embed"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// Registers the postgres driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/oficont/oficont/internal/models"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// coreTables must exist after either migration path.
var coreTables = []string{"users", "clients", "categories", "transactions", "reports", "system_config"}

// Migrate applies the schema. With sqlMigrations it runs the embedded SQL files against
// databaseURL (postgres only); otherwise it falls back to gorm AutoMigrate.
func Migrate(conn *gorm.DB, sqlMigrations bool, databaseURL string) error {
	if sqlMigrations {
		if err := RunSQLMigrations(databaseURL); err != nil {
			return err
		}
	} else if err := AutoMigrate(conn); err != nil {
		return err
	}
	for _, table := range coreTables {
		if !conn.Migrator().HasTable(table) {
			return fmt.Errorf("missing table after migration: %s", table)
		}
	}
	return nil
}

// AutoMigrate creates or updates every model's table.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range models.All() {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// MigrationSource exposes the embedded SQL files as a golang-migrate source.
func MigrationSource() (source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}
	return src, nil
}

// RunSQLMigrations applies the embedded migrations with golang-migrate.
func RunSQLMigrations(databaseURL string) error {
	src, err := MigrationSource()
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
