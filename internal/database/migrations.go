package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	dbmigrations "github.com/trogers1052/wine-investment-service/db"
)

// Migrate applies the embedded migrations. The catalog table is created
// only when absent and the investment columns are added if missing, so
// running against an existing storefront database is safe.
func (db *DB) Migrate(ctx context.Context) error {
	return db.withMigrator(ctx, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	})
}

// MigrateDown rolls back every embedded migration. The investment columns
// are dropped; the storefront's wines table and its rows are kept.
func (db *DB) MigrateDown(ctx context.Context) error {
	return db.withMigrator(ctx, func(m *migrate.Migrate) error {
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back migrations: %w", err)
		}
		return nil
	})
}

// MigrationVersion returns the current schema version
func (db *DB) MigrationVersion(ctx context.Context) (version uint, dirty bool, err error) {
	err = db.withMigrator(ctx, func(m *migrate.Migrate) error {
		var verr error
		version, dirty, verr = m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			return nil
		}
		if verr != nil {
			return fmt.Errorf("failed to read migration version: %w", verr)
		}
		return nil
	})
	return version, dirty, err
}

// withMigrator runs fn on a migrator bound to a single pooled connection.
// Closing the migrator returns that connection without closing the pool.
func (db *DB) withMigrator(ctx context.Context, fn func(m *migrate.Migrate) error) error {
	source, err := iofs.New(dbmigrations.Migrations, dbmigrations.MigrationsDir)
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire migration connection: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	return fn(m)
}
