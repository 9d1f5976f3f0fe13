// Package migration applies the embedded SQLite schema with golang-migrate.
//
// Migration files live in sql/ and follow VERSION_name.up.sql and
// VERSION_name.down.sql. They are compiled into the binary:
//
//	if err := migration.Up(db.GormDB); err != nil { ... }
package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed sql/*.sql
var files embed.FS

const dir = "sql"

// Up runs all pending migrations. No pending migrations is not an error.
func Up(gormDB *gorm.DB) error {
	m, err := newMigrator(gormDB)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back all migrations.
func Down(gormDB *gorm.DB) error {
	m, err := newMigrator(gormDB)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Version returns the current migration version and dirty flag. A database
// with no migrations applied returns migrate.ErrNilVersion.
func Version(gormDB *gorm.DB) (version uint, dirty bool, err error) {
	m, err := newMigrator(gormDB)
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}

// newMigrator creates a golang-migrate instance backed by the embedded FS.
// Callers must not call m.Close(); it would close the shared sql.DB.
func newMigrator(gormDB *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("create database driver: %w", err)
	}
	source, err := iofs.New(files, dir)
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}
