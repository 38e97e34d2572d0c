// Package migrations manages the deadlines SQLite schema.
//
// Schema changes live in numbered SQL files embedded into the binary and are
// applied with golang-migrate. The stock golang-migrate sqlite3 driver pulls
// in mattn/go-sqlite3, whose "sqlite3" registration collides with the
// ncruces driver used here, so this package ships its own database.Driver
// that works on any *sql.DB opened through ncruces.
//
// Usage:
//
//	db, _ := sql.Open("sqlite3", "file:path/to/deadlines.db")
//	err := migrations.RunMigrations(db)
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/zjrosen/deadlines/internal/log"
)

//go:embed *.sql
var embeddedMigrationsFS embed.FS

// MigrationsFS returns the embedded filesystem containing migration SQL files.
func MigrationsFS() fs.FS {
	return embeddedMigrationsFS
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(embeddedMigrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("reading embedded migrations: %w", err)
	}

	driver, err := WithInstance(db, &Config{})
	if err != nil {
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", source, "sqlite3", driver)
}

// RunMigrations applies every pending migration. An up-to-date database is
// not an error.
func RunMigrations(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug(log.CatDB, "Schema up to date")
			return nil
		}
		return err
	}

	if version, _, err := m.Version(); err == nil {
		log.Info(log.CatDB, "Applied migrations", "version", version)
	}
	return nil
}

// SchemaVersion reports the applied migration version and whether the last
// migration left the database dirty. A database without migrations reports
// version 0.
func SchemaVersion(db *sql.DB) (uint, bool, error) {
	m, err := newMigrate(db)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}
