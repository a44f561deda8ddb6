package db

import (
	"embed"
	stderrors "errors"
	"fmt"

	"outofschool/internal/errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationStatus describes the schema version of the database
type MigrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	m, err := db.migrator()
	if err != nil {
		return errors.DatabaseMigrationError(err)
	}

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.DatabaseMigrationError(fmt.Errorf("failed to run migrations: %w", err))
	}

	return nil
}

// MigrationStatus returns the applied schema version
func (db *DB) MigrationStatus() (MigrationStatus, error) {
	m, err := db.migrator()
	if err != nil {
		return MigrationStatus{}, errors.DatabaseMigrationError(err)
	}

	version, dirty, err := m.Version()
	if stderrors.Is(err, migrate.ErrNilVersion) {
		return MigrationStatus{}, nil
	}
	if err != nil {
		return MigrationStatus{}, errors.DatabaseMigrationError(err)
	}
	return MigrationStatus{Version: version, Dirty: dirty}, nil
}

func (db *DB) migrator() (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	var dbInstance database.Driver

	switch db.Dialect() {
	case DriverSQLite:
		dbInstance, err = sqlite3.WithInstance(db.DB.DB, &sqlite3.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create sqlite3 driver instance: %w", err)
		}
	case DriverPostgres:
		dbInstance, err = migratepgx.WithInstance(db.DB.DB, &migratepgx.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx driver instance: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", db.Dialect())
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, db.Dialect(), dbInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}
