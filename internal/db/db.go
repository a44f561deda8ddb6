// Package db provides database connectivity, migrations and the SQL
// repositories behind the catalog list endpoints.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"outofschool/internal/constants"
	"outofschool/internal/errors"
	"outofschool/internal/logger"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver, registered as "pgx"
	"github.com/jmoiron/sqlx"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Config represents database configuration
type Config struct {
	// Driver specifies the database driver (sqlite3, pgx)
	Driver string
	// DSN is the data source name
	DSN string
	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int
	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int
	// ConnMaxLifetime is the maximum lifetime of a connection
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime is the maximum idle time of a connection
	ConnMaxIdleTime time.Duration
	// ConnectTimeout bounds the retries of the first ping
	ConnectTimeout time.Duration
}

// DefaultConfig returns a SQLite configuration for the given file
func DefaultConfig(path string) *Config {
	return &Config{
		Driver:          DriverSQLite,
		DSN:             path,
		MaxOpenConns:    constants.DefaultMaxOpenConnections,
		MaxIdleConns:    constants.DefaultMaxIdleConnections,
		ConnMaxLifetime: constants.DefaultConnectionTimeout,
		ConnMaxIdleTime: constants.DefaultIdleTimeout,
		ConnectTimeout:  constants.DefaultConnectRetryTimeout,
	}
}

// DB wraps sqlx.DB with additional functionality
type DB struct {
	*sqlx.DB
	config *Config
}

// Wrap adopts an already open connection, e.g. an in-memory test database
func Wrap(conn *sqlx.DB) *DB {
	return &DB{DB: conn, config: &Config{Driver: conn.DriverName()}}
}

// New opens the database and waits for it to answer, retrying with
// exponential backoff until cfg.ConnectTimeout elapses.
func New(ctx context.Context, cfg *Config) (*DB, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("database configuration is missing")
	}

	// Ensure directory exists for SQLite
	if cfg.Driver == DriverSQLite && cfg.DSN != ":memory:" {
		dir := filepath.Dir(cfg.DSN)
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	raw, err := sql.Open(sqlDriverName(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, errors.DatabaseConnectionError(err)
	}
	// bind variables follow the configured name, not the registered one
	conn := sqlx.NewDb(raw, cfg.Driver)

	// Configure connection pool
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := ping(ctx, conn, cfg.ConnectTimeout); err != nil {
		conn.Close()
		return nil, errors.DatabaseConnectionError(err)
	}

	// Enable foreign keys for SQLite
	if cfg.Driver == DriverSQLite {
		if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return &DB{
		DB:     conn,
		config: cfg,
	}, nil
}

func ping(ctx context.Context, conn *sqlx.DB, timeout time.Duration) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = timeout
	if timeout <= 0 {
		policy.MaxElapsedTime = constants.DefaultConnectRetryTimeout
	}

	attempt := 0
	operation := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		err := conn.PingContext(pingCtx)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.WithFields(logger.Fields{
			"attempt": attempt,
			"retry":   wait.String(),
		}).WithError(err).Warn("Database not ready")
	}

	return backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify)
}

// Dialect returns the configured driver name
func (db *DB) Dialect() string {
	if db.config != nil && db.config.Driver != "" {
		return db.config.Driver
	}
	return db.DriverName()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// BeginTx starts a new transaction
func (db *DB) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return db.DB.BeginTxx(ctx, nil)
}

// Transaction executes a function within a transaction
func (db *DB) Transaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx failed: %v, unable to rollback: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Simple query to ensure database is responsive
	var result int
	if err := db.GetContext(ctx, &result, "SELECT 1"); err != nil {
		return fmt.Errorf("health check query failed: %w", err)
	}

	return nil
}
