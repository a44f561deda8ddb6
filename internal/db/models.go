package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"outofschool/internal/errors"
)

// Backend is a row of the search backend switch table
type Backend struct {
	Name      string    `db:"name" json:"name"`
	Enabled   bool      `db:"enabled" json:"enabled"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// BackendRepository handles database operations for search backend switches
type BackendRepository struct {
	db *DB
}

// NewBackendRepository creates a new backend repository
func NewBackendRepository(db *DB) *BackendRepository {
	return &BackendRepository{db: db}
}

// List returns every stored switch ordered by name
func (r *BackendRepository) List(ctx context.Context) ([]Backend, error) {
	query := `SELECT name, enabled, updated_at FROM search_backends ORDER BY name ASC`

	backends := []Backend{}
	if err := r.db.SelectContext(ctx, &backends, query); err != nil {
		return nil, errors.DatabaseQueryError(query, err)
	}
	return backends, nil
}

// Get returns the switch for name; found is false when no row exists
func (r *BackendRepository) Get(ctx context.Context, name string) (backend Backend, found bool, err error) {
	query := r.db.Rebind(`SELECT name, enabled, updated_at FROM search_backends WHERE name = ?`)

	if err := r.db.GetContext(ctx, &backend, query, name); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return Backend{}, false, nil
		}
		return Backend{}, false, errors.DatabaseQueryError(query, err)
	}
	return backend, true, nil
}

// SetEnabled creates or updates the switch for name
func (r *BackendRepository) SetEnabled(ctx context.Context, name string, enabled bool) error {
	query := r.db.Rebind(`
		INSERT INTO search_backends (name, enabled, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET enabled = excluded.enabled, updated_at = excluded.updated_at
	`)

	if _, err := r.db.ExecContext(ctx, query, name, enabled, time.Now().UTC()); err != nil {
		return errors.DatabaseQueryError(query, err)
	}
	return nil
}
