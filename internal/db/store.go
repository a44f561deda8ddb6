package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"outofschool/internal/errors"
	"outofschool/internal/types"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Fixtures is a set of catalog records imported together
type Fixtures struct {
	Providers        []types.Provider        `yaml:"providers"`
	Workshops        []types.Workshop        `yaml:"workshops"`
	Applications     []types.Application     `yaml:"applications"`
	MinistryAdmins   []types.MinistryAdmin   `yaml:"ministryAdmins"`
	StatisticReports []types.StatisticReport `yaml:"statisticReports"`
}

// ImportStats counts the records written by an import
type ImportStats struct {
	Providers        int `json:"providers"`
	Workshops        int `json:"workshops"`
	Applications     int `json:"applications"`
	MinistryAdmins   int `json:"ministryAdmins"`
	StatisticReports int `json:"statisticReports"`
}

var (
	providerColumns = []string{"id", "full_title", "short_title", "edrpou", "status", "license_status",
		"city", "institution_id", "created_at"}
	workshopColumns = []string{"id", "title", "provider_id", "direction_id", "min_age", "max_age", "price",
		"status", "form_of_learning", "city", "latitude", "longitude", "rating", "keywords", "description",
		"institution_id", "created_at", "updated_at"}
	applicationColumns = []string{"id", "workshop_id", "child_id", "parent_id", "child_full_name", "status",
		"is_blocked", "creation_time", "approved_time"}
	ministryAdminColumns = []string{"id", "first_name", "last_name", "email", "institution_id",
		"account_status", "created_at"}
	statisticReportColumns = []string{"id", "title", "report_type", "data_type", "external_storage_id",
		"created_at"}
)

// Store reads and writes full catalog records
type Store struct {
	db  *DB
	now func() time.Time
}

// NewStore creates a new store
func NewStore(db *DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Import upserts fixtures in a single transaction. Missing ids and
// timestamps are filled in; parents are written before children.
func (s *Store) Import(ctx context.Context, f Fixtures) (ImportStats, error) {
	var stats ImportStats
	now := s.now()

	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		for _, p := range f.Providers {
			p.ID = ensureID(p.ID)
			p.CreatedAt = ensureTime(p.CreatedAt, now)
			if err := upsert(ctx, tx, "providers", providerColumns, p); err != nil {
				return err
			}
			stats.Providers++
		}
		for _, w := range f.Workshops {
			w.ID = ensureID(w.ID)
			w.CreatedAt = ensureTime(w.CreatedAt, now)
			w.UpdatedAt = ensureTime(w.UpdatedAt, now)
			if err := upsert(ctx, tx, "workshops", workshopColumns, w); err != nil {
				return err
			}
			stats.Workshops++
		}
		for _, a := range f.Applications {
			a.ID = ensureID(a.ID)
			a.CreationTime = ensureTime(a.CreationTime, now)
			if err := upsert(ctx, tx, "applications", applicationColumns, a); err != nil {
				return err
			}
			stats.Applications++
		}
		for _, m := range f.MinistryAdmins {
			m.ID = ensureID(m.ID)
			m.CreatedAt = ensureTime(m.CreatedAt, now)
			if err := upsert(ctx, tx, "ministry_admins", ministryAdminColumns, m); err != nil {
				return err
			}
			stats.MinistryAdmins++
		}
		for _, r := range f.StatisticReports {
			r.ID = ensureID(r.ID)
			r.CreatedAt = ensureTime(r.CreatedAt, now)
			if err := upsert(ctx, tx, "statistic_reports", statisticReportColumns, r); err != nil {
				return err
			}
			stats.StatisticReports++
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}
	return stats, nil
}

const workshopSelect = "SELECT " + workshopCardColumns + `,
	w.keywords, w.description, w.institution_id, w.updated_at
	FROM ` + workshopFrom

// Workshop returns one workshop with its provider title
func (s *Store) Workshop(ctx context.Context, id string) (types.Workshop, error) {
	query := s.db.Rebind(workshopSelect + " WHERE w.id = ?")

	var w types.Workshop
	if err := s.db.GetContext(ctx, &w, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return types.Workshop{}, errors.NotFoundError("workshop", id)
		}
		return types.Workshop{}, errors.DatabaseQueryError(query, err)
	}
	return w, nil
}

// WorkshopBatch returns up to limit workshops with ids greater than afterID, in id order
func (s *Store) WorkshopBatch(ctx context.Context, afterID string, limit int) ([]types.Workshop, error) {
	query := s.db.Rebind(workshopSelect + " WHERE w.id > ? ORDER BY w.id ASC LIMIT ?")

	batch := []types.Workshop{}
	if err := s.db.SelectContext(ctx, &batch, query, afterID, limit); err != nil {
		return nil, errors.DatabaseQueryError(query, err)
	}
	return batch, nil
}

// upsert inserts row or, when its id exists, overwrites every other column
func upsert(ctx context.Context, tx *sqlx.Tx, table string, columns []string, row interface{}) error {
	params := make([]string, len(columns))
	updates := make([]string, 0, len(columns)-1)
	for i, column := range columns {
		params[i] = ":" + column
		if column != "id" {
			updates = append(updates, column+" = excluded."+column)
		}
	}

	query := "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES (" +
		strings.Join(params, ", ") + ") ON CONFLICT (id) DO UPDATE SET " + strings.Join(updates, ", ")

	if _, err := sqlx.NamedExecContext(ctx, tx, query, row); err != nil {
		return errors.DatabaseQueryError(query, err)
	}
	return nil
}

func ensureID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}

func ensureTime(t, fallback time.Time) time.Time {
	if t.IsZero() {
		return fallback
	}
	return t.UTC()
}
