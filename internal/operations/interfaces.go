package operations

import (
	"context"

	"outofschool/internal/db"
	"outofschool/internal/filter"
	"outofschool/internal/search"
	"outofschool/internal/types"
)

// WorkshopSearcher defines the public workshop search used by operations
type WorkshopSearcher interface {
	Search(ctx context.Context, f filter.WorkshopFilter) (search.Result, search.Kind, error)
}

// WorkshopSource defines the workshop reads used to feed the search index
type WorkshopSource interface {
	Workshop(ctx context.Context, id string) (types.Workshop, error)
	// WorkshopBatch returns workshops with ids greater than afterID, in id order
	WorkshopBatch(ctx context.Context, afterID string, limit int) ([]types.Workshop, error)
}

// IndexWriter defines the write side of the search index
type IndexWriter interface {
	Upsert(ctx context.Context, workshops ...types.Workshop) error
	Delete(ctx context.Context, ids ...string) error
	IDs(ctx context.Context) ([]string, error)
}

// BackendStore defines the persisted backend switches
type BackendStore interface {
	List(ctx context.Context) ([]db.Backend, error)
	Get(ctx context.Context, name string) (db.Backend, bool, error)
	SetEnabled(ctx context.Context, name string, enabled bool) error
}

// FixtureImporter defines the transactional fixture import used by Seed
type FixtureImporter interface {
	Import(ctx context.Context, f db.Fixtures) (db.ImportStats, error)
}
