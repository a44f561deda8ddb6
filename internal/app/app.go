// Package app assembles the catalog services from the configuration.
package app

import (
	"context"
	stderrors "errors"

	"outofschool/internal/config"
	"outofschool/internal/db"
	"outofschool/internal/filter"
	"outofschool/internal/index"
	"outofschool/internal/logger"
	"outofschool/internal/metrics"
	"outofschool/internal/operations"
	"outofschool/internal/search"
	"outofschool/internal/server"
)

// App represents the main application
type App struct {
	Config   *config.Config
	DB       *db.DB
	Metrics  *metrics.Metrics
	Backends *operations.BackendSwitch
	Selector *search.Selector
	Catalog  *operations.Catalog

	// Index and Indexer are nil when the search index is not configured
	Index   *index.Lazy
	Indexer *operations.Indexer
}

// New connects to the database, applies pending migrations and wires the
// search backends. The index itself is opened on first use.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)

	database, err := db.New(ctx, &db.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime.Std(),
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime.Std(),
		ConnectTimeout:  cfg.Database.ConnectTimeout.Std(),
	})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, err
	}

	var idx *index.Lazy
	if cfg.Search.IndexEnabled {
		idx = index.NewLazy(cfg.Search.IndexPath)
	}

	a := Wire(cfg, database, idx)
	logger.WithFields(logger.Fields{
		"driver":        cfg.Database.Driver,
		"index_enabled": cfg.Search.IndexEnabled,
		"prefer_index":  cfg.Search.PreferIndex,
		"fallback":      cfg.Search.Fallback,
	}).Debug("Application wired")
	return a, nil
}

// Wire builds the services over an open database and an optional index
func Wire(cfg *config.Config, database *db.DB, idx *index.Lazy) *App {
	m := metrics.New()
	m.WatchDB(database.DB.DB, "catalog")

	// Without an index the switch default is irrelevant: the selector has no
	// index strategy to enable.
	backends := operations.NewBackendSwitch(db.NewBackendRepository(database), idx != nil, cfg.Search.BackendCacheTTL.Std())

	relational := search.NewRelationalStrategy(db.NewWorkshopCardRepository(database))
	var indexed search.Strategy
	var indexer *operations.Indexer
	if idx != nil {
		guard := search.NewGuard("index", cfg.Search.BreakerFailures, cfg.Search.BreakerTimeout.Std(), m)
		indexed = search.NewIndexStrategy(idx, guard)
		indexer = operations.NewIndexer(db.NewStore(database), idx, 0, m)
	}

	selector := search.NewSelector(relational, indexed, backends, search.Config{
		PreferIndex: cfg.Search.PreferIndex,
		Fallback:    cfg.Search.Fallback,
	}, m)

	opts := filter.Options{
		DefaultSize:     cfg.Pagination.DefaultSize,
		MaxSize:         cfg.Pagination.MaxSize,
		DefaultRadiusKm: cfg.Search.DefaultRadiusKm,
	}

	return &App{
		Config:   cfg,
		DB:       database,
		Metrics:  m,
		Backends: backends,
		Selector: selector,
		Catalog:  operations.NewCatalog(selector, operations.SQLRepositories(database), opts),
		Index:    idx,
		Indexer:  indexer,
	}
}

// Server returns the HTTP API over the application services
func (a *App) Server() *server.Server {
	checks := map[string]server.HealthCheck{
		"database": a.DB.HealthCheck,
	}
	if a.Index != nil {
		checks["index"] = func(ctx context.Context) error {
			_, err := a.Index.DocCount(ctx)
			return err
		}
	}

	return server.New(server.ConfigFrom(a.Config.Server), server.Dependencies{
		Catalog:  a.Catalog,
		Backends: a.Backends,
		Indexer:  a.Indexer,
		Metrics:  a.Metrics,
		Checks:   checks,
	})
}

// Store returns the fixture store of the catalog database
func (a *App) Store() *db.Store {
	return db.NewStore(a.DB)
}

// Close releases the index and the database
func (a *App) Close() error {
	var errs []error
	if a.Backends != nil {
		a.Backends.Close()
	}
	if a.Index != nil {
		errs = append(errs, a.Index.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return stderrors.Join(errs...)
}
