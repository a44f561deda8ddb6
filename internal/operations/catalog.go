package operations

import (
	"context"
	"net/url"
	"time"

	"outofschool/internal/db"
	"outofschool/internal/filter"
	"outofschool/internal/logger"
	"outofschool/internal/repository"
	"outofschool/internal/search"
	"outofschool/internal/types"
)

// CatalogRepositories are the relational sources of the list queries
type CatalogRepositories struct {
	AdminWorkshops   repository.Repository[types.WorkshopCard, db.Where]
	Providers        repository.Repository[types.Provider, db.Where]
	Applications     repository.Repository[types.Application, db.Where]
	MinistryAdmins   repository.Repository[types.MinistryAdmin, db.Where]
	StatisticReports repository.Repository[types.StatisticReport, db.Where]
}

// SQLRepositories returns the catalog repositories backed by database
func SQLRepositories(database *db.DB) CatalogRepositories {
	return CatalogRepositories{
		AdminWorkshops:   db.NewWorkshopCardRepository(database),
		Providers:        db.NewProviderRepository(database),
		Applications:     db.NewApplicationRepository(database),
		MinistryAdmins:   db.NewMinistryAdminRepository(database),
		StatisticReports: db.NewStatisticReportRepository(database),
	}
}

// Catalog provides the list queries shared by the HTTP API and the CLI.
// Each operation parses raw query parameters into a validated filter and
// runs it; nothing is returned for invalid input.
type Catalog struct {
	searcher WorkshopSearcher
	repos    CatalogRepositories
	opts     filter.Options
}

// NewCatalog creates a new Catalog instance
func NewCatalog(searcher WorkshopSearcher, repos CatalogRepositories, opts filter.Options) *Catalog {
	return &Catalog{
		searcher: searcher,
		repos:    repos,
		opts:     opts,
	}
}

// Workshops runs a public workshop search and reports the backend that served it
func (c *Catalog) Workshops(ctx context.Context, params url.Values) (search.Result, search.Kind, error) {
	f, err := filter.ParseWorkshop(params, c.opts)
	if err != nil {
		return search.Result{}, "", err
	}
	return c.searcher.Search(ctx, f)
}

// AdminWorkshops lists workshops for administrators
func (c *Catalog) AdminWorkshops(ctx context.Context, params url.Values) (types.SearchResult[types.WorkshopCard], error) {
	return list(ctx, "admin_workshops", params, c.opts, filter.ParseWorkshopAdmin, db.WorkshopAdminPredicate, c.repos.AdminWorkshops)
}

// Providers lists providers
func (c *Catalog) Providers(ctx context.Context, params url.Values) (types.SearchResult[types.Provider], error) {
	return list(ctx, "providers", params, c.opts, filter.ParseProvider, db.ProviderPredicate, c.repos.Providers)
}

// Applications lists enrollment applications
func (c *Catalog) Applications(ctx context.Context, params url.Values) (types.SearchResult[types.Application], error) {
	return list(ctx, "applications", params, c.opts, filter.ParseApplication, db.ApplicationPredicate, c.repos.Applications)
}

// MinistryAdmins lists ministry administrators
func (c *Catalog) MinistryAdmins(ctx context.Context, params url.Values) (types.SearchResult[types.MinistryAdmin], error) {
	return list(ctx, "ministry_admins", params, c.opts, filter.ParseMinistryAdmin, db.MinistryAdminPredicate, c.repos.MinistryAdmins)
}

// StatisticReports lists generated statistic reports
func (c *Catalog) StatisticReports(ctx context.Context, params url.Values) (types.SearchResult[types.StatisticReport], error) {
	return list(ctx, "statistic_reports", params, c.opts, filter.ParseStatisticReport, db.StatisticReportPredicate, c.repos.StatisticReports)
}

func list[T any, F repository.Pageable](
	ctx context.Context,
	name string,
	params url.Values,
	opts filter.Options,
	parse func(url.Values, filter.Options) (F, error),
	build repository.PredicateBuilder[F, db.Where],
	repo repository.Repository[T, db.Where],
) (types.SearchResult[T], error) {
	f, err := parse(params, opts)
	if err != nil {
		return types.SearchResult[T]{}, err
	}

	start := time.Now()
	res, err := repository.Execute(ctx, f, build, repo)
	if err != nil {
		return types.SearchResult[T]{}, err
	}

	logger.WithContext(ctx).WithFields(logger.Fields{
		"list":     name,
		"total":    res.TotalAmount,
		"returned": len(res.Entities),
		"duration": time.Since(start).String(),
	}).Debug("List query executed")
	return res, nil
}
