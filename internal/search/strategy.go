// Package search runs public workshop searches against one of two backends:
// the relational catalog or the full-text index. The Selector picks the
// backend per request and optionally falls back to the other one when the
// chosen backend fails.
package search

import (
	"context"

	"outofschool/internal/db"
	"outofschool/internal/errors"
	"outofschool/internal/filter"
	"outofschool/internal/index"
	"outofschool/internal/repository"
	"outofschool/internal/types"
)

// Kind names a search backend
type Kind string

const (
	KindRelational Kind = "relational"
	KindIndex      Kind = "index"
)

// Kinds lists every backend
var Kinds = []Kind{KindRelational, KindIndex}

// Result is the outcome of a workshop search
type Result = types.SearchResult[types.WorkshopCard]

// Strategy executes a validated workshop search on one backend
type Strategy interface {
	Kind() Kind
	// Supports reports whether the backend can evaluate every criterion of f
	Supports(f filter.WorkshopFilter) bool
	Search(ctx context.Context, f filter.WorkshopFilter) (Result, error)
}

// RelationalStrategy searches the SQL catalog
type RelationalStrategy struct {
	repo repository.Repository[types.WorkshopCard, db.Where]
}

// NewRelationalStrategy creates a strategy over a workshop card repository
func NewRelationalStrategy(repo repository.Repository[types.WorkshopCard, db.Where]) *RelationalStrategy {
	return &RelationalStrategy{repo: repo}
}

func (s *RelationalStrategy) Kind() Kind {
	return KindRelational
}

// Supports rejects location searches; SQL has no distance function here
func (s *RelationalStrategy) Supports(f filter.WorkshopFilter) bool {
	return !f.HasGeo() && f.OrderBy != types.OrderByNearest
}

func (s *RelationalStrategy) Search(ctx context.Context, f filter.WorkshopFilter) (Result, error) {
	if !s.Supports(f) {
		return Result{}, errors.StrategyUnavailable("relational search cannot filter or order by location")
	}
	return repository.Execute(ctx, f, db.WorkshopCardPredicate, s.repo)
}

// IndexStrategy searches the full-text index
type IndexStrategy struct {
	repo  repository.Repository[types.WorkshopCard, index.Query]
	guard *Guard
}

// NewIndexStrategy creates a strategy over an index. guard may be nil.
func NewIndexStrategy(repo repository.Repository[types.WorkshopCard, index.Query], guard *Guard) *IndexStrategy {
	return &IndexStrategy{repo: repo, guard: guard}
}

func (s *IndexStrategy) Kind() Kind {
	return KindIndex
}

func (s *IndexStrategy) Supports(f filter.WorkshopFilter) bool {
	return true
}

func (s *IndexStrategy) Search(ctx context.Context, f filter.WorkshopFilter) (Result, error) {
	var res Result
	err := s.guard.Do(func() error {
		var err error
		res, err = repository.Execute(ctx, f, index.WorkshopQuery, s.repo)
		return err
	})
	return res, err
}
