// Package repository defines the count/page capability every list query runs
// against and the generic pipeline that turns a filter into a SearchResult.
package repository

import "context"

// Direction is the sort direction of one ordering key
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortField orders results by an entity-level key. Repositories map keys to
// their own columns or index fields and reject keys they do not know.
type SortField struct {
	Key       string
	Direction Direction
}

// Order is a list of sort keys applied left to right
type Order []SortField

// Window selects a slice of the matching set. Size 0 means unbounded.
type Window struct {
	Offset int
	Size   int
}

// Unbounded reports whether the window returns every entity from Offset on
func (w Window) Unbounded() bool {
	return w.Size == 0
}

// Pageable is implemented by every validated filter
type Pageable interface {
	Window() Window
	Order() Order
}

// Repository is the persistence capability queried by Execute. Count ignores
// pagination. Page must apply order, then its own default order and finally
// the primary key, so that consecutive windows never overlap or skip.
type Repository[T any, P any] interface {
	Count(ctx context.Context, predicate P) (int64, error)
	Page(ctx context.Context, predicate P, window Window, order Order) ([]T, error)
}

// PredicateBuilder translates a filter into a repository predicate
type PredicateBuilder[F any, P any] func(filter F) P
