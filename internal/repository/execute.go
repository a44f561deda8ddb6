package repository

import (
	"context"

	"outofschool/internal/errors"
	"outofschool/internal/types"
)

// Execute runs filter against repo: it counts the full matching set, then
// fetches the requested window. No page query is issued when nothing matches
// or when the window starts past the last match. Failures are not retried.
func Execute[T any, P any, F Pageable](ctx context.Context, filter F, build PredicateBuilder[F, P], repo Repository[T, P]) (types.SearchResult[T], error) {
	if err := ctx.Err(); err != nil {
		return types.SearchResult[T]{}, errors.Cancelled("count", err)
	}

	predicate := build(filter)

	total, err := repo.Count(ctx, predicate)
	if err != nil {
		return types.SearchResult[T]{}, storageError(ctx, "count", err)
	}
	if total == 0 {
		return types.EmptyResult[T](0), nil
	}

	window := filter.Window()
	if int64(window.Offset) >= total {
		return types.EmptyResult[T](total), nil
	}

	page, err := repo.Page(ctx, predicate, window, filter.Order())
	if err != nil {
		return types.SearchResult[T]{}, storageError(ctx, "page", err)
	}
	if !window.Unbounded() && len(page) > window.Size {
		page = page[:window.Size]
	}

	return types.NewSearchResult(total, page), nil
}

// storageError classifies a repository failure. Typed errors pass through.
func storageError(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Cancelled(op, ctxErr)
	}
	if errors.IsAppError(err) {
		return err
	}
	return errors.StorageFailed(op, err)
}
