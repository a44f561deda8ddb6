package index

import (
	"context"

	"outofschool/internal/errors"
	"outofschool/internal/lazy"
	"outofschool/internal/repository"
	"outofschool/internal/types"
)

// Lazy opens the index on first use. A failed open is retried by the next
// call, so a locked or missing index does not stay unavailable forever.
type Lazy struct {
	value *lazy.Lazy[*Index]
}

// NewLazy defers opening the index at path
func NewLazy(path string) *Lazy {
	return &Lazy{value: lazy.New(func(ctx context.Context) (*Index, error) {
		return Open(path)
	})}
}

// Loaded wraps an already open index
func Loaded(idx *Index) *Lazy {
	return &Lazy{value: lazy.New(func(ctx context.Context) (*Index, error) {
		return idx, nil
	})}
}

// Index returns the open index
func (l *Lazy) Index(ctx context.Context) (*Index, error) {
	idx, err := l.value.Get(ctx)
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.IndexUnavailable("failed to open index", err)
	}
	return idx, nil
}

// IsOpen reports whether the index has been opened
func (l *Lazy) IsOpen() bool {
	return l.value.IsLoaded()
}

func (l *Lazy) Count(ctx context.Context, q Query) (int64, error) {
	idx, err := l.Index(ctx)
	if err != nil {
		return 0, err
	}
	return idx.Count(ctx, q)
}

func (l *Lazy) Page(ctx context.Context, q Query, window repository.Window, order repository.Order) ([]types.WorkshopCard, error) {
	idx, err := l.Index(ctx)
	if err != nil {
		return nil, err
	}
	return idx.Page(ctx, q, window, order)
}

func (l *Lazy) Upsert(ctx context.Context, workshops ...types.Workshop) error {
	idx, err := l.Index(ctx)
	if err != nil {
		return err
	}
	return idx.Upsert(ctx, workshops...)
}

func (l *Lazy) Delete(ctx context.Context, ids ...string) error {
	idx, err := l.Index(ctx)
	if err != nil {
		return err
	}
	return idx.Delete(ctx, ids...)
}

func (l *Lazy) IDs(ctx context.Context) ([]string, error) {
	idx, err := l.Index(ctx)
	if err != nil {
		return nil, err
	}
	return idx.IDs(ctx)
}

func (l *Lazy) DocCount(ctx context.Context) (uint64, error) {
	idx, err := l.Index(ctx)
	if err != nil {
		return 0, err
	}
	return idx.DocCount()
}

// Close closes the index if it was opened. A later call reopens it.
func (l *Lazy) Close() error {
	if idx, ok := l.value.Reset(); ok && idx != nil {
		return idx.Close()
	}
	return nil
}
