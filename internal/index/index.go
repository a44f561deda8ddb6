// Package index keeps the full-text workshop index used by the search-index
// strategy. It implements the same count/page capability as the relational
// repositories, over a bleve index.
package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"outofschool/internal/errors"
	"outofschool/internal/filter"
	"outofschool/internal/repository"
	"outofschool/internal/types"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
)

// Index is a workshop search index
type Index struct {
	idx  bleve.Index
	path string
}

// NewMemory creates an index that lives only in memory
func NewMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(NewMapping())
	if err != nil {
		return nil, errors.IndexUnavailable("failed to create in-memory index", err)
	}
	return &Index{idx: idx}, nil
}

// Open opens the index at path, creating it when it does not exist yet
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0755); mkErr != nil {
			return nil, errors.FileWriteError(path, mkErr)
		}
		idx, err = bleve.New(path, NewMapping())
	}
	if err != nil {
		return nil, errors.IndexUnavailable("failed to open index at "+path, err)
	}
	return &Index{idx: idx, path: path}, nil
}

// Path returns the on-disk location, empty for in-memory indexes
func (i *Index) Path() string {
	return i.path
}

// Close releases the index
func (i *Index) Close() error {
	return i.idx.Close()
}

// DocCount returns the number of indexed workshops
func (i *Index) DocCount() (uint64, error) {
	n, err := i.idx.DocCount()
	if err != nil {
		return 0, errors.IndexUnavailable("failed to count documents", err)
	}
	return n, nil
}

// Upsert indexes workshops, replacing documents with the same ID
func (i *Index) Upsert(ctx context.Context, workshops ...types.Workshop) error {
	if len(workshops) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.Cancelled("index", err)
	}

	batch := i.idx.NewBatch()
	for _, w := range workshops {
		doc, err := document(w)
		if err != nil {
			return errors.InternalError("failed to encode workshop "+w.ID, err)
		}
		if err := batch.Index(w.ID, doc); err != nil {
			return errors.IndexUnavailable("failed to queue workshop "+w.ID, err)
		}
	}
	if err := i.idx.Batch(batch); err != nil {
		return errors.IndexUnavailable("failed to write batch", err)
	}
	return nil
}

// Delete removes workshops from the index. Unknown IDs are ignored.
func (i *Index) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.Cancelled("index delete", err)
	}

	batch := i.idx.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	if err := i.idx.Batch(batch); err != nil {
		return errors.IndexUnavailable("failed to delete documents", err)
	}
	return nil
}

// IDs returns the ID of every indexed workshop
func (i *Index) IDs(ctx context.Context) ([]string, error) {
	n, err := i.DocCount()
	if err != nil || n == 0 {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(n), 0, false)
	req.SortByCustom(search.SortOrder{&search.SortDocID{}})
	res, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, errors.IndexUnavailable("failed to list documents", err)
	}

	ids := make([]string, len(res.Hits))
	for j, hit := range res.Hits {
		ids[j] = hit.ID
	}
	return ids, nil
}

// Count returns the number of workshops matching q
func (i *Index) Count(ctx context.Context, q Query) (int64, error) {
	req := bleve.NewSearchRequestOptions(q.Match, 0, 0, false)
	res, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return 0, errors.IndexUnavailable("count failed", err)
	}
	return int64(res.Total), nil
}

// Page returns one window of the workshops matching q
func (i *Index) Page(ctx context.Context, q Query, window repository.Window, order repository.Order) ([]types.WorkshopCard, error) {
	sortOrder, err := sortOrder(q, order)
	if err != nil {
		return nil, err
	}

	size := window.Size
	if window.Unbounded() {
		n, err := i.DocCount()
		if err != nil {
			return nil, err
		}
		size = int(n) - window.Offset
	}
	if size <= 0 {
		return []types.WorkshopCard{}, nil
	}

	req := bleve.NewSearchRequestOptions(q.Match, size, window.Offset, false)
	req.Fields = []string{fieldCard}
	req.SortByCustom(sortOrder)

	res, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, errors.IndexUnavailable("page failed", err)
	}

	cards := make([]types.WorkshopCard, 0, len(res.Hits))
	for _, hit := range res.Hits {
		raw, ok := hit.Fields[fieldCard].(string)
		if !ok {
			return nil, errors.IndexUnavailable("document "+hit.ID+" has no stored card", nil)
		}
		var card types.WorkshopCard
		if err := json.Unmarshal([]byte(raw), &card); err != nil {
			return nil, errors.IndexUnavailable("document "+hit.ID+" has a corrupt card", err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// sortOrder applies the caller order, then relevance for text searches, then
// rating and finally the document ID.
func sortOrder(q Query, order repository.Order) (search.SortOrder, error) {
	var so search.SortOrder
	seen := make(map[string]bool)

	for _, f := range order {
		desc := f.Direction == repository.Desc
		var field search.SearchSort
		switch f.Key {
		case filter.SortRating:
			field = &search.SortField{Field: fieldRating, Desc: desc, Type: search.SortFieldAsNumber}
		case filter.SortPrice:
			field = &search.SortField{Field: fieldPrice, Desc: desc, Type: search.SortFieldAsNumber}
		case filter.SortTitle:
			field = &search.SortField{Field: fieldTitleSort, Desc: desc, Type: search.SortFieldAsString}
		case filter.SortCreatedAt:
			field = &search.SortField{Field: fieldCreatedAt, Desc: desc, Type: search.SortFieldAsDate}
		case filter.SortDistance:
			if q.Near == nil {
				return nil, errors.InvalidInput("orderBy", "distance ordering requires a location")
			}
			geo, err := search.NewSortGeoDistance(fieldLocation, "km", q.Near.Longitude, q.Near.Latitude, desc)
			if err != nil {
				return nil, errors.InvalidInput("orderBy", err.Error())
			}
			field = geo
		default:
			return nil, errors.InvalidInput("orderBy", "unknown sort key "+f.Key)
		}
		if seen[f.Key] {
			continue
		}
		seen[f.Key] = true
		so = append(so, field)
	}

	if q.Ranked {
		so = append(so, &search.SortScore{Desc: true})
	}
	if !seen[filter.SortRating] {
		so = append(so, &search.SortField{Field: fieldRating, Desc: true, Type: search.SortFieldAsNumber})
	}
	return append(so, &search.SortDocID{}), nil
}
