package index

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"outofschool/internal/errors"
	"outofschool/internal/filter"
	"outofschool/internal/repository"
	"outofschool/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	kyiv = filter.GeoPoint{Latitude: 50.4501, Longitude: 30.5234}
	lviv = filter.GeoPoint{Latitude: 49.8397, Longitude: 24.0297}
)

func workshop(id, title string, price, rating float64, at filter.GeoPoint) types.Workshop {
	return types.Workshop{
		WorkshopCard: types.WorkshopCard{
			ID:             id,
			Title:          title,
			ProviderID:     "provider-1",
			ProviderTitle:  "Kalyna Center",
			DirectionID:    1,
			MinAge:         6,
			MaxAge:         12,
			Price:          price,
			Status:         types.WorkshopOpen,
			FormOfLearning: types.LearningOffline,
			City:           "Kyiv",
			Latitude:       at.Latitude,
			Longitude:      at.Longitude,
			Rating:         rating,
			CreatedAt:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func newTestIndex(t *testing.T, workshops ...types.Workshop) *Index {
	t.Helper()
	idx, err := NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	require.NoError(t, idx.Upsert(context.Background(), workshops...))
	return idx
}

func searchIndex(t *testing.T, idx *Index, f filter.WorkshopFilter) types.SearchResult[types.WorkshopCard] {
	t.Helper()
	res, err := repository.Execute(context.Background(), f, WorkshopQuery,
		repository.Repository[types.WorkshopCard, Query](idx))
	require.NoError(t, err)
	return res
}

func ids(cards []types.WorkshopCard) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestIndex_UpsertReplacesAndDeletes(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t,
		workshop("w1", "Painting", 0, 4, kyiv),
		workshop("w2", "Chess", 100, 3, kyiv),
	)

	n, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	require.NoError(t, idx.Upsert(ctx, workshop("w1", "Watercolor painting", 0, 5, kyiv)))
	n, _ = idx.DocCount()
	assert.Equal(t, uint64(2), n)

	res := searchIndex(t, idx, filter.WorkshopFilter{Offset: filter.Offset{Size: 10}, SearchText: "watercolor"})
	require.Len(t, res.Entities, 1)
	assert.Equal(t, "Watercolor painting", res.Entities[0].Title)
	assert.Equal(t, 5.0, res.Entities[0].Rating)

	require.NoError(t, idx.Delete(ctx, "w2", "missing"))
	all, err := idx.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"w1"}, all)
}

func TestIndex_TextSearchRanksByRelevance(t *testing.T) {
	described := workshop("w1", "Creative club", 0, 5, kyiv)
	described.Description = "Building small robots, drawing and a lot of other activities for curious children of every age"
	titled := workshop("w2", "Robots", 0, 1, kyiv)
	other := workshop("w3", "Ballet", 0, 5, kyiv)

	idx := newTestIndex(t, described, titled, other)

	res := searchIndex(t, idx, filter.WorkshopFilter{Offset: filter.Offset{Size: 10}, SearchText: "robots"})
	assert.Equal(t, int64(2), res.TotalAmount)
	assert.Equal(t, []string{"w2", "w1"}, ids(res.Entities))

	// explicit order overrides relevance
	res = searchIndex(t, idx, filter.WorkshopFilter{Offset: filter.Offset{Size: 10}, SearchText: "robots", OrderBy: types.OrderByRating})
	assert.Equal(t, []string{"w1", "w2"}, ids(res.Entities))
}

func TestIndex_TextMatchesProviderTitle(t *testing.T) {
	idx := newTestIndex(t, workshop("w1", "Chess", 0, 1, kyiv))

	res := searchIndex(t, idx, filter.WorkshopFilter{Offset: filter.Offset{Size: 10}, SearchText: "kalyna"})
	assert.Equal(t, int64(1), res.TotalAmount)
}

func TestIndex_Filters(t *testing.T) {
	free := workshop("free", "Free drawing", 0, 3, kyiv)
	cheap := workshop("cheap", "Chess", 150, 4, kyiv)
	pricey := workshop("pricey", "Robotics", 900, 5, kyiv)
	pricey.DirectionID = 2
	pricey.MinAge, pricey.MaxAge = 14, 17
	online := workshop("online", "Python", 300, 2, lviv)
	online.FormOfLearning = types.LearningOnline
	online.City = "Lviv"
	online.Status = types.WorkshopClosed

	idx := newTestIndex(t, free, cheap, pricey, online)
	page := filter.Offset{Size: 10}

	tests := []struct {
		name   string
		filter filter.WorkshopFilter
		want   []string
	}{
		{"no criteria", filter.WorkshopFilter{Offset: page}, []string{"pricey", "cheap", "free", "online"}},
		{"free only", filter.WorkshopFilter{Offset: page, IsFree: types.Some(true)}, []string{"free"}},
		{"paid only", filter.WorkshopFilter{Offset: page, IsFree: types.Some(false)}, []string{"pricey", "cheap", "online"}},
		{"price range", filter.WorkshopFilter{Offset: page, MinPrice: types.Some(100.0), MaxPrice: types.Some(300.0)}, []string{"cheap", "online"}},
		{"direction", filter.WorkshopFilter{Offset: page, DirectionIDs: []int64{2, 7}}, []string{"pricey"}},
		{"age overlap", filter.WorkshopFilter{Offset: page, MinAge: types.Some(13)}, []string{"pricey"}},
		{"age upper bound", filter.WorkshopFilter{Offset: page, MaxAge: types.Some(10)}, []string{"cheap", "free", "online"}},
		{"status", filter.WorkshopFilter{Offset: page, Statuses: []types.WorkshopStatus{types.WorkshopClosed}}, []string{"online"}},
		{"form", filter.WorkshopFilter{Offset: page, FormsOfLearning: []types.FormOfLearning{types.LearningOffline, types.LearningMixed}}, []string{"pricey", "cheap", "free"}},
		{"city ignores case", filter.WorkshopFilter{Offset: page, City: "LVIV"}, []string{"online"}},
		{"price ascending", filter.WorkshopFilter{Offset: page, OrderBy: types.OrderByPriceAsc}, []string{"free", "cheap", "online", "pricey"}},
		{"alphabet", filter.WorkshopFilter{Offset: page, OrderBy: types.OrderByAlphabet}, []string{"cheap", "free", "online", "pricey"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := searchIndex(t, idx, tt.filter)
			assert.Equal(t, int64(len(tt.want)), res.TotalAmount)
			assert.Equal(t, tt.want, ids(res.Entities))
		})
	}
}

func TestIndex_GeoRadiusAndNearest(t *testing.T) {
	near := workshop("near", "Near", 0, 1, filter.GeoPoint{Latitude: 50.4510, Longitude: 30.5240})
	farther := workshop("farther", "Farther", 0, 5, filter.GeoPoint{Latitude: 50.4800, Longitude: 30.5600})
	remote := workshop("remote", "Remote", 0, 5, lviv)

	idx := newTestIndex(t, near, farther, remote)

	point := kyiv
	point.RadiusKm = 10
	res := searchIndex(t, idx, filter.WorkshopFilter{
		Offset:  filter.Offset{Size: 10},
		Near:    types.Some(point),
		OrderBy: types.OrderByNearest,
	})
	assert.Equal(t, int64(2), res.TotalAmount)
	assert.Equal(t, []string{"near", "farther"}, ids(res.Entities))
}

func TestIndex_WindowsPartitionResult(t *testing.T) {
	var all []types.Workshop
	for i := 0; i < 23; i++ {
		all = append(all, workshop(fmt.Sprintf("w%02d", i), fmt.Sprintf("Workshop %d", i), float64(i%4)*100, float64(i%5), kyiv))
	}
	idx := newTestIndex(t, all...)

	seen := make(map[string]bool)
	for from := 0; from < 23; from += 5 {
		res := searchIndex(t, idx, filter.WorkshopFilter{Offset: filter.Offset{From: from, Size: 5}})
		assert.Equal(t, int64(23), res.TotalAmount)
		for _, id := range ids(res.Entities) {
			assert.False(t, seen[id], "duplicate %s", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 23)

	res := searchIndex(t, idx, filter.WorkshopFilter{Offset: filter.Offset{From: 40, Size: 5}})
	assert.Equal(t, int64(23), res.TotalAmount)
	assert.Empty(t, res.Entities)
}

func TestIndex_PageUnbounded(t *testing.T) {
	idx := newTestIndex(t,
		workshop("w1", "One", 0, 1, kyiv),
		workshop("w2", "Two", 0, 2, kyiv),
		workshop("w3", "Three", 0, 3, kyiv),
	)

	cards, err := idx.Page(context.Background(), MatchAll(), repository.Window{Offset: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"w2", "w1"}, ids(cards))
}

func TestIndex_RejectsUnknownSortKeys(t *testing.T) {
	idx := newTestIndex(t, workshop("w1", "One", 0, 1, kyiv))
	ctx := context.Background()

	_, err := idx.Page(ctx, MatchAll(), repository.Window{Size: 5}, repository.Order{{Key: "salary", Direction: repository.Asc}})
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInput))

	_, err = idx.Page(ctx, MatchAll(), repository.Window{Size: 5}, repository.Order{{Key: filter.SortDistance, Direction: repository.Asc}})
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInput))
}

func TestIndex_CancelledContext(t *testing.T) {
	idx := newTestIndex(t, workshop("w1", "One", 0, 1, kyiv))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repository.Execute(ctx, filter.WorkshopFilter{Offset: filter.Offset{Size: 5}}, WorkshopQuery,
		repository.Repository[types.WorkshopCard, Query](idx))
	assert.True(t, errors.IsCancelled(err))
}

func TestOpen_CreatesThenReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "workshops.bleve")

	idx, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, idx.Upsert(context.Background(), workshop("w1", "One", 0, 1, kyiv)))
	require.NoError(t, idx.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	n, err := reopened.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestLazy_OpensOnFirstUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workshops.bleve")
	l := NewLazy(path)
	assert.False(t, l.IsOpen())

	ctx := context.Background()
	require.NoError(t, l.Upsert(ctx, workshop("w1", "One", 0, 1, kyiv)))
	assert.True(t, l.IsOpen())

	total, err := l.Count(ctx, MatchAll())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	require.NoError(t, l.Close())
	assert.False(t, l.IsOpen())

	n, err := l.DocCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	require.NoError(t, l.Close())
}
