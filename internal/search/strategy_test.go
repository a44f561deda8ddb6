package search_test

import (
	"context"
	"testing"

	"outofschool/internal/db"
	"outofschool/internal/errors"
	"outofschool/internal/filter"
	"outofschool/internal/index"
	"outofschool/internal/repository"
	"outofschool/internal/search"
	"outofschool/internal/testutil"
	"outofschool/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupStrategies returns both strategies over the same sample catalog
func setupStrategies(t *testing.T, n int) (*search.RelationalStrategy, *search.IndexStrategy) {
	t.Helper()
	ctx := context.Background()

	database := testutil.SetupTestDB(t)
	testutil.SeedDB(t, database, testutil.SampleFixtures(n))

	workshops, err := db.NewStore(database).WorkshopBatch(ctx, "", n)
	require.NoError(t, err)
	idx := testutil.SetupTestIndex(t, workshops...)

	relational := search.NewRelationalStrategy(
		repository.Repository[types.WorkshopCard, db.Where](db.NewWorkshopCardRepository(database)))
	indexed := search.NewIndexStrategy(
		repository.Repository[types.WorkshopCard, index.Query](idx), nil)
	return relational, indexed
}

func cardIDs(res search.Result) []string {
	ids := make([]string, len(res.Entities))
	for i, c := range res.Entities {
		ids[i] = c.ID
	}
	return ids
}

func TestStrategies_AgreeOnStructuredFilters(t *testing.T) {
	relational, indexed := setupStrategies(t, 30)

	tests := []struct {
		name   string
		filter filter.WorkshopFilter
	}{
		{"first page", filter.WorkshopFilter{Offset: filter.Offset{Size: 10}}},
		{"middle page", filter.WorkshopFilter{Offset: filter.Offset{From: 10, Size: 7}}},
		{"free", filter.WorkshopFilter{Offset: filter.Offset{Size: 50}, IsFree: types.Some(true)}},
		{"price range by price", filter.WorkshopFilter{Offset: filter.Offset{Size: 50}, MinPrice: types.Some(100.0), MaxPrice: types.Some(200.0), OrderBy: types.OrderByPriceAsc}},
		{"directions", filter.WorkshopFilter{Offset: filter.Offset{Size: 50}, DirectionIDs: []int64{1, 3}}},
		{"age", filter.WorkshopFilter{Offset: filter.Offset{Size: 50}, MinAge: types.Some(13)}},
		{"city", filter.WorkshopFilter{Offset: filter.Offset{Size: 50}, City: "львів", OrderBy: types.OrderByNewest}},
		{"alphabet", filter.WorkshopFilter{Offset: filter.Offset{Size: 8}, OrderBy: types.OrderByAlphabet}},
		{"past the end", filter.WorkshopFilter{Offset: filter.Offset{From: 100, Size: 8}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			want, err := relational.Search(ctx, tt.filter)
			require.NoError(t, err)
			got, err := indexed.Search(ctx, tt.filter)
			require.NoError(t, err)

			assert.Equal(t, want.TotalAmount, got.TotalAmount)
			assert.Equal(t, cardIDs(want), cardIDs(got))
		})
	}
}

func TestStrategies_FoldCyrillicCity(t *testing.T) {
	relational, indexed := setupStrategies(t, 10)

	for _, city := range []string{"Львів", "львів", "ЛЬВІВ"} {
		t.Run(city, func(t *testing.T) {
			f := filter.WorkshopFilter{Offset: filter.Offset{Size: 10}, City: city}
			for _, strategy := range []search.Strategy{relational, indexed} {
				res, err := strategy.Search(context.Background(), f)
				require.NoError(t, err)
				assert.Equal(t, int64(5), res.TotalAmount, strategy.Kind())
				assert.Len(t, res.Entities, 5, strategy.Kind())
			}
		})
	}
}

func TestRelationalStrategy_TextSearch(t *testing.T) {
	relational, _ := setupStrategies(t, 10)

	res, err := relational.Search(context.Background(), filter.WorkshopFilter{Offset: filter.Offset{Size: 3}, SearchText: "ROBOTICS"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.TotalAmount)
	assert.Len(t, res.Entities, 3)
	assert.Equal(t, "Robotics Lab", res.Entities[0].ProviderTitle)
}

func TestRelationalStrategy_RejectsLocation(t *testing.T) {
	relational, _ := setupStrategies(t, 2)
	f := filter.WorkshopFilter{Offset: filter.Offset{Size: 3}, Near: types.Some(kyivGeo)}

	assert.False(t, relational.Supports(f))
	_, err := relational.Search(context.Background(), f)
	assert.True(t, errors.HasCode(err, errors.ErrSearchConfiguration))
}

func TestIndexStrategy_LocationSearch(t *testing.T) {
	_, indexed := setupStrategies(t, 10)
	f := filter.WorkshopFilter{
		Offset:  filter.Offset{Size: 10},
		Near:    types.Some(filter.GeoPoint{Latitude: 50.45, Longitude: 30.52, RadiusKm: 20}),
		OrderBy: types.OrderByNearest,
	}

	require.True(t, indexed.Supports(f))
	res, err := indexed.Search(context.Background(), f)
	require.NoError(t, err)

	// even workshops are in Kyiv, closest first
	assert.Equal(t, int64(5), res.TotalAmount)
	assert.Equal(t, []string{
		testutil.WorkshopID(0), testutil.WorkshopID(2), testutil.WorkshopID(4),
		testutil.WorkshopID(6), testutil.WorkshopID(8),
	}, cardIDs(res))
}

func TestIndexStrategy_EmptyResult(t *testing.T) {
	_, indexed := setupStrategies(t, 4)

	res, err := indexed.Search(context.Background(), filter.WorkshopFilter{Offset: filter.Offset{Size: 5}, SearchText: "astronomy"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.TotalAmount)
	assert.NotNil(t, res.Entities)
	assert.Empty(t, res.Entities)
}
