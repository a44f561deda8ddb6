package operations

import (
	"context"
	"net/url"
	"testing"

	"outofschool/internal/errors"
	"outofschool/internal/filter"
	"outofschool/internal/search"
	"outofschool/internal/testutil"
	"outofschool/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, f filter.WorkshopFilter) (search.Result, search.Kind, error) {
	args := m.Called(ctx, f)
	res, _ := args.Get(0).(search.Result)
	kind, _ := args.Get(1).(search.Kind)
	return res, kind, args.Error(2)
}

func newTestCatalog(t *testing.T, workshops int) (*Catalog, *mockSearcher) {
	t.Helper()
	database := testutil.SetupTestDB(t)
	testutil.SeedDB(t, database, testutil.SampleFixtures(workshops))

	searcher := &mockSearcher{}
	return NewCatalog(searcher, SQLRepositories(database), filter.DefaultOptions()), searcher
}

func TestCatalog_WorkshopsParsesBeforeSearching(t *testing.T) {
	c, searcher := newTestCatalog(t, 0)
	ctx := context.Background()

	want := types.NewSearchResult(3, []types.WorkshopCard{{ID: "w1"}})
	searcher.On("Search", mock.Anything, mock.MatchedBy(func(f filter.WorkshopFilter) bool {
		return f.SearchText == "chess" && f.Size == filter.DefaultOptions().DefaultSize
	})).Return(want, search.KindIndex, nil).Once()

	res, kind, err := c.Workshops(ctx, url.Values{"searchText": {"chess"}})
	require.NoError(t, err)
	assert.Equal(t, want, res)
	assert.Equal(t, search.KindIndex, kind)

	_, _, err = c.Workshops(ctx, url.Values{"size": {"-1"}, "minAge": {"200"}})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Len(t, errors.Violations(err), 2)

	searcher.AssertExpectations(t)
}

func TestCatalog_AdminWorkshops(t *testing.T) {
	c, _ := newTestCatalog(t, 15)

	res, err := c.AdminWorkshops(context.Background(), url.Values{
		"providerId": {testutil.ProviderRobotics},
		"size":       {"3"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.TotalAmount)
	assert.Len(t, res.Entities, 3)
	for _, w := range res.Entities {
		assert.Equal(t, testutil.ProviderRobotics, w.ProviderID)
	}
}

func TestCatalog_Providers(t *testing.T) {
	c, _ := newTestCatalog(t, 2)
	ctx := context.Background()

	res, err := c.Providers(ctx, url.Values{"statuses": {"APPROVED"}})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.TotalAmount)
	assert.Equal(t, "Art School Kalyna", res.Entities[0].FullTitle)

	_, err = c.Providers(ctx, url.Values{"statuses": {"archived"}})
	assert.True(t, errors.IsValidation(err))
}

func TestCatalog_ApplicationsHideBlockedAndReturnEverythingWithoutSize(t *testing.T) {
	c, _ := newTestCatalog(t, 1)
	ctx := context.Background()

	res, err := c.Applications(ctx, url.Values{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.TotalAmount)
	assert.Len(t, res.Entities, 2)

	res, err = c.Applications(ctx, url.Values{"showBlocked": {"true"}, "orderByAlphabetically": {"true"}})
	require.NoError(t, err)
	require.Len(t, res.Entities, 3)
	assert.Equal(t, "Franko Ivan", res.Entities[0].ChildFullName)
}

func TestCatalog_MinistryAdminsAndReports(t *testing.T) {
	c, _ := newTestCatalog(t, 0)
	ctx := context.Background()

	admins, err := c.MinistryAdmins(ctx, url.Values{"searchString": {"olena"}})
	require.NoError(t, err)
	require.Equal(t, int64(1), admins.TotalAmount)
	assert.Equal(t, "Bondar", admins.Entities[0].LastName)

	for _, name := range []string{"Олена", "олена", "ОЛЕНА"} {
		admins, err = c.MinistryAdmins(ctx, url.Values{"searchString": {name}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), admins.TotalAmount, name)
	}

	reports, err := c.StatisticReports(ctx, url.Values{"reportType": {"workshopsMonthly"}})
	require.NoError(t, err)
	require.Equal(t, int64(1), reports.TotalAmount)
	assert.Equal(t, types.ReportHTML, reports.Entities[0].DataType)
}

func TestCatalog_CancelledContext(t *testing.T) {
	c, _ := newTestCatalog(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Providers(ctx, url.Values{})
	assert.True(t, errors.IsCancelled(err))
}
