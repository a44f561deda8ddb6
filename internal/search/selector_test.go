package search_test

import (
	"context"
	"testing"
	"time"

	"outofschool/internal/errors"
	"outofschool/internal/filter"
	"outofschool/internal/logger"
	"outofschool/internal/metrics"
	"outofschool/internal/search"
	"outofschool/internal/testutil"
	"outofschool/internal/types"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	page     = filter.Offset{Size: 12}
	kyivGeo  = filter.GeoPoint{Latitude: 50.45, Longitude: 30.52, RadiusKm: 5}
	oneMatch = types.NewSearchResult(1, []types.WorkshopCard{{ID: "w1"}})
)

func relationalOnly(f filter.WorkshopFilter) bool {
	return !f.HasGeo() && f.OrderBy != types.OrderByNearest
}

func newStrategies() (*testutil.MockStrategy, *testutil.MockStrategy) {
	relational := testutil.NewMockStrategy(search.KindRelational)
	relational.SupportsFn = relationalOnly
	return relational, testutil.NewMockStrategy(search.KindIndex)
}

func TestSelector_Select(t *testing.T) {
	tests := []struct {
		name       string
		filter     filter.WorkshopFilter
		cfg        search.Config
		noIndex    bool
		enabled    bool
		wantKind   search.Kind
		wantReason string
		wantErr    bool
	}{
		{"plain listing", filter.WorkshopFilter{Offset: page}, search.Config{}, false, true, search.KindRelational, search.ReasonDefault, false},
		{"text prefers index", filter.WorkshopFilter{Offset: page, SearchText: "chess"}, search.Config{}, false, true, search.KindIndex, search.ReasonText, false},
		{"configured preference", filter.WorkshopFilter{Offset: page}, search.Config{PreferIndex: true}, false, true, search.KindIndex, search.ReasonPreferred, false},
		{"geo requires index", filter.WorkshopFilter{Offset: page, Near: types.Some(kyivGeo)}, search.Config{}, false, true, search.KindIndex, search.ReasonLocation, false},
		{"nearest requires index", filter.WorkshopFilter{Offset: page, Near: types.Some(kyivGeo), OrderBy: types.OrderByNearest}, search.Config{}, false, true, search.KindIndex, search.ReasonLocation, false},
		{"text with disabled index", filter.WorkshopFilter{Offset: page, SearchText: "chess"}, search.Config{}, false, false, search.KindRelational, search.ReasonIndexDisabled, false},
		{"text without index", filter.WorkshopFilter{Offset: page, SearchText: "chess"}, search.Config{}, true, true, search.KindRelational, search.ReasonIndexDisabled, false},
		{"geo with disabled index", filter.WorkshopFilter{Offset: page, Near: types.Some(kyivGeo)}, search.Config{}, false, false, "", search.ReasonLocation, true},
		{"geo without index", filter.WorkshopFilter{Offset: page, Near: types.Some(kyivGeo)}, search.Config{}, true, true, "", search.ReasonLocation, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relational, idx := newStrategies()
			var index search.Strategy = idx
			if tt.noIndex {
				index = nil
			}
			s := search.NewSelector(relational, index, testutil.StaticSwitch(tt.enabled), tt.cfg, nil)

			strategy, decision, err := s.Select(context.Background(), tt.filter)
			assert.Equal(t, tt.wantReason, decision.Reason)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrSearchConfiguration))
				assert.Nil(t, strategy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, decision.Kind)
			assert.Equal(t, tt.wantKind, strategy.Kind())
		})
	}
}

func TestSelector_SelectionIsDeterministic(t *testing.T) {
	relational, idx := newStrategies()
	s := search.NewSelector(relational, idx, testutil.StaticSwitch(true), search.Config{}, nil)
	f := filter.WorkshopFilter{Offset: page, SearchText: "dance"}

	_, first, err := s.Select(context.Background(), f)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, d, err := s.Select(context.Background(), f)
		require.NoError(t, err)
		assert.Equal(t, first, d)
	}
}

func TestSelector_SearchUsesChosenStrategy(t *testing.T) {
	relational, idx := newStrategies()
	f := filter.WorkshopFilter{Offset: page, SearchText: "chess"}
	idx.On("Search", mock.Anything, f).Return(oneMatch, nil).Once()

	s := search.NewSelector(relational, idx, testutil.StaticSwitch(true), search.Config{Fallback: true}, nil)
	res, kind, err := s.Search(context.Background(), f)

	require.NoError(t, err)
	assert.Equal(t, search.KindIndex, kind)
	assert.Equal(t, oneMatch, res)
	idx.AssertExpectations(t)
	relational.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSelector_FallbackOnStorageError(t *testing.T) {
	relational, idx := newStrategies()
	f := filter.WorkshopFilter{Offset: page, SearchText: "chess"}
	idx.On("Search", mock.Anything, f).Return(search.Result{}, errors.IndexUnavailable("locked", nil)).Once()
	relational.On("Search", mock.Anything, f).Return(oneMatch, nil).Once()

	m := metrics.New()
	s := search.NewSelector(relational, idx, testutil.StaticSwitch(true), search.Config{Fallback: true}, m)
	res, kind, err := s.Search(context.Background(), f)

	require.NoError(t, err)
	assert.Equal(t, search.KindRelational, kind)
	assert.Equal(t, oneMatch, res)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.FallbacksTotal.WithLabelValues("index", "relational")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.SearchesTotal.WithLabelValues("index", metrics.OutcomeStorage)))
	idx.AssertExpectations(t)
	relational.AssertExpectations(t)
}

func TestSelector_LogsCarryRequestID(t *testing.T) {
	hook := testutil.CaptureLogs(t)
	relational, idx := newStrategies()
	f := filter.WorkshopFilter{Offset: page, SearchText: "chess"}
	idx.On("Search", mock.Anything, f).Return(search.Result{}, errors.IndexUnavailable("locked", nil)).Once()
	relational.On("Search", mock.Anything, f).Return(oneMatch, nil).Once()

	s := search.NewSelector(relational, idx, testutil.StaticSwitch(true), search.Config{Fallback: true}, nil)
	ctx := logger.ContextWithRequestID(context.Background(), "req-42")
	_, _, err := s.Search(ctx, f)
	require.NoError(t, err)

	entries := testutil.EntriesFor(hook, "req-42")
	assert.Equal(t, logrus.DebugLevel, entries["Search strategy selected"])
	assert.Equal(t, logrus.WarnLevel, entries["Search strategy failed, falling back"])
}

func TestSelector_RelationalFailureFallsBackToIndex(t *testing.T) {
	relational, idx := newStrategies()
	f := filter.WorkshopFilter{Offset: page}
	relational.On("Search", mock.Anything, f).Return(search.Result{}, errors.StorageFailed("count", assert.AnError)).Once()
	idx.On("Search", mock.Anything, f).Return(oneMatch, nil).Once()

	s := search.NewSelector(relational, idx, testutil.StaticSwitch(true), search.Config{Fallback: true}, nil)
	res, kind, err := s.Search(context.Background(), f)

	require.NoError(t, err)
	assert.Equal(t, search.KindIndex, kind)
	assert.Equal(t, int64(1), res.TotalAmount)
}

func TestSelector_NoFallback(t *testing.T) {
	storageErr := errors.StorageFailed("page", assert.AnError)

	tests := []struct {
		name    string
		filter  filter.WorkshopFilter
		cfg     search.Config
		err     error
		enabled bool
		code    errors.ErrorCode
	}{
		{"fallback disabled", filter.WorkshopFilter{Offset: page, SearchText: "chess"}, search.Config{}, storageErr, true, errors.ErrStorage},
		{"validation error", filter.WorkshopFilter{Offset: page, SearchText: "chess"}, search.Config{Fallback: true},
			errors.ValidationFailed("from", "-1", "must be >= 0"), true, errors.ErrValidationFailed},
		{"cancelled", filter.WorkshopFilter{Offset: page, SearchText: "chess"}, search.Config{Fallback: true},
			errors.Cancelled("count", context.Canceled), true, errors.ErrCancelled},
		{"alternate cannot serve location", filter.WorkshopFilter{Offset: page, Near: types.Some(kyivGeo)}, search.Config{Fallback: true}, storageErr, true, errors.ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relational, idx := newStrategies()
			idx.On("Search", mock.Anything, tt.filter).Return(search.Result{}, tt.err).Once()

			s := search.NewSelector(relational, idx, testutil.StaticSwitch(tt.enabled), tt.cfg, nil)
			_, kind, err := s.Search(context.Background(), tt.filter)

			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
			assert.Equal(t, search.KindIndex, kind)
			relational.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
		})
	}
}

func TestSelector_RelationalFailureWithDisabledIndex(t *testing.T) {
	relational, idx := newStrategies()
	f := filter.WorkshopFilter{Offset: page}
	relational.On("Search", mock.Anything, f).Return(search.Result{}, errors.StorageFailed("count", assert.AnError)).Once()

	s := search.NewSelector(relational, idx, testutil.StaticSwitch(false), search.Config{Fallback: true}, nil)
	_, _, err := s.Search(context.Background(), f)

	assert.True(t, errors.IsStorage(err))
	idx.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSelector_ConfigurationErrorSkipsStrategies(t *testing.T) {
	relational, idx := newStrategies()
	f := filter.WorkshopFilter{Offset: page, OrderBy: types.OrderByNearest, Near: types.Some(kyivGeo)}

	s := search.NewSelector(relational, idx, testutil.StaticSwitch(false), search.Config{Fallback: true}, nil)
	_, _, err := s.Search(context.Background(), f)

	assert.True(t, errors.HasCode(err, errors.ErrSearchConfiguration))
	relational.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	idx.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestGuard_OpensAfterConsecutiveStorageFailures(t *testing.T) {
	m := metrics.New()
	g := search.NewGuard("index", 2, time.Hour, m)
	calls := 0
	failing := func() error {
		calls++
		return errors.IndexUnavailable("locked", nil)
	}

	assert.Error(t, g.Do(failing))
	assert.Error(t, g.Do(failing))
	assert.Equal(t, "open", g.State())
	assert.Equal(t, 2.0, promtest.ToFloat64(m.BreakerState.WithLabelValues("index")))

	err := g.Do(failing)
	assert.True(t, errors.IsStorage(err))
	assert.Equal(t, 2, calls)
}

func TestGuard_IgnoresNonStorageErrors(t *testing.T) {
	g := search.NewGuard("index", 1, time.Hour, nil)

	err := g.Do(func() error { return errors.ValidationFailed("from", "-1", "must be >= 0") })
	assert.True(t, errors.IsValidation(err))
	err = g.Do(func() error { return errors.Cancelled("page", context.Canceled) })
	assert.True(t, errors.IsCancelled(err))

	assert.Equal(t, "closed", g.State())
}

func TestGuard_NilRunsFunction(t *testing.T) {
	var g *search.Guard
	called := false
	require.NoError(t, g.Do(func() error {
		called = true
		return nil
	}))
	assert.True(t, called)
}
