package testutil

import (
	"context"

	"outofschool/internal/filter"
	"outofschool/internal/search"

	"github.com/stretchr/testify/mock"
)

// MockStrategy is a mock implementation of search.Strategy
type MockStrategy struct {
	mock.Mock
	kind search.Kind
	// SupportsFn decides Supports when set; otherwise every filter is supported
	SupportsFn func(f filter.WorkshopFilter) bool
}

// NewMockStrategy creates a mock strategy of the given kind
func NewMockStrategy(kind search.Kind) *MockStrategy {
	return &MockStrategy{kind: kind}
}

func (m *MockStrategy) Kind() search.Kind {
	return m.kind
}

func (m *MockStrategy) Supports(f filter.WorkshopFilter) bool {
	if m.SupportsFn != nil {
		return m.SupportsFn(f)
	}
	return true
}

func (m *MockStrategy) Search(ctx context.Context, f filter.WorkshopFilter) (search.Result, error) {
	args := m.Called(ctx, f)
	res, _ := args.Get(0).(search.Result)
	return res, args.Error(1)
}

// StaticSwitch is a search.IndexSwitch with a fixed answer
type StaticSwitch bool

func (s StaticSwitch) IndexEnabled(ctx context.Context) bool {
	return bool(s)
}
