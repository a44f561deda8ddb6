package search

import (
	"context"
	"time"

	"outofschool/internal/errors"
	"outofschool/internal/filter"
	"outofschool/internal/logger"
	"outofschool/internal/metrics"
	"outofschool/internal/types"
)

// Selection reasons
const (
	ReasonLocation      = "location"
	ReasonText          = "text"
	ReasonPreferred     = "preferred"
	ReasonDefault       = "default"
	ReasonIndexDisabled = "index_disabled"
)

// IndexSwitch reports whether the index backend is currently enabled
type IndexSwitch interface {
	IndexEnabled(ctx context.Context) bool
}

// Config controls strategy selection
type Config struct {
	// PreferIndex routes every search to the index when it is available
	PreferIndex bool
	// Fallback retries a search on the other backend after a storage error
	Fallback bool
}

// Decision is the backend chosen for one search
type Decision struct {
	Kind   Kind
	Reason string
}

// Selector chooses the backend for each workshop search
type Selector struct {
	relational Strategy
	index      Strategy
	enabled    IndexSwitch
	cfg        Config
	metrics    *metrics.Metrics
}

// NewSelector creates a selector. idx may be nil when no index is configured;
// a nil enabled switch treats a configured index as always enabled.
func NewSelector(relational, idx Strategy, enabled IndexSwitch, cfg Config, m *metrics.Metrics) *Selector {
	return &Selector{
		relational: relational,
		index:      idx,
		enabled:    enabled,
		cfg:        cfg,
		metrics:    m,
	}
}

func (s *Selector) indexAvailable(ctx context.Context) bool {
	if s.index == nil {
		return false
	}
	return s.enabled == nil || s.enabled.IndexEnabled(ctx)
}

// Select decides which backend serves f. Location searches need the index
// and fail with a configuration error when it is unavailable.
func (s *Selector) Select(ctx context.Context, f filter.WorkshopFilter) (Strategy, Decision, error) {
	required := f.HasGeo() || f.OrderBy == types.OrderByNearest

	var reason string
	switch {
	case required:
		reason = ReasonLocation
	case f.HasText():
		reason = ReasonText
	case s.cfg.PreferIndex:
		reason = ReasonPreferred
	}

	if reason == "" {
		return s.relational, Decision{Kind: KindRelational, Reason: ReasonDefault}, nil
	}
	if s.indexAvailable(ctx) {
		return s.index, Decision{Kind: KindIndex, Reason: reason}, nil
	}
	if required {
		detail := "location search requires the search index, which is disabled"
		if s.index == nil {
			detail = "location search requires the search index, which is not configured"
		}
		return nil, Decision{Reason: reason}, errors.StrategyUnavailable(detail)
	}
	return s.relational, Decision{Kind: KindRelational, Reason: ReasonIndexDisabled}, nil
}

// Search runs f on the selected backend and returns the result together
// with the backend that produced it.
func (s *Selector) Search(ctx context.Context, f filter.WorkshopFilter) (Result, Kind, error) {
	log := logger.WithContext(ctx)
	strategy, decision, err := s.Select(ctx, f)
	if err != nil {
		log.WithFields(logger.Fields{
			"reason": decision.Reason,
			"filter": f.String(),
		}).Debug("No search strategy available")
		s.metrics.RecordSearch("none", outcome(err), 0)
		return Result{}, "", err
	}

	log.WithFields(logger.Fields{
		"strategy": decision.Kind,
		"reason":   decision.Reason,
		"filter":   f.String(),
	}).Debug("Search strategy selected")
	s.metrics.RecordSelection(string(decision.Kind), decision.Reason)

	res, err := s.run(ctx, strategy, f)
	if err == nil {
		return res, strategy.Kind(), nil
	}

	alternate := s.alternate(ctx, strategy.Kind())
	if !s.cfg.Fallback || !errors.IsStorage(err) || alternate == nil || !alternate.Supports(f) {
		return Result{}, strategy.Kind(), err
	}

	log.WithError(err).WithFields(logger.Fields{
		"from":   strategy.Kind(),
		"to":     alternate.Kind(),
		"filter": f.String(),
	}).Warn("Search strategy failed, falling back")
	s.metrics.RecordFallback(string(strategy.Kind()), string(alternate.Kind()))

	res, err = s.run(ctx, alternate, f)
	if err != nil {
		return Result{}, alternate.Kind(), err
	}
	return res, alternate.Kind(), nil
}

// alternate returns the other backend when it can be used
func (s *Selector) alternate(ctx context.Context, kind Kind) Strategy {
	if kind == KindIndex {
		return s.relational
	}
	if s.indexAvailable(ctx) {
		return s.index
	}
	return nil
}

func (s *Selector) run(ctx context.Context, strategy Strategy, f filter.WorkshopFilter) (Result, error) {
	start := time.Now()
	res, err := strategy.Search(ctx, f)
	s.metrics.RecordSearch(string(strategy.Kind()), outcome(err), time.Since(start))
	return res, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.IsValidation(err) || errors.HasCode(err, errors.ErrInvalidInput):
		return metrics.OutcomeInvalid
	case errors.IsCancelled(err):
		return metrics.OutcomeCancelled
	case errors.IsStorage(err):
		return metrics.OutcomeStorage
	case errors.HasCode(err, errors.ErrSearchConfiguration):
		return metrics.OutcomeConfig
	default:
		return metrics.OutcomeOtherError
	}
}
