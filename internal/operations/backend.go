package operations

import (
	"context"
	"strings"
	"time"

	"outofschool/internal/cache"
	"outofschool/internal/errors"
	"outofschool/internal/logger"
	"outofschool/internal/search"
)

// BackendState describes whether a search backend is enabled and why
type BackendState struct {
	Name      search.Kind `json:"name"`
	Enabled   bool        `json:"enabled"`
	Source    string      `json:"source"` // "stored" or "default"
	UpdatedAt *time.Time  `json:"updatedAt,omitempty"`
}

// BackendSwitch turns search backends on and off at runtime. Stored
// switches override the configured defaults and are cached for a short TTL.
type BackendSwitch struct {
	store    BackendStore
	defaults map[search.Kind]bool
	cache    *cache.Cache[search.Kind, bool]
}

// NewBackendSwitch creates a switch. indexDefault is used until a value is stored.
func NewBackendSwitch(store BackendStore, indexDefault bool, ttl time.Duration) *BackendSwitch {
	if ttl <= 0 {
		ttl = time.Second
	}
	return &BackendSwitch{
		store: store,
		defaults: map[search.Kind]bool{
			search.KindRelational: true,
			search.KindIndex:      indexDefault,
		},
		cache: cache.NewCache[search.Kind, bool](ttl, len(search.Kinds)),
	}
}

// ParseBackend matches a backend name ignoring case
func ParseBackend(name string) (search.Kind, error) {
	for _, kind := range search.Kinds {
		if strings.EqualFold(name, string(kind)) {
			return kind, nil
		}
	}
	return "", errors.ValidationFailed("name", name, "must be one of relational, index")
}

// Enabled reports whether backend kind is enabled
func (b *BackendSwitch) Enabled(ctx context.Context, kind search.Kind) (bool, error) {
	if enabled, ok := b.cache.Get(kind); ok {
		return enabled, nil
	}

	stored, found, err := b.store.Get(ctx, string(kind))
	if err != nil {
		return b.defaults[kind], err
	}

	enabled := b.defaults[kind]
	if found {
		enabled = stored.Enabled
	}
	b.cache.Set(kind, enabled)
	return enabled, nil
}

// IndexEnabled implements search.IndexSwitch. Read failures fall back to
// the configured default.
func (b *BackendSwitch) IndexEnabled(ctx context.Context) bool {
	enabled, err := b.Enabled(ctx, search.KindIndex)
	if err != nil {
		logger.WithError(err).Warn("Failed to read backend switch, using configured default")
	}
	return enabled
}

// SetEnabled stores a switch. The relational backend cannot be disabled.
func (b *BackendSwitch) SetEnabled(ctx context.Context, kind search.Kind, enabled bool) error {
	if kind == search.KindRelational && !enabled {
		return errors.ValidationFailed("name", string(kind), "the relational backend cannot be disabled")
	}
	if _, ok := b.defaults[kind]; !ok {
		return errors.ValidationFailed("name", string(kind), "must be one of relational, index")
	}

	if err := b.store.SetEnabled(ctx, string(kind), enabled); err != nil {
		return err
	}
	b.cache.Delete(kind)

	logger.WithFields(logger.Fields{
		"backend": kind,
		"enabled": enabled,
	}).Info("Search backend switched")
	return nil
}

// List returns the state of every backend
func (b *BackendSwitch) List(ctx context.Context) ([]BackendState, error) {
	stored, err := b.store.List(ctx)
	if err != nil {
		return nil, err
	}

	states := make([]BackendState, 0, len(search.Kinds))
	for _, kind := range search.Kinds {
		state := BackendState{Name: kind, Enabled: b.defaults[kind], Source: "default"}
		for _, s := range stored {
			if s.Name == string(kind) {
				updated := s.UpdatedAt
				state.Enabled = s.Enabled
				state.Source = "stored"
				state.UpdatedAt = &updated
			}
		}
		states = append(states, state)
	}
	return states, nil
}

// Close stops the cache sweeper
func (b *BackendSwitch) Close() {
	b.cache.Close()
}
