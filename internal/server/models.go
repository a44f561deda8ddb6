package server

import (
	"time"

	"outofschool/internal/operations"
	"outofschool/internal/types"
)

// Swagger needs concrete result types; generics are not expanded by swag.

// WorkshopCardsResponse is a page of workshop cards
type WorkshopCardsResponse = types.SearchResult[types.WorkshopCard]

// ProvidersResponse is a page of providers
type ProvidersResponse = types.SearchResult[types.Provider]

// ApplicationsResponse is a page of applications
type ApplicationsResponse = types.SearchResult[types.Application]

// MinistryAdminsResponse is a page of ministry administrators
type MinistryAdminsResponse = types.SearchResult[types.MinistryAdmin]

// StatisticReportsResponse is a page of statistic reports
type StatisticReportsResponse = types.SearchResult[types.StatisticReport]

// HealthResponse represents the service health
type HealthResponse struct {
	Status     string            `json:"status" example:"healthy"`
	Uptime     string            `json:"uptime" example:"2h30m15s"`
	Components map[string]string `json:"components"`
}

// BackendsResponse lists search backends
type BackendsResponse struct {
	Backends []operations.BackendState `json:"backends"`
}

// SetBackendRequest switches a search backend on or off
type SetBackendRequest struct {
	Enabled *bool `json:"enabled" example:"false"`
}

// ReindexResponse summarizes an index rebuild
type ReindexResponse struct {
	Indexed  int    `json:"indexed" example:"1200"`
	Removed  int    `json:"removed" example:"3"`
	Duration string `json:"duration" example:"1.2s"`
}

func reindexResponse(stats operations.ReindexStats) ReindexResponse {
	return ReindexResponse{
		Indexed:  stats.Indexed,
		Removed:  stats.Removed,
		Duration: stats.Duration.Round(time.Millisecond).String(),
	}
}
