package server

import (
	"context"
	"net/http"
	"time"

	"outofschool/internal/errors"
	"outofschool/internal/logger"
	"outofschool/internal/operations"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// HeaderSearchStrategy names the backend that served a workshop search
const HeaderSearchStrategy = "X-Search-Strategy"

const healthTimeout = 3 * time.Second

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)
	s.echo.GET("/health", s.handleHealth)
	if s.deps.Metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.deps.Metrics.Handler()))
	}

	api := s.echo.Group("/api")

	api.GET("/workshops/search", s.handleSearchWorkshops)
	api.GET("/providers", s.handleListProviders)
	api.GET("/applications", s.handleListApplications)
	api.GET("/ministry-admins", s.handleListMinistryAdmins)
	api.GET("/statistic-reports", s.handleListStatisticReports)

	admin := api.Group("/admin")
	admin.GET("/workshops", s.handleListAdminWorkshops)
	admin.GET("/search-backends", s.handleListBackends)
	admin.PUT("/search-backends/:name", s.handleSetBackend)
	admin.POST("/index/rebuild", s.handleRebuildIndex)
}

// handleHealth godoc
// @Summary Health check
// @Description Report the state of the database and the search index
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (s *Server) handleHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:     "healthy",
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
		Components: make(map[string]string, len(s.deps.Checks)),
	}
	status := http.StatusOK

	for name, check := range s.deps.Checks {
		if err := check(ctx); err != nil {
			logger.GetLogger(c).WithError(err).WithField("component", name).Warn("Health check failed")
			resp.Components[name] = "unhealthy"
			if name == "database" {
				resp.Status = "unhealthy"
				status = http.StatusServiceUnavailable
			} else if resp.Status == "healthy" {
				resp.Status = "degraded"
			}
			continue
		}
		resp.Components[name] = "healthy"
	}

	return c.JSON(status, resp)
}

// handleSearchWorkshops godoc
// @Summary Search workshops
// @Description Public workshop search. The backend that served the request is named in the X-Search-Strategy header.
// @Tags workshops
// @Produce json
// @Param searchText query string false "Free text matched against title, keywords, description and provider title"
// @Param directionIds query string false "Comma separated direction ids"
// @Param minAge query int false "Youngest child age"
// @Param maxAge query int false "Oldest child age"
// @Param isFree query bool false "Only free (true) or only paid (false) workshops"
// @Param minPrice query int false "Lowest price"
// @Param maxPrice query int false "Highest price"
// @Param statuses query string false "Comma separated workshop statuses"
// @Param formsOfLearning query string false "Comma separated forms of learning"
// @Param city query string false "City"
// @Param latitude query number false "Latitude of the search point"
// @Param longitude query number false "Longitude of the search point"
// @Param radiusKm query number false "Search radius in kilometers"
// @Param orderBy query string false "rating, priceAsc, priceDesc, alphabet, newest or nearest"
// @Param from query int false "Offset"
// @Param size query int false "Page size"
// @Success 200 {object} WorkshopCardsResponse
// @Header 200 {string} X-Search-Strategy "relational or index"
// @Failure 400 {object} errors.HTTPErrorResponse
// @Failure 500 {object} errors.HTTPErrorResponse
// @Failure 503 {object} errors.HTTPErrorResponse
// @Router /api/workshops/search [get]
func (s *Server) handleSearchWorkshops(c echo.Context) error {
	res, kind, err := s.deps.Catalog.Workshops(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}
	c.Response().Header().Set(HeaderSearchStrategy, string(kind))
	return c.JSON(http.StatusOK, res)
}

// handleListAdminWorkshops godoc
// @Summary List workshops for administrators
// @Tags admin
// @Produce json
// @Param providerId query string false "Provider id"
// @Param institutionId query string false "Institution id"
// @Param searchString query string false "Text matched against the workshop title"
// @Param from query int false "Offset"
// @Param size query int false "Page size"
// @Success 200 {object} WorkshopCardsResponse
// @Failure 400 {object} errors.HTTPErrorResponse
// @Router /api/admin/workshops [get]
func (s *Server) handleListAdminWorkshops(c echo.Context) error {
	res, err := s.deps.Catalog.AdminWorkshops(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// handleListProviders godoc
// @Summary List providers
// @Tags providers
// @Produce json
// @Param searchString query string false "Text matched against full title, short title and EDRPOU code"
// @Param statuses query string false "Comma separated provider statuses"
// @Param licenseStatuses query string false "Comma separated license statuses"
// @Param city query string false "City, case-insensitive"
// @Param institutionId query string false "Institution id"
// @Param from query int false "Offset"
// @Param size query int false "Page size"
// @Success 200 {object} ProvidersResponse
// @Failure 400 {object} errors.HTTPErrorResponse
// @Router /api/providers [get]
func (s *Server) handleListProviders(c echo.Context) error {
	res, err := s.deps.Catalog.Providers(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// handleListApplications godoc
// @Summary List applications
// @Tags applications
// @Produce json
// @Param workshopIds query string false "Comma separated workshop ids"
// @Param statuses query string false "Comma separated application statuses"
// @Param showBlocked query bool false "Include blocked applications"
// @Param searchString query string false "Text matched against the child's full name"
// @Param orderByDateAscending query bool false "Oldest first"
// @Param orderByAlphabetically query bool false "Order by child name"
// @Param orderByStatus query bool false "Order by status"
// @Param from query int false "Offset"
// @Param size query int false "Page size, 0 returns everything"
// @Success 200 {object} ApplicationsResponse
// @Failure 400 {object} errors.HTTPErrorResponse
// @Router /api/applications [get]
func (s *Server) handleListApplications(c echo.Context) error {
	res, err := s.deps.Catalog.Applications(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// handleListMinistryAdmins godoc
// @Summary List ministry administrators
// @Tags admin
// @Produce json
// @Param searchString query string false "Text matched against names and email"
// @Param statuses query string false "Comma separated account statuses"
// @Param institutionId query string false "Institution id"
// @Param from query int false "Offset"
// @Param size query int false "Page size"
// @Success 200 {object} MinistryAdminsResponse
// @Failure 400 {object} errors.HTTPErrorResponse
// @Router /api/ministry-admins [get]
func (s *Server) handleListMinistryAdmins(c echo.Context) error {
	res, err := s.deps.Catalog.MinistryAdmins(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// handleListStatisticReports godoc
// @Summary List statistic reports
// @Tags reports
// @Produce json
// @Param reportType query string false "Report period"
// @Param dataType query string false "Report file format"
// @Param from query int false "Offset"
// @Param size query int false "Page size, 0 returns everything"
// @Success 200 {object} StatisticReportsResponse
// @Failure 400 {object} errors.HTTPErrorResponse
// @Router /api/statistic-reports [get]
func (s *Server) handleListStatisticReports(c echo.Context) error {
	res, err := s.deps.Catalog.StatisticReports(c.Request().Context(), c.QueryParams())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// handleListBackends godoc
// @Summary List search backends
// @Tags admin
// @Produce json
// @Success 200 {object} BackendsResponse
// @Failure 500 {object} errors.HTTPErrorResponse
// @Router /api/admin/search-backends [get]
func (s *Server) handleListBackends(c echo.Context) error {
	states, err := s.deps.Backends.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BackendsResponse{Backends: states})
}

// handleSetBackend godoc
// @Summary Enable or disable a search backend
// @Tags admin
// @Accept json
// @Produce json
// @Param name path string true "relational or index"
// @Param request body SetBackendRequest true "New state"
// @Success 200 {object} BackendsResponse
// @Failure 400 {object} errors.HTTPErrorResponse
// @Router /api/admin/search-backends/{name} [put]
func (s *Server) handleSetBackend(c echo.Context) error {
	kind, err := operations.ParseBackend(c.Param("name"))
	if err != nil {
		return err
	}

	var req SetBackendRequest
	if err := c.Bind(&req); err != nil {
		return errors.BadRequest("Invalid request body", err.Error())
	}
	if req.Enabled == nil {
		return errors.ValidationFailed("enabled", "", "is required")
	}

	ctx := c.Request().Context()
	if err := s.deps.Backends.SetEnabled(ctx, kind, *req.Enabled); err != nil {
		return err
	}

	states, err := s.deps.Backends.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BackendsResponse{Backends: states})
}

// handleRebuildIndex godoc
// @Summary Rebuild the workshop search index
// @Description Streams every workshop into the index and removes stale documents
// @Tags admin
// @Produce json
// @Success 200 {object} ReindexResponse
// @Failure 400 {object} errors.HTTPErrorResponse
// @Failure 500 {object} errors.HTTPErrorResponse
// @Router /api/admin/index/rebuild [post]
func (s *Server) handleRebuildIndex(c echo.Context) error {
	if s.deps.Indexer == nil {
		return errors.StrategyUnavailable("the search index is not configured")
	}

	stats, err := s.deps.Indexer.Reindex(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reindexResponse(stats))
}
