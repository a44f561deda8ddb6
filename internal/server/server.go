package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"outofschool/internal/config"
	"outofschool/internal/constants"
	"outofschool/internal/logger"
	"outofschool/internal/metrics"
	"outofschool/internal/operations"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds the server configuration
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// CORS settings
	AllowOrigins []string
	AllowHeaders []string

	// Requests per second per client IP; zero disables limiting
	RateLimit float64
	RateBurst int
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            constants.DefaultServerHost,
		Port:            constants.DefaultServerPort,
		ReadTimeout:     constants.DefaultServerReadTimeout,
		WriteTimeout:    constants.DefaultServerWriteTimeout,
		ShutdownTimeout: constants.DefaultServerShutdownTimeout,
		AllowOrigins:    []string{"*"},
		AllowHeaders:    []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
		RateLimit:       constants.DefaultRateLimit,
		RateBurst:       constants.DefaultRateBurst,
	}
}

// ConfigFrom converts the [server] section of the service configuration
func ConfigFrom(c config.ServerConfig) *Config {
	cfg := DefaultConfig()
	cfg.Host = c.Host
	cfg.Port = c.Port
	cfg.ReadTimeout = c.ReadTimeout.Std()
	cfg.WriteTimeout = c.WriteTimeout.Std()
	cfg.ShutdownTimeout = c.ShutdownTimeout.Std()
	if len(c.AllowOrigins) > 0 {
		cfg.AllowOrigins = c.AllowOrigins
	}
	cfg.RateLimit = c.RateLimit
	cfg.RateBurst = c.RateBurst
	return cfg
}

// HealthCheck probes one component
type HealthCheck func(ctx context.Context) error

// Dependencies are the services exposed over HTTP. Indexer may be nil
// when the search index is not configured.
type Dependencies struct {
	Catalog  *operations.Catalog
	Backends *operations.BackendSwitch
	Indexer  *operations.Indexer
	Metrics  *metrics.Metrics

	// Checks run by /health. A failing "database" check marks the service
	// unhealthy; any other failure only degrades it.
	Checks map[string]HealthCheck
}

// Server represents the main HTTP server
type Server struct {
	config    *Config
	deps      Dependencies
	echo      *echo.Echo
	limiter   *IPRateLimiter
	setup     sync.Once
	startTime time.Time
}

// New creates a new server instance
func New(cfg *Config, deps Dependencies) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	var limiter *IPRateLimiter
	if cfg.RateLimit > 0 {
		limiter = NewIPRateLimiter(cfg.RateLimit, cfg.RateBurst, 5*time.Minute)
	}

	return &Server{
		config:    cfg,
		deps:      deps,
		echo:      e,
		limiter:   limiter,
		startTime: time.Now(),
	}
}

// Echo returns the Echo instance
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Handler returns the HTTP handler with middleware and routes installed
func (s *Server) Handler() http.Handler {
	s.setup.Do(func() {
		s.setupMiddleware()
		s.setupRoutes()
	})
	return s.echo
}

// Start starts the server and blocks until ctx is done or a signal arrives
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	logger.WithFields(logger.Fields{
		"addr":       addr,
		"rate_limit": s.config.RateLimit,
	}).Info("Catalog API listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("Shutting down server")
	case <-ctx.Done():
		logger.WithContext(ctx).Info("Context cancelled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func (s *Server) setupMiddleware() {
	s.echo.Use(logger.RequestLogger())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  s.config.AllowOrigins,
		AllowHeaders:  s.config.AllowHeaders,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		ExposeHeaders: []string{HeaderSearchStrategy, echo.HeaderXRequestID},
	}))
	s.echo.Use(MetricsMiddleware(s.deps.Metrics))
	s.echo.Use(RateLimitMiddleware(s.limiter))
}
