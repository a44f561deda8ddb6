package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"outofschool/internal/errors"
	"outofschool/internal/logger"
	"outofschool/internal/metrics"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// IPRateLimiter hands out one token bucket per client IP
type IPRateLimiter struct {
	limit    rate.Limit
	burst    int
	idle     time.Duration
	mu       sync.Mutex
	clients  map[string]*client
	lastScan time.Time
	now      func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter allows rps sustained requests per IP with the given burst.
// Buckets unused for idle are dropped.
func NewIPRateLimiter(rps float64, burst int, idle time.Duration) *IPRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idle:    idle,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

// Allow reports whether ip may make a request now
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastScan) > l.idle {
		for key, c := range l.clients {
			if now.Sub(c.lastSeen) > l.idle {
				delete(l.clients, key)
			}
		}
		l.lastScan = now
	}

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// RateLimitMiddleware rejects requests over the per-IP limit with 429.
// A nil limiter disables limiting.
func RateLimitMiddleware(limiter *IPRateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil {
				return next(c)
			}
			if !limiter.Allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", "1")
				return errors.TooManyRequests("rate limit exceeded for " + c.RealIP())
			}
			return next(c)
		}
	}
}

// MetricsMiddleware records request counts and latency by route
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status, _ = errors.Response(err)
				}
			}
			m.RecordRequest(c.Request().Method, c.Path(), strconv.Itoa(status), time.Since(start))
			return err
		}
	}
}

// ErrorHandler renders every error as the JSON error envelope
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errors.Response(err)
	body.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)

	if status >= http.StatusInternalServerError {
		logger.GetLogger(c).WithError(err).WithField("status", status).Error("Request error")
	}

	if c.Request().Method == http.MethodHead {
		c.NoContent(status)
		return
	}
	c.JSON(status, body)
}
