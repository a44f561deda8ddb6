// Package logger holds the process-wide logrus logger. Entries built from a
// request context carry the request id assigned by RequestLogger.
package logger

import (
	"context"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// Output formats accepted by Configure
const (
	FormatText = "text"
	FormatJSON = "json"
)

const (
	fieldRequestID = "request_id"
	echoLoggerKey  = "logger"
)

// Logger is the global logger instance
var Logger *logrus.Logger

// Fields is an alias for logrus.Fields
type Fields = logrus.Fields

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)
	Configure("info", FormatText)
}

// Configure applies a level and an output format. Unknown levels fall back
// to info and unknown formats to text.
func Configure(level, format string) {
	SetLevel(level)
	if format == FormatJSON {
		Logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
		return
	}
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// SetLevel sets the logging level
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	Logger.SetLevel(parsed)
}

type ctxKey struct{}

// ContextWithRequestID stores the request id so that deeper layers can log it
func ContextWithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, reqID)
}

// RequestID returns the request id stored in ctx, if any
func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(ctxKey{}).(string)
	return reqID
}

// WithContext returns an entry tagged with the request id found in ctx
func WithContext(ctx context.Context) *logrus.Entry {
	entry := Logger.WithContext(ctx)
	if reqID := RequestID(ctx); reqID != "" {
		return entry.WithField(fieldRequestID, reqID)
	}
	return entry
}

// WithFields returns a logger with additional fields
func WithFields(fields Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithError adds an error field to the logger
func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}

// WithField adds a field to the logger
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// Info logs an info message
func Info(msg string) {
	Logger.Info(msg)
}

// RequestLogger assigns every request an id, reusing X-Request-ID when the
// caller sent one, and logs the outcome at a level chosen by status.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqID := req.Header.Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = xid.New().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, reqID)
			c.SetRequest(req.WithContext(ContextWithRequestID(req.Context(), reqID)))

			entry := WithContext(c.Request().Context()).WithFields(Fields{
				"method":     req.Method,
				"path":       req.URL.Path,
				"ip":         c.RealIP(),
				"user_agent": req.UserAgent(),
			})
			c.Set(echoLoggerKey, entry)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			latency := time.Since(start)
			status := c.Response().Status
			entry = entry.WithFields(Fields{
				"status":     status,
				"latency_ms": latency.Milliseconds(),
			})
			if err != nil {
				entry = entry.WithError(err)
			}

			switch {
			case status >= 500:
				entry.Error("Request failed")
			case status >= 400:
				entry.Warn("Request rejected")
			default:
				entry.Info("Request completed")
			}
			return err
		}
	}
}

// GetLogger returns the request entry stored by RequestLogger
func GetLogger(c echo.Context) *logrus.Entry {
	if entry, ok := c.Get(echoLoggerKey).(*logrus.Entry); ok {
		return entry
	}
	return WithContext(c.Request().Context())
}
