package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *logtest.Hook {
	t.Helper()
	hook := logtest.NewLocal(Logger)
	Logger.SetOutput(io.Discard)
	t.Cleanup(func() {
		Logger.ReplaceHooks(make(logrus.LevelHooks))
		Logger.SetOutput(io.Discard)
		Configure("info", FormatText)
	})
	return hook
}

func TestWithContext_TagsRequestID(t *testing.T) {
	hook := capture(t)

	WithContext(ContextWithRequestID(context.Background(), "req-1")).Info("tagged")
	WithContext(context.Background()).Info("untagged")

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-1", entries[0].Data[fieldRequestID])
	assert.NotContains(t, entries[1].Data, fieldRequestID)
}

func TestRequestLogger_PropagatesRequestID(t *testing.T) {
	hook := capture(t)

	e := echo.New()
	e.Use(RequestLogger())
	e.GET("/ping", func(c echo.Context) error {
		WithContext(c.Request().Context()).Info("handling")
		return c.NoContent(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
	}{
		{"caller id reused", "caller-7"},
		{"id generated", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hook.Reset()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderXRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			reqID := rec.Header().Get(echo.HeaderXRequestID)
			require.NotEmpty(t, reqID)
			if tt.header != "" {
				assert.Equal(t, tt.header, reqID)
			}

			entries := hook.AllEntries()
			require.Len(t, entries, 2)
			assert.Equal(t, "handling", entries[0].Message)
			assert.Equal(t, "Request completed", entries[1].Message)
			for _, entry := range entries {
				assert.Equal(t, reqID, entry.Data[fieldRequestID])
			}
			assert.Equal(t, http.StatusNoContent, entries[1].Data["status"])
		})
	}
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	hook := capture(t)

	e := echo.New()
	e.Use(RequestLogger())
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound)
	})
	e.GET("/broken", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadGateway)
	})

	for path, level := range map[string]logrus.Level{"/missing": logrus.WarnLevel, "/broken": logrus.ErrorLevel} {
		hook.Reset()
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		require.NotNil(t, hook.LastEntry(), path)
		assert.Equal(t, level, hook.LastEntry().Level, path)
	}
}

func TestConfigure(t *testing.T) {
	capture(t)
	var buf bytes.Buffer

	Configure("debug", FormatJSON)
	Logger.SetOutput(&buf)
	WithField("component", "index").Debug("opened")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "opened", line["msg"])
	assert.Equal(t, "index", line["component"])

	Configure("nonsense", FormatText)
	assert.Equal(t, logrus.InfoLevel, Logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, Logger.Formatter)
}
