package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"outofschool/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// Get serves a GET request with query parameters through e
func Get(e *echo.Echo, path string, params url.Values) *httptest.ResponseRecorder {
	target := path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// DecodeJSON decodes JSON from a reader
func DecodeJSON(r io.Reader, v interface{}) error {
	return json.NewDecoder(r).Decode(v)
}

// DecodeBody decodes a recorded JSON response into v
func DecodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, DecodeJSON(rec.Body, v), "body: %s", rec.Body.String())
}

// ParseErrorResponse parses an error response from the server
func ParseErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) errors.HTTPErrorResponse {
	t.Helper()
	var body errors.HTTPErrorResponse
	DecodeBody(t, rec, &body)
	return body
}
