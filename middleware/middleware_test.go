package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestID(), RequestLogger(zerolog.New(&buf)), Metrics())
	e.GET("/api/order/:orderId", func(c echo.Context) error {
		return c.NoContent(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/order/abc", nil))

	requestID := rec.Header().Get(echo.HeaderXRequestID)
	require.Len(t, requestID, 36)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, requestID, line["request_id"])
	assert.Equal(t, "/api/order/abc", line["uri"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
}

func TestRequestID_KeepsClientValue(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))
}
