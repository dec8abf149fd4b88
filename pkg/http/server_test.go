package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routes struct{}

func (routes) RegisterRoutes(e *echo.Echo) {
	e.GET("/items/:id", func(c echo.Context) error {
		return SuccessResponse(c, map[string]string{"id": c.Param("id")})
	})
	e.GET("/boom", func(echo.Context) error {
		panic("boom")
	})
	e.GET("/fail", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusBadGateway, "upstream")
	})
}

func TestServerMiddlewareChain(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewServer(routes{}, WithRegistry(reg))

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.JSONEq(t, `{"status":200,"message":"OK","data":{"id":"7"}}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/items/8", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get(echo.HeaderXRequestID))

	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	n, err := testutil.GatherAndCount(reg, "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",route="/items/:id",status="200"} 2`)
	assert.Contains(t, body, `http_requests_total{method="GET",route="/fail",status="502"} 1`)
}

func TestServerRecoversPanics(t *testing.T) {
	s := NewServer(routes{})

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ERR_INTERNAL"))
}

func TestServerCORS(t *testing.T) {
	s := NewServer(routes{})

	req := httptest.NewRequest(http.MethodOptions, "/items/1", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
