package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"fintrack-server/src/config"
)

func testRouterConfig() config.Config {
	return config.Config{
		JWTSecret:            "test-secret",
		RateLimitRequests:    100,
		RateLimitWindow:      time.Minute,
		GlobalRateLimitRPS:   100,
		GlobalRateLimitBurst: 100,
	}
}

func TestRouterMountsDocumentedPaths(t *testing.T) {
	r := NewRouter(testRouterConfig(), zerolog.Nop(), nil, nil)

	// Protected routes exist and are guarded: an unauthenticated request is
	// rejected by the JWT middleware, not lost to a 404.
	protected := []struct{ method, path string }{
		{http.MethodGet, "/api/transactions"},
		{http.MethodGet, "/api/user-categories"},
		{http.MethodGet, "/api/budgets"},
		{http.MethodGet, "/api/families"},
		{http.MethodGet, "/api/price-alerts"},
		{http.MethodGet, "/api/reports/net-worth"},
		{http.MethodGet, "/api/crypto/prices"},
	}
	for _, tt := range protected {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tt.method, tt.path)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterHealth(t *testing.T) {
	r := NewRouter(testRouterConfig(), zerolog.Nop(), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}
