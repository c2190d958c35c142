package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fintrack-server/src/syncutil"
)

func TestEndpointRateLimitRejectsWithRetryAfter(t *testing.T) {
	limiter := syncutil.NewRateLimiter(2, time.Minute)
	handler := EndpointRateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do().Code)
	require.Equal(t, http.StatusOK, do().Code)

	rec := do()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestEndpointRateLimitKeysByUserOverIP(t *testing.T) {
	limiter := syncutil.NewRateLimiter(1, time.Minute)
	handler := EndpointRateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(userID int64) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/budgets", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		req = req.WithContext(context.WithValue(req.Context(), "user_id", userID))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	// Same IP, different users: each gets their own window.
	require.Equal(t, http.StatusOK, do(1).Code)
	require.Equal(t, http.StatusOK, do(2).Code)
	require.Equal(t, http.StatusTooManyRequests, do(1).Code)
}

func TestEndpointRateLimitSeparatesEndpoints(t *testing.T) {
	limiter := syncutil.NewRateLimiter(1, time.Minute)
	handler := EndpointRateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = "10.0.0.2:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do(http.MethodGet, "/api/transactions").Code)
	require.Equal(t, http.StatusOK, do(http.MethodPost, "/api/transactions").Code)
	require.Equal(t, http.StatusTooManyRequests, do(http.MethodGet, "/api/transactions").Code)
}

func TestGlobalRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewGlobalRateLimiter(1, 2)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do("10.0.0.3:1").Code)
	require.Equal(t, http.StatusOK, do("10.0.0.3:1").Code)
	require.Equal(t, http.StatusTooManyRequests, do("10.0.0.3:1").Code)
	// A different IP has its own bucket.
	require.Equal(t, http.StatusOK, do("10.0.0.4:1").Code)
}
