package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnableCORS(t *testing.T) {
	app := newTestApplication(t)
	h := app.routes()

	for _, path := range []string{"/api/v1/books", "/api/v1/health", "/missing"} {
		rr := send(t, h, http.MethodGet, path, "", nil)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"), path)
		assert.Equal(t, "Content-Type, Authorization", rr.Header().Get("Access-Control-Allow-Headers"), path)
	}
}

func TestRateLimit(t *testing.T) {
	app := newTestApplication(t)
	app.config.RateLimit.Enabled = true
	app.config.RateLimit.RPS = 0.001
	app.config.RateLimit.Burst = 2
	h := app.routes()

	for range 2 {
		rr := send(t, h, http.MethodGet, "/api/v1/health", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := send(t, h, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "Rate limit exceeded", decode(t, rr)["error"])

	// Another peer still has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.RemoteAddr = "198.51.100.20:5000"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimitIgnoresForwardedHeaders(t *testing.T) {
	app := newTestApplication(t)
	app.config.RateLimit.Enabled = true
	app.config.RateLimit.RPS = 0.001
	app.config.RateLimit.Burst = 1
	h := app.routes()

	forwarded := []string{"203.0.113.1", "203.0.113.2", "203.0.113.3", "203.0.113.4"}
	for i, addr := range forwarded {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.RemoteAddr = "192.0.2.50:41000"
		req.Header.Set("X-Forwarded-For", addr)
		req.Header.Set("X-Real-IP", addr)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if i == 0 {
			require.Equal(t, http.StatusOK, rr.Code)
			continue
		}
		assert.Equal(t, http.StatusTooManyRequests, rr.Code, addr)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	app := newTestApplication(t)
	app.config.RateLimit.RPS = 0.001
	app.config.RateLimit.Burst = 1
	h := app.routes()

	for range 5 {
		rr := send(t, h, http.MethodGet, "/api/v1/health", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
	}
}
