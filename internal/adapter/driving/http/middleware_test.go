package httphandler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := recoveryMiddleware(logger, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/api/v1/accounts/0b9e4a6c-2f0e-4a7c-9d3e-1f2a3b4c5d6e":        "/api/v1/accounts/{id}",
		"/api/v1/projects/0b9e4a6c-2f0e-4a7c-9d3e-1f2a3b4c5d6e/environments": "/api/v1/projects/{id}/environments",
		"/api/v1/health": "/api/v1/health",
		"/unknown/abc":   "/unknown/abc",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizePath(in), in)
	}
}

func TestRouteLabel_UsesPattern(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/x", nil)
	r.Pattern = "GET /api/v1/accounts/{id}"

	assert.Equal(t, "/api/v1/accounts/{id}", routeLabel(r))
}
