package github_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/ericfisherdev/integrationhub/internal/adapter/driven/github"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// newTestVerifier creates a Verifier backed by the given httptest handler.
func newTestVerifier(t *testing.T, handler http.Handler) *ghAdapter.Verifier {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	v, err := ghAdapter.NewVerifierWithHTTPClient(server.Client(), server.URL)
	require.NoError(t, err)
	return v
}

func TestVerifyToken_ReturnsLoginAndScopes(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-OAuth-Scopes", "repo, read:org")
		_, _ = w.Write([]byte(`{"login":"octocat","id":1}`))
	})
	v := newTestVerifier(t, mux)

	got, err := v.VerifyToken(context.Background(), "ghp_valid")
	require.NoError(t, err)

	assert.Equal(t, "Bearer ghp_valid", gotAuth)
	assert.Equal(t, "octocat", got.Login)
	assert.Equal(t, []string{"repo", "read:org"}, got.Scopes)
}

func TestVerifyToken_FineGrainedTokenHasNoScopes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"octocat"}`))
	})
	v := newTestVerifier(t, mux)

	got, err := v.VerifyToken(context.Background(), "github_pat_x")
	require.NoError(t, err)
	assert.Empty(t, got.Scopes)
}

func TestVerifyToken_Unauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	})
	v := newTestVerifier(t, mux)

	_, err := v.VerifyToken(context.Background(), "ghp_revoked")
	assert.ErrorIs(t, err, driven.ErrInvalidToken)
}

func TestVerifyToken_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	v := newTestVerifier(t, mux)

	_, err := v.VerifyToken(context.Background(), "ghp_x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, driven.ErrInvalidToken)
}
