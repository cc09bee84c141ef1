// Package github implements the GitHubVerifier port using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubVerifier = (*Verifier)(nil)

// Verifier checks stored GitHub tokens against the REST API.
type Verifier struct {
	gh *gh.Client
}

// NewVerifier creates a Verifier with the following transport stack:
//  1. httpcache (ETag-based conditional request caching, keyed with Vary: Authorization)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client, token set per call)
//
// An empty baseURL targets api.github.com.
func NewVerifier(baseURL string) (*Verifier, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	return NewVerifierWithHTTPClient(rateLimitClient, baseURL)
}

// NewVerifierWithHTTPClient creates a Verifier with a custom http.Client and
// base URL. Tests use it to inject an httptest server.
func NewVerifierWithHTTPClient(httpClient *http.Client, baseURL string) (*Verifier, error) {
	client := gh.NewClient(httpClient)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing base URL: %w", err)
		}
		client.BaseURL = u
	}
	return &Verifier{gh: client}, nil
}

// VerifyToken asks GitHub who owns token. Classic tokens also report their
// OAuth scopes; fine-grained tokens report none.
func (v *Verifier) VerifyToken(ctx context.Context, token string) (driven.TokenIdentity, error) {
	user, resp, err := v.gh.WithAuthToken(token).Users.Get(ctx, "")
	if err != nil {
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusUnauthorized {
			return driven.TokenIdentity{}, driven.ErrInvalidToken
		}
		return driven.TokenIdentity{}, fmt.Errorf("fetching authenticated user: %w", err)
	}

	logRateLimit(resp)

	return driven.TokenIdentity{
		Login:  user.GetLogin(),
		Scopes: parseScopes(resp.Header.Get("X-OAuth-Scopes")),
	}, nil
}

func parseScopes(header string) []string {
	scopes := []string{}
	for _, s := range strings.Split(header, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

func logRateLimit(resp *gh.Response) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", "user",
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
