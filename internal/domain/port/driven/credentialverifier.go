package driven

import (
	"context"
	"errors"
)

// ErrInvalidToken indicates the provider rejected the token.
var ErrInvalidToken = errors.New("token rejected by provider")

// TokenIdentity is what a provider reports about an access token.
type TokenIdentity struct {
	Login  string
	Scopes []string
}

// GitHubVerifier checks a GitHub token against the API.
type GitHubVerifier interface {
	// VerifyToken returns the identity behind token. An invalid or revoked
	// token yields ErrInvalidToken.
	VerifyToken(ctx context.Context, token string) (TokenIdentity, error)
}
