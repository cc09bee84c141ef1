package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// VerifyResult reports what the provider said about a stored account's token.
type VerifyResult struct {
	Valid           bool
	Login           string
	Scopes          []string
	UsernameUpdated bool
}

// AccountService manages stored service accounts.
type AccountService struct {
	store    driven.AccountStore
	verifier driven.GitHubVerifier
}

// NewAccountService creates a new AccountService. verifier may be nil, in
// which case Verify reports ErrVerificationUnsupported.
func NewAccountService(store driven.AccountStore, verifier driven.GitHubVerifier) *AccountService {
	return &AccountService{store: store, verifier: verifier}
}

// List returns every stored account.
func (s *AccountService) List(ctx context.Context) ([]model.ServiceAccount, error) {
	return s.store.List(ctx)
}

// Get returns one account.
func (s *AccountService) Get(ctx context.Context, id string) (model.ServiceAccount, error) {
	return s.store.Get(ctx, id)
}

// Create validates and stores a new account. Blank credential values are
// dropped before validation.
func (s *AccountService) Create(ctx context.Context, acct model.ServiceAccount) (model.ServiceAccount, error) {
	acct.Name = strings.TrimSpace(acct.Name)
	if acct.Name == "" {
		return model.ServiceAccount{}, validationErrorf("name is required")
	}
	if !acct.Environment.Valid() {
		return model.ServiceAccount{}, validationErrorf("unknown environment %q", acct.Environment)
	}
	acct.Credentials, _ = model.Credentials{}.Merge(acct.Credentials)
	if err := ValidateCredentials(acct.Type, acct.Credentials); err != nil {
		return model.ServiceAccount{}, err
	}

	created, err := s.store.Create(ctx, acct)
	if err != nil {
		return model.ServiceAccount{}, fmt.Errorf("create account: %w", err)
	}
	slog.Info("account created", "id", created.ID, "type", created.Type, "name", created.Name)
	return created, nil
}

// Update applies a partial update. Empty credential values keep the stored
// value for that field.
func (s *AccountService) Update(ctx context.Context, id string, patch model.AccountPatch) (model.ServiceAccount, error) {
	if !patch.Environment.Valid() {
		return model.ServiceAccount{}, validationErrorf("unknown environment %q", patch.Environment)
	}
	patch.Name = strings.TrimSpace(patch.Name)

	acct, err := s.store.Get(ctx, id)
	if err != nil {
		return model.ServiceAccount{}, err
	}
	if !acct.Apply(patch) {
		return acct, nil
	}
	if err := ValidateCredentials(acct.Type, acct.Credentials); err != nil {
		return model.ServiceAccount{}, err
	}

	updated, err := s.store.Update(ctx, acct)
	if err != nil {
		return model.ServiceAccount{}, fmt.Errorf("update account %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes an account and every project integration that used it.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("account deleted", "id", id)
	return nil
}

// Verify checks a GitHub account's token against the API and stores the
// reported login as the username when none was recorded.
func (s *AccountService) Verify(ctx context.Context, id string) (VerifyResult, error) {
	acct, err := s.store.Get(ctx, id)
	if err != nil {
		return VerifyResult{}, err
	}
	if acct.Type != model.ServiceTypeGitHub || s.verifier == nil {
		return VerifyResult{}, fmt.Errorf("%w: %s", ErrVerificationUnsupported, acct.Type)
	}
	if !acct.Credentials.Has("token") {
		return VerifyResult{}, validationErrorf("account has no token")
	}

	identity, err := s.verifier.VerifyToken(ctx, acct.Credentials["token"].Reveal())
	if err != nil {
		if errors.Is(err, driven.ErrInvalidToken) {
			return VerifyResult{Valid: false}, nil
		}
		return VerifyResult{}, fmt.Errorf("verify token: %w", err)
	}

	result := VerifyResult{Valid: true, Login: identity.Login, Scopes: identity.Scopes}
	if !acct.Credentials.Has("username") && identity.Login != "" {
		acct.Credentials, _ = acct.Credentials.Merge(model.Credentials{"username": model.NewSecret(identity.Login)})
		if _, err := s.store.Update(ctx, acct); err != nil {
			return VerifyResult{}, fmt.Errorf("store verified username: %w", err)
		}
		result.UsernameUpdated = true
	}
	return result, nil
}
