package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// TestAccountService manages per-project test logins.
type TestAccountService struct {
	store    driven.TestAccountStore
	projects driven.ProjectStore
}

// NewTestAccountService creates a new TestAccountService.
func NewTestAccountService(store driven.TestAccountStore, projects driven.ProjectStore) *TestAccountService {
	return &TestAccountService{store: store, projects: projects}
}

func (s *TestAccountService) List(ctx context.Context, projectID string) ([]model.TestAccount, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.ListByProject(ctx, projectID)
}

func (s *TestAccountService) Get(ctx context.Context, projectID, id string) (model.TestAccount, error) {
	return s.store.Get(ctx, projectID, id)
}

// Create requires a role and an email address.
func (s *TestAccountService) Create(ctx context.Context, acct model.TestAccount) (model.TestAccount, error) {
	acct.Role = strings.TrimSpace(acct.Role)
	acct.Email = strings.TrimSpace(acct.Email)
	if acct.Role == "" {
		return model.TestAccount{}, validationErrorf("role is required")
	}
	if err := validateEmail(acct.Email); err != nil {
		return model.TestAccount{}, err
	}
	if _, err := s.projects.Get(ctx, acct.ProjectID); err != nil {
		return model.TestAccount{}, err
	}

	created, err := s.store.Create(ctx, acct)
	if err != nil {
		return model.TestAccount{}, fmt.Errorf("create test account: %w", err)
	}
	return created, nil
}

// Update applies a partial update; a blank password keeps the stored one.
func (s *TestAccountService) Update(ctx context.Context, projectID, id string, patch model.TestAccountPatch) (model.TestAccount, error) {
	patch.Email = strings.TrimSpace(patch.Email)
	if patch.Email != "" {
		if err := validateEmail(patch.Email); err != nil {
			return model.TestAccount{}, err
		}
	}

	acct, err := s.store.Get(ctx, projectID, id)
	if err != nil {
		return model.TestAccount{}, err
	}
	acct.Apply(patch)

	updated, err := s.store.Update(ctx, acct)
	if err != nil {
		return model.TestAccount{}, fmt.Errorf("update test account %s: %w", id, err)
	}
	return updated, nil
}

func (s *TestAccountService) Delete(ctx context.Context, projectID, id string) error {
	return s.store.Delete(ctx, projectID, id)
}

func validateEmail(email string) error {
	if email == "" {
		return validationErrorf("email is required")
	}
	if at := strings.Index(email, "@"); at <= 0 || at == len(email)-1 {
		return validationErrorf("invalid email %q", email)
	}
	return nil
}
