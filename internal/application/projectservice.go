package application

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// ProjectService manages the project registry and per-project integrations.
type ProjectService struct {
	projects     driven.ProjectStore
	integrations driven.IntegrationStore
	accounts     driven.AccountStore
}

// NewProjectService creates a new ProjectService with all required dependencies.
func NewProjectService(
	projects driven.ProjectStore,
	integrations driven.IntegrationStore,
	accounts driven.AccountStore,
) *ProjectService {
	return &ProjectService{projects: projects, integrations: integrations, accounts: accounts}
}

// Register adds a project. The path must be absolute; the name defaults to
// the last path element.
func (s *ProjectService) Register(ctx context.Context, name, path string) (model.Project, error) {
	path = strings.TrimSpace(path)
	if path == "" || !filepath.IsAbs(path) {
		return model.Project{}, validationErrorf("project path must be absolute, got %q", path)
	}
	path = filepath.Clean(path)

	name = strings.TrimSpace(name)
	if name == "" {
		name = filepath.Base(path)
	}

	p, err := s.projects.Add(ctx, model.Project{Name: name, Path: path})
	if err != nil {
		return model.Project{}, fmt.Errorf("register project %s: %w", path, err)
	}
	slog.Info("project registered", "id", p.ID, "path", p.Path)
	return p, nil
}

// Get returns one project.
func (s *ProjectService) Get(ctx context.Context, id string) (model.Project, error) {
	return s.projects.Get(ctx, id)
}

// List returns every registered project.
func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	return s.projects.List(ctx)
}

// Remove unregisters a project along with its environments, test accounts
// and integrations.
func (s *ProjectService) Remove(ctx context.Context, id string) error {
	if err := s.projects.Remove(ctx, id); err != nil {
		return err
	}
	slog.Info("project removed", "id", id)
	return nil
}

// Integrations returns the accounts a project uses, one per service type.
func (s *ProjectService) Integrations(ctx context.Context, projectID string) ([]model.ProjectIntegration, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.integrations.ListByProject(ctx, projectID)
}

// SetIntegration points the project's integration for t at accountID. An
// empty accountID clears it.
func (s *ProjectService) SetIntegration(ctx context.Context, projectID string, t model.ServiceType, accountID string) error {
	if !t.Valid() {
		return validationErrorf("unknown service type %q", t)
	}
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return err
	}
	if accountID == "" {
		return s.integrations.Clear(ctx, projectID, t)
	}

	acct, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.Type != t {
		return validationErrorf("account %s is %s, not %s", acct.ID, acct.Type, t)
	}
	return s.integrations.Set(ctx, model.ProjectIntegration{ProjectID: projectID, ServiceType: t, AccountID: accountID})
}
