package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// EnvironmentService manages project environments and their activation.
type EnvironmentService struct {
	store    driven.EnvironmentStore
	projects driven.ProjectStore
}

// NewEnvironmentService creates a new EnvironmentService.
func NewEnvironmentService(store driven.EnvironmentStore, projects driven.ProjectStore) *EnvironmentService {
	return &EnvironmentService{store: store, projects: projects}
}

// List returns the project's environments.
func (s *EnvironmentService) List(ctx context.Context, projectID string) ([]model.Environment, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.ListByProject(ctx, projectID)
}

// Get returns one environment of the project.
func (s *EnvironmentService) Get(ctx context.Context, projectID, id string) (model.Environment, error) {
	return s.store.Get(ctx, projectID, id)
}

// Create stores a new, inactive environment.
func (s *EnvironmentService) Create(ctx context.Context, env model.Environment) (model.Environment, error) {
	env.Name = strings.TrimSpace(env.Name)
	if env.Name == "" {
		return model.Environment{}, validationErrorf("name is required")
	}
	if _, err := s.projects.Get(ctx, env.ProjectID); err != nil {
		return model.Environment{}, err
	}
	env.IsActive = false
	env.Variables, _ = model.Credentials{}.Merge(env.Variables)

	created, err := s.store.Create(ctx, env)
	if err != nil {
		return model.Environment{}, fmt.Errorf("create environment: %w", err)
	}
	return created, nil
}

// Update applies a partial update. Activation state is untouched.
func (s *EnvironmentService) Update(ctx context.Context, projectID, id string, patch model.EnvironmentPatch) (model.Environment, error) {
	env, err := s.store.Get(ctx, projectID, id)
	if err != nil {
		return model.Environment{}, err
	}
	patch.Name = strings.TrimSpace(patch.Name)
	env.Apply(patch)

	updated, err := s.store.Update(ctx, env)
	if err != nil {
		return model.Environment{}, fmt.Errorf("update environment %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes an environment. Deleting the active one leaves the project
// with no active environment.
func (s *EnvironmentService) Delete(ctx context.Context, projectID, id string) error {
	return s.store.Delete(ctx, projectID, id)
}

// Activate makes id the project's only active environment. On failure the
// previously active environment stays active.
func (s *EnvironmentService) Activate(ctx context.Context, projectID, id string) (model.Environment, error) {
	env, err := s.store.Activate(ctx, projectID, id)
	if err != nil {
		return model.Environment{}, err
	}
	slog.Info("environment activated", "project", projectID, "environment", env.ID, "name", env.Name)
	return env, nil
}
