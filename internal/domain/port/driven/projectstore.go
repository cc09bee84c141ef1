package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// Sentinel errors returned by ProjectStore implementations.
var (
	// ErrProjectNotFound indicates the requested project is not registered.
	ErrProjectNotFound = errors.New("project not found")

	// ErrProjectAlreadyExists indicates a project with the same path is registered.
	ErrProjectAlreadyExists = errors.New("project already registered")
)

// ProjectStore is the project registry: project id to checkout path.
type ProjectStore interface {
	Add(ctx context.Context, project model.Project) (model.Project, error)
	Get(ctx context.Context, id string) (model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	Remove(ctx context.Context, id string) error
}

// IntegrationStore persists the per-project service type to account mapping.
type IntegrationStore interface {
	// Set upserts the account used by a project for a service type.
	Set(ctx context.Context, integration model.ProjectIntegration) error

	// Clear removes the mapping. Clearing an absent mapping is not an error.
	Clear(ctx context.Context, projectID string, serviceType model.ServiceType) error

	// ListByProject returns the project's mappings ordered by service type.
	ListByProject(ctx context.Context, projectID string) ([]model.ProjectIntegration, error)
}
