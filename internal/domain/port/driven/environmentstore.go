package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// ErrEnvironmentNotFound indicates the environment does not exist in the project.
var ErrEnvironmentNotFound = errors.New("environment not found")

// EnvironmentStore defines the driven port for project environments.
type EnvironmentStore interface {
	Create(ctx context.Context, env model.Environment) (model.Environment, error)
	Update(ctx context.Context, env model.Environment) (model.Environment, error)
	Get(ctx context.Context, projectID, id string) (model.Environment, error)
	ListByProject(ctx context.Context, projectID string) ([]model.Environment, error)
	Delete(ctx context.Context, projectID, id string) error

	// Activate marks id active and every sibling in the project inactive as a
	// single atomic step. If id is unknown nothing changes and
	// ErrEnvironmentNotFound is returned.
	Activate(ctx context.Context, projectID, id string) (model.Environment, error)
}
