package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// ErrTestAccountNotFound indicates the test account does not exist in the project.
var ErrTestAccountNotFound = errors.New("test account not found")

// TestAccountStore defines the driven port for project test accounts.
type TestAccountStore interface {
	Create(ctx context.Context, account model.TestAccount) (model.TestAccount, error)
	Update(ctx context.Context, account model.TestAccount) (model.TestAccount, error)
	Get(ctx context.Context, projectID, id string) (model.TestAccount, error)
	ListByProject(ctx context.Context, projectID string) ([]model.TestAccount, error)
	Delete(ctx context.Context, projectID, id string) error
}
