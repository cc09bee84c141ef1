// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by stores that hold secrets when
// INTEGRATIONHUB_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set INTEGRATIONHUB_SECRET_KEY")

// ErrAccountNotFound indicates the requested service account does not exist.
var ErrAccountNotFound = errors.New("service account not found")

// AccountStore defines the driven port for service account persistence.
// The adapter encrypts credential values at rest; this interface operates on
// model.Secret values at the domain boundary.
type AccountStore interface {
	// Create assigns an ID and timestamps and stores the account.
	Create(ctx context.Context, account model.ServiceAccount) (model.ServiceAccount, error)

	// Update replaces name, environment and credentials of an existing account.
	// Returns ErrAccountNotFound if the ID is unknown.
	Update(ctx context.Context, account model.ServiceAccount) (model.ServiceAccount, error)

	// Get returns ErrAccountNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (model.ServiceAccount, error)

	// List returns all accounts ordered by type, then name.
	List(ctx context.Context) ([]model.ServiceAccount, error)

	// Delete returns ErrAccountNotFound if the ID is unknown.
	Delete(ctx context.Context, id string) error
}
