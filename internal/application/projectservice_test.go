package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/integrationhub/internal/application"
	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

func TestProjectService_Register(t *testing.T) {
	svc := application.NewProjectService(newMockProjectStore(), &mockIntegrationStore{}, newMockAccountStore())
	ctx := context.Background()

	p, err := svc.Register(ctx, "", "/work/shop/")
	require.NoError(t, err)
	assert.Equal(t, "shop", p.Name)
	assert.Equal(t, "/work/shop", p.Path)

	_, err = svc.Register(ctx, "dup", "/work/shop")
	assert.ErrorIs(t, err, driven.ErrProjectAlreadyExists)

	_, err = svc.Register(ctx, "rel", "work/shop")
	assert.ErrorIs(t, err, application.ErrValidation)
}

func TestProjectService_SetIntegration(t *testing.T) {
	projects := newMockProjectStore(model.Project{ID: "p1", Path: "/p"})
	integrations := &mockIntegrationStore{}
	accounts := newMockAccountStore(
		model.ServiceAccount{ID: "gh", Type: model.ServiceTypeGitHub},
		model.ServiceAccount{ID: "vc", Type: model.ServiceTypeVercel},
	)
	svc := application.NewProjectService(projects, integrations, accounts)
	ctx := context.Background()

	require.NoError(t, svc.SetIntegration(ctx, "p1", model.ServiceTypeGitHub, "gh"))
	assert.ErrorIs(t, svc.SetIntegration(ctx, "p1", model.ServiceTypeGitHub, "vc"), application.ErrValidation)
	assert.ErrorIs(t, svc.SetIntegration(ctx, "p1", model.ServiceTypeGitHub, "nope"), driven.ErrAccountNotFound)
	assert.ErrorIs(t, svc.SetIntegration(ctx, "p2", model.ServiceTypeGitHub, "gh"), driven.ErrProjectNotFound)
	require.NoError(t, svc.SetIntegration(ctx, "p1", model.ServiceTypeVercel, ""))

	got, err := svc.Integrations(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "gh", got[0].AccountID)
	assert.Equal(t, []model.ServiceType{model.ServiceTypeVercel}, integrations.cleared)
}
