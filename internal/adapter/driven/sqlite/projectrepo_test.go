package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

func TestProjectRepo_AddGetList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepo(db)
	ctx := context.Background()

	web, err := repo.Add(ctx, model.Project{Name: "web", Path: "/work/web"})
	require.NoError(t, err)
	require.NotEmpty(t, web.ID)

	_, err = repo.Add(ctx, model.Project{Name: "api", Path: "/work/api"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, web.ID)
	require.NoError(t, err)
	assert.Equal(t, "/work/web", got.Path)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "api", list[0].Name)
}

func TestProjectRepo_DuplicatePath(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepo(db)
	ctx := context.Background()

	_, err := repo.Add(ctx, model.Project{Name: "web", Path: "/work/web"})
	require.NoError(t, err)

	_, err = repo.Add(ctx, model.Project{Name: "web again", Path: "/work/web"})
	assert.ErrorIs(t, err, driven.ErrProjectAlreadyExists)
}

func TestProjectRepo_RemoveMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepo(db)

	err := repo.Remove(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, driven.ErrProjectNotFound)

	_, err = repo.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, driven.ErrProjectNotFound)
}

func TestIntegrationRepo_SetReplacesPerType(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountRepo(db, testKey)
	repo := NewIntegrationRepo(db)
	ctx := context.Background()

	project := seedProject(t, db, "/work/web")
	first, err := accounts.Create(ctx, newGitHubAccount("first", "ghp_1"))
	require.NoError(t, err)
	second, err := accounts.Create(ctx, newGitHubAccount("second", "ghp_2"))
	require.NoError(t, err)

	for _, id := range []string{first.ID, second.ID} {
		require.NoError(t, repo.Set(ctx, model.ProjectIntegration{
			ProjectID:   project.ID,
			ServiceType: model.ServiceTypeGitHub,
			AccountID:   id,
		}))
	}

	list, err := repo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, list, 1, "at most one account per type per project")
	assert.Equal(t, second.ID, list[0].AccountID)
}

func TestIntegrationRepo_Clear(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountRepo(db, testKey)
	repo := NewIntegrationRepo(db)
	ctx := context.Background()

	project := seedProject(t, db, "/work/web")
	account, err := accounts.Create(ctx, newGitHubAccount("alice-gh", "ghp_1"))
	require.NoError(t, err)

	require.NoError(t, repo.Set(ctx, model.ProjectIntegration{
		ProjectID: project.ID, ServiceType: model.ServiceTypeGitHub, AccountID: account.ID,
	}))
	require.NoError(t, repo.Clear(ctx, project.ID, model.ServiceTypeGitHub))
	require.NoError(t, repo.Clear(ctx, project.ID, model.ServiceTypeGitHub), "clearing twice is not an error")

	list, err := repo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
