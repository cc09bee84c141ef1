package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

func newGitHubAccount(name, token string) model.ServiceAccount {
	return model.ServiceAccount{
		Type: model.ServiceTypeGitHub,
		Name: name,
		Credentials: model.Credentials{
			"token":    model.NewSecret(token),
			"username": model.NewSecret("alice"),
		},
	}
}

func TestAccountRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepo(db, testKey)
	ctx := context.Background()

	created, err := repo.Create(ctx, newGitHubAccount("alice-gh", "ghp_abc123"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ServiceTypeGitHub, got.Type)
	assert.Equal(t, "alice-gh", got.Name)
	assert.Equal(t, "ghp_abc123", got.Credentials["token"].Reveal())
	assert.Equal(t, "alice", got.Credentials["username"].Reveal())
}

func TestAccountRepo_CredentialsEncryptedAtRest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepo(db, testKey)
	ctx := context.Background()

	created, err := repo.Create(ctx, newGitHubAccount("alice-gh", "ghp_plaintextmarker"))
	require.NoError(t, err)

	var stored string
	err = db.Reader.QueryRowContext(ctx, `SELECT credentials FROM service_accounts WHERE id = ?`, created.ID).Scan(&stored)
	require.NoError(t, err)
	assert.NotContains(t, stored, "ghp_plaintextmarker")
}

func TestAccountRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepo(db, testKey)

	_, err := repo.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, driven.ErrAccountNotFound)
}

func TestAccountRepo_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepo(db, testKey)
	ctx := context.Background()

	created, err := repo.Create(ctx, newGitHubAccount("alice-gh", "old-token"))
	require.NoError(t, err)

	created.Name = "alice-renamed"
	created.Environment = model.EnvironmentProduction
	created.Credentials["token"] = model.NewSecret("new-token")

	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "alice-renamed", updated.Name)
	assert.Equal(t, model.EnvironmentProduction, updated.Environment)
	assert.Equal(t, "new-token", updated.Credentials["token"].Reveal())
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestAccountRepo_UpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepo(db, testKey)

	account := newGitHubAccount("ghost", "tok")
	account.ID = "nonexistent"
	_, err := repo.Update(context.Background(), account)
	assert.ErrorIs(t, err, driven.ErrAccountNotFound)
}

func TestAccountRepo_ListOrdered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepo(db, testKey)
	ctx := context.Background()

	_, err := repo.Create(ctx, model.ServiceAccount{
		Type:        model.ServiceTypeVercel,
		Name:        "team",
		Credentials: model.Credentials{"token": model.NewSecret("vc_tok")},
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, newGitHubAccount("zeta", "ghp_z"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newGitHubAccount("alpha", "ghp_a"))
	require.NoError(t, err)

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "alpha", accounts[0].Name)
	assert.Equal(t, "zeta", accounts[1].Name)
	assert.Equal(t, model.ServiceTypeVercel, accounts[2].Type)
}

func TestAccountRepo_ListEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepo(db, testKey)

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestAccountRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepo(db, testKey)
	ctx := context.Background()

	created, err := repo.Create(ctx, newGitHubAccount("alice-gh", "ghp_abc"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, driven.ErrAccountNotFound)

	err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, driven.ErrAccountNotFound)
}

func TestAccountRepo_DeleteCascadesIntegrations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepo(db, testKey)
	integrations := NewIntegrationRepo(db)
	ctx := context.Background()

	project := seedProject(t, db, "/work/app")
	account, err := repo.Create(ctx, newGitHubAccount("alice-gh", "ghp_abc"))
	require.NoError(t, err)

	require.NoError(t, integrations.Set(ctx, model.ProjectIntegration{
		ProjectID:   project.ID,
		ServiceType: model.ServiceTypeGitHub,
		AccountID:   account.ID,
	}))

	require.NoError(t, repo.Delete(ctx, account.ID))

	list, err := integrations.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAccountRepo_NoKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepo(db, nil)

	_, err := repo.Create(context.Background(), newGitHubAccount("alice-gh", "ghp_abc"))
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)
}
