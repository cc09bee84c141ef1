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

func TestAccountService_Create(t *testing.T) {
	store := newMockAccountStore()
	svc := application.NewAccountService(store, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.ServiceAccount{
		Type:        model.ServiceTypeSentry,
		Name:        " prod ",
		Credentials: secrets("dsn", "https://k@sentry.io/1", "org", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, "prod", created.Name)
	assert.NotContains(t, created.Credentials, "org")

	_, err = svc.Create(ctx, model.ServiceAccount{Type: model.ServiceTypeGitHub, Name: "x", Credentials: secrets("token", "t")})
	assert.ErrorIs(t, err, application.ErrValidation)

	_, err = svc.Create(ctx, model.ServiceAccount{Type: model.ServiceTypeCustom, Credentials: secrets("k", "v")})
	assert.ErrorIs(t, err, application.ErrValidation)

	_, err = svc.Create(ctx, model.ServiceAccount{Type: model.ServiceTypeCustom, Name: "c", Environment: "qa", Credentials: secrets("k", "v")})
	assert.ErrorIs(t, err, application.ErrValidation)
}

func TestAccountService_UpdatePreservesBlankCredentials(t *testing.T) {
	store := newMockAccountStore(model.ServiceAccount{
		ID:          "a1",
		Type:        model.ServiceTypeGitHub,
		Name:        "alice",
		Credentials: secrets("token", "secret-token", "username", "alice"),
	})
	svc := application.NewAccountService(store, nil)

	got, err := svc.Update(context.Background(), "a1", model.AccountPatch{
		Environment: model.EnvironmentStaging,
		Credentials: secrets("token", "", "username", ""),
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, model.EnvironmentStaging, got.Environment)
	assert.Equal(t, "secret-token", got.Credentials["token"].Reveal())
	assert.Equal(t, "alice", got.Credentials["username"].Reveal())
}

func TestAccountService_UpdateNoChangeSkipsWrite(t *testing.T) {
	store := newMockAccountStore(model.ServiceAccount{ID: "a1", Type: model.ServiceTypeVercel, Name: "v", Credentials: secrets("token", "t")})
	svc := application.NewAccountService(store, nil)

	_, err := svc.Update(context.Background(), "a1", model.AccountPatch{Name: "v", Credentials: secrets("token", "t")})
	require.NoError(t, err)
	assert.Zero(t, store.updates)
}

func TestAccountService_UpdateUnknown(t *testing.T) {
	svc := application.NewAccountService(newMockAccountStore(), nil)

	_, err := svc.Update(context.Background(), "nope", model.AccountPatch{Name: "x"})
	assert.ErrorIs(t, err, driven.ErrAccountNotFound)
}

func TestAccountService_Delete(t *testing.T) {
	store := newMockAccountStore(model.ServiceAccount{ID: "a1", Type: model.ServiceTypeCustom, Name: "c"})
	svc := application.NewAccountService(store, nil)

	require.NoError(t, svc.Delete(context.Background(), "a1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "a1"), driven.ErrAccountNotFound)
}

func TestAccountService_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("fills missing username", func(t *testing.T) {
		store := newMockAccountStore(model.ServiceAccount{ID: "a1", Type: model.ServiceTypeGitHub, Name: "gh", Credentials: secrets("token", "ghp_1")})
		verifier := &mockVerifier{identity: driven.TokenIdentity{Login: "octo", Scopes: []string{"repo"}}}
		svc := application.NewAccountService(store, verifier)

		got, err := svc.Verify(ctx, "a1")
		require.NoError(t, err)

		assert.True(t, got.Valid)
		assert.Equal(t, "octo", got.Login)
		assert.Equal(t, []string{"repo"}, got.Scopes)
		assert.True(t, got.UsernameUpdated)
		assert.Equal(t, []string{"ghp_1"}, verifier.tokens)
		assert.Equal(t, "octo", store.accounts["a1"].Credentials["username"].Reveal())
	})

	t.Run("invalid token is a result not an error", func(t *testing.T) {
		store := newMockAccountStore(model.ServiceAccount{ID: "a1", Type: model.ServiceTypeGitHub, Credentials: secrets("token", "bad", "username", "u")})
		svc := application.NewAccountService(store, &mockVerifier{err: driven.ErrInvalidToken})

		got, err := svc.Verify(ctx, "a1")
		require.NoError(t, err)
		assert.False(t, got.Valid)
		assert.Zero(t, store.updates)
	})

	t.Run("non github unsupported", func(t *testing.T) {
		store := newMockAccountStore(model.ServiceAccount{ID: "a1", Type: model.ServiceTypeVercel, Credentials: secrets("token", "t")})
		svc := application.NewAccountService(store, &mockVerifier{})

		_, err := svc.Verify(ctx, "a1")
		assert.ErrorIs(t, err, application.ErrVerificationUnsupported)
	})
}
