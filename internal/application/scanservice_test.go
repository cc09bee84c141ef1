package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/integrationhub/internal/application"
	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

var defaultEnvFiles = []string{".env", ".env.local"}

func newScanService(env *mockEnvScanner, sys *mockSystemScanner, accounts *mockAccountStore, projects *mockProjectStore) *application.ScanService {
	return application.NewScanService(env, sys, accounts, projects, defaultEnvFiles)
}

func TestScanEnv_NoFilesYieldsEmptyResult(t *testing.T) {
	env := &mockEnvScanner{}
	svc := newScanService(env, &mockSystemScanner{}, newMockAccountStore(), newMockProjectStore())

	got, err := svc.ScanEnv(context.Background(), application.EnvScanRequest{ProjectPath: "/work/app"})
	require.NoError(t, err)

	assert.NotNil(t, got.Files)
	assert.Empty(t, got.Files)
	assert.NotNil(t, got.Services)
	assert.Empty(t, got.Services)
	assert.Equal(t, []string{"/work/app"}, env.dirs)
	assert.Equal(t, [][]string{defaultEnvFiles}, env.names)
}

func TestScanEnv_DetectsAndReconciles(t *testing.T) {
	env := &mockEnvScanner{
		sources: []model.RawSource{envSource(".env", "GITHUB_TOKEN", "ghp_x", "GITHUB_USERNAME", "alice")},
		found:   []string{".env"},
	}
	accounts := newMockAccountStore(model.ServiceAccount{ID: "a1", Type: model.ServiceTypeGitHub, Name: "alice"})
	svc := newScanService(env, &mockSystemScanner{}, accounts, newMockProjectStore())

	got, err := svc.ScanEnv(context.Background(), application.EnvScanRequest{ProjectPath: "/work/app"})
	require.NoError(t, err)

	assert.Equal(t, []string{".env"}, got.Files)
	require.Len(t, got.Services, 1)
	gh := got.Services[0]
	assert.True(t, gh.IsComplete)
	assert.True(t, gh.Selected)
	assert.Equal(t, model.IntentUpdate, gh.Intent)
	require.NotNil(t, gh.ExistingAccount)
	assert.Equal(t, "a1", gh.ExistingAccount.ID)
	assert.True(t, gh.NameMatches)
}

func TestScanEnv_ResolvesProjectID(t *testing.T) {
	env := &mockEnvScanner{}
	projects := newMockProjectStore(model.Project{ID: "p1", Path: "/work/app"})
	svc := newScanService(env, &mockSystemScanner{}, newMockAccountStore(), projects)

	_, err := svc.ScanEnv(context.Background(), application.EnvScanRequest{ProjectID: "p1", Files: []string{".env.production"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"/work/app"}, env.dirs)
	assert.Equal(t, [][]string{{".env.production"}}, env.names)
}

func TestScanEnv_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     application.EnvScanRequest
		readErr error
		wantIs  error
	}{
		{"no project", application.EnvScanRequest{}, nil, application.ErrValidation},
		{"unknown project id", application.EnvScanRequest{ProjectID: "nope"}, nil, driven.ErrProjectNotFound},
		{"path traversal", application.EnvScanRequest{ProjectPath: "/p", Files: []string{"../.env"}}, nil, application.ErrValidation},
		{"not an env file", application.EnvScanRequest{ProjectPath: "/p", Files: []string{"config.json"}}, nil, application.ErrValidation},
		{"read failure", application.EnvScanRequest{ProjectPath: "/p"}, errIO, errIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &mockEnvScanner{err: tt.readErr}
			svc := newScanService(env, &mockSystemScanner{}, newMockAccountStore(), newMockProjectStore())

			_, err := svc.ScanEnv(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}
}

var errIO = errors.New("permission denied")

func TestScanSystem(t *testing.T) {
	sys := &mockSystemScanner{
		sources: []model.RawSource{{
			Name:   "gh",
			Kind:   model.SourceKindSystem,
			Values: map[string]string{"GITHUB_TOKEN": "gho_1", "GITHUB_USERNAME": "octo"},
		}},
		probed: []model.SystemSource{
			{Name: "gh", Path: "/home/u/.config/gh/hosts.yml", Found: true, KeyCount: 2},
			{Name: "aws", Path: "/home/u/.aws/credentials"},
		},
	}
	svc := newScanService(&mockEnvScanner{}, sys, newMockAccountStore(), newMockProjectStore())

	got, err := svc.ScanSystem(context.Background())
	require.NoError(t, err)

	assert.Empty(t, got.Files)
	assert.Len(t, got.Sources, 2)
	require.Len(t, got.Services, 1)
	assert.Equal(t, "octo", got.Services[0].SuggestedName)
	assert.Equal(t, model.EnvironmentNone, got.Services[0].Environment)
	assert.Equal(t, model.IntentCreate, got.Services[0].Intent)
}
