package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/integrationhub/internal/application"
	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

type importFixture struct {
	env          *mockEnvScanner
	accounts     *mockAccountStore
	projects     *mockProjectStore
	integrations *mockIntegrationStore
	svc          *application.ImportService
}

func newImportFixture(sources []model.RawSource, seed ...model.ServiceAccount) *importFixture {
	f := &importFixture{
		env:          &mockEnvScanner{sources: sources, found: []string{".env"}},
		accounts:     newMockAccountStore(seed...),
		projects:     newMockProjectStore(model.Project{ID: "p1", Path: "/work/app"}),
		integrations: &mockIntegrationStore{},
	}
	scan := application.NewScanService(f.env, &mockSystemScanner{}, f.accounts, f.projects, defaultEnvFiles)
	f.svc = application.NewImportService(scan, f.accounts, f.integrations)
	return f
}

func assertCountsBalance(t *testing.T, s model.ImportSummary, requested int) {
	t.Helper()
	assert.Equal(t, requested, s.Created+s.Updated+s.Skipped+len(s.Errors))
	assert.Len(t, s.Results, requested)
}

func TestImportEnv_CreatesIntoEmptyStore(t *testing.T) {
	f := newImportFixture([]model.RawSource{envSource(".env", "GITHUB_TOKEN", "ghp_x", "GITHUB_USERNAME", "alice")})

	got := f.svc.ImportEnv(context.Background(), application.ImportRequest{
		Scan:     application.EnvScanRequest{ProjectPath: "/work/app"},
		Services: []model.ImportSelection{{Type: model.ServiceTypeGitHub, Name: "alice-gh"}},
	})

	assert.Equal(t, 1, got.Created)
	assert.Zero(t, got.Updated)
	assert.Zero(t, got.Skipped)
	assert.Empty(t, got.Errors)
	require.Len(t, f.accounts.accounts, 1)

	stored := f.accounts.accounts[got.Results[0].AccountID]
	assert.Equal(t, "alice-gh", stored.Name)
	assert.Equal(t, "ghp_x", stored.Credentials["token"].Reveal())
	assert.Equal(t, model.EnvironmentDevelopment, stored.Environment)
	assert.Equal(t, 1, f.env.calls)
	assert.Empty(t, f.integrations.set)
}

func TestImportEnv_MixedOutcomes(t *testing.T) {
	existing := model.ServiceAccount{
		ID:          "vc1",
		Type:        model.ServiceTypeVercel,
		Name:        "team",
		Environment: model.EnvironmentDevelopment,
		Credentials: secrets("token", "vt"),
	}
	stale := model.ServiceAccount{
		ID:          "gh1",
		Type:        model.ServiceTypeGitHub,
		Name:        "alice",
		Credentials: secrets("token", "old", "username", "alice"),
	}
	f := newImportFixture([]model.RawSource{envSource(".env",
		"GITHUB_TOKEN", "new",
		"GITHUB_USERNAME", "alice",
		"VERCEL_TOKEN", "vt",
		"SUPABASE_ANON_KEY", "anon",
	)}, existing, stale)

	req := application.ImportRequest{
		Scan: application.EnvScanRequest{ProjectPath: "/work/app"},
		Services: []model.ImportSelection{
			{Type: model.ServiceTypeGitHub, Name: "alice", AccountID: "gh1"},
			{Type: model.ServiceTypeVercel, Name: "team", AccountID: "vc1"},
			{Type: model.ServiceTypeSupabase, Name: "sb"},
			{Type: model.ServiceTypeSentry, Name: "s"},
			{Type: model.ServiceTypeGitHub, Name: "ghost", AccountID: "missing"},
			{Type: model.ServiceType("gitlab"), Name: "x"},
			{Type: model.ServiceTypeGitHub, Name: "  "},
		},
	}
	got := f.svc.ImportEnv(context.Background(), req)

	assertCountsBalance(t, got, len(req.Services))
	assert.Equal(t, 0, got.Created)
	assert.Equal(t, 1, got.Updated)
	assert.Equal(t, 1, got.Skipped)
	require.Len(t, got.Errors, 5)

	failed := make(map[model.ServiceType]int)
	for _, e := range got.Errors {
		failed[e.Type]++
		assert.NotEmpty(t, e.Reason)
	}
	assert.Equal(t, 1, failed[model.ServiceTypeSupabase], "missing projectUrl")
	assert.Equal(t, 1, failed[model.ServiceTypeSentry], "not detected")
	assert.Equal(t, 2, failed[model.ServiceTypeGitHub], "unknown id and blank name")
	assert.Equal(t, "new", f.accounts.accounts["gh1"].Credentials["token"].Reveal())
	assert.Equal(t, 1, f.env.calls, "scan runs once per import")
}

func TestImportEnv_ExplicitCredentialsSkipRescan(t *testing.T) {
	f := newImportFixture(nil)

	got := f.svc.ImportEnv(context.Background(), application.ImportRequest{
		Scan: application.EnvScanRequest{ProjectPath: "/work/app"},
		Services: []model.ImportSelection{{
			Type:        model.ServiceTypeCustom,
			Name:        "stripe",
			Credentials: secrets("apiKey", "sk_live", "blank", ""),
		}},
	})

	assert.Equal(t, 1, got.Created)
	assert.Zero(t, f.env.calls)
	stored := f.accounts.accounts[got.Results[0].AccountID]
	assert.Equal(t, "sk_live", stored.Credentials["apiKey"].Reveal())
	assert.NotContains(t, stored.Credentials, "blank")
}

func TestImportEnv_UpdateWithEmptyValuePreservesStored(t *testing.T) {
	stored := model.ServiceAccount{
		ID:          "gh1",
		Type:        model.ServiceTypeGitHub,
		Name:        "alice",
		Credentials: secrets("token", "keep-me", "username", "alice"),
	}
	f := newImportFixture(nil, stored)

	got := f.svc.ImportEnv(context.Background(), application.ImportRequest{
		Scan: application.EnvScanRequest{ProjectPath: "/work/app"},
		Services: []model.ImportSelection{{
			Type:        model.ServiceTypeGitHub,
			Name:        "alice",
			AccountID:   "gh1",
			Credentials: secrets("token", "", "username", "alice2"),
		}},
	})

	assert.Equal(t, 1, got.Updated)
	acct := f.accounts.accounts["gh1"]
	assert.Equal(t, "keep-me", acct.Credentials["token"].Reveal())
	assert.Equal(t, "alice2", acct.Credentials["username"].Reveal())
}

func TestImportEnv_RescanFailureIsPerItem(t *testing.T) {
	f := newImportFixture(nil)
	f.env.err = errors.New("disk on fire")

	got := f.svc.ImportEnv(context.Background(), application.ImportRequest{
		Scan: application.EnvScanRequest{ProjectPath: "/work/app"},
		Services: []model.ImportSelection{
			{Type: model.ServiceTypeGitHub, Name: "a"},
			{Type: model.ServiceTypeCustom, Name: "b", Credentials: secrets("k", "v")},
		},
	})

	assertCountsBalance(t, got, 2)
	assert.Equal(t, 1, got.Created)
	require.Len(t, got.Errors, 1)
	assert.Contains(t, got.Errors[0].Reason, "disk on fire")
}

func TestImportEnv_StoreFailureIsPerItem(t *testing.T) {
	f := newImportFixture([]model.RawSource{envSource(".env", "VERCEL_TOKEN", "vt")})
	f.accounts.createErr = errors.New("database is locked")

	got := f.svc.ImportEnv(context.Background(), application.ImportRequest{
		Scan:     application.EnvScanRequest{ProjectPath: "/work/app"},
		Services: []model.ImportSelection{{Type: model.ServiceTypeVercel, Name: "v"}},
	})

	assertCountsBalance(t, got, 1)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, model.ServiceTypeVercel, got.Errors[0].Type)
	assert.Contains(t, got.Errors[0].Reason, "database is locked")
}

func TestImportEnv_LinksProjectIntegration(t *testing.T) {
	f := newImportFixture([]model.RawSource{envSource(".env", "VERCEL_TOKEN", "vt")})

	got := f.svc.ImportEnv(context.Background(), application.ImportRequest{
		Scan:        application.EnvScanRequest{ProjectPath: "/work/app"},
		Services:    []model.ImportSelection{{Type: model.ServiceTypeVercel, Name: "v"}},
		LinkProject: true,
	})

	require.Equal(t, 1, got.Created)
	require.Len(t, f.integrations.set, 1)
	assert.Equal(t, "p1", f.integrations.set[0].ProjectID)
	assert.Equal(t, model.ServiceTypeVercel, f.integrations.set[0].ServiceType)
	assert.Equal(t, got.Results[0].AccountID, f.integrations.set[0].AccountID)
}

func TestImportEnv_LinkFailureDoesNotFailItem(t *testing.T) {
	f := newImportFixture([]model.RawSource{envSource(".env", "VERCEL_TOKEN", "vt")})
	f.integrations.setErr = errors.New("constraint failed")

	got := f.svc.ImportEnv(context.Background(), application.ImportRequest{
		Scan:        application.EnvScanRequest{ProjectID: "p1"},
		Services:    []model.ImportSelection{{Type: model.ServiceTypeVercel, Name: "v"}},
		LinkProject: true,
	})

	assert.Equal(t, 1, got.Created)
	assert.Empty(t, got.Errors)
}

func TestImportSystem(t *testing.T) {
	accounts := newMockAccountStore()
	sys := &mockSystemScanner{sources: []model.RawSource{{
		Name:   "aws",
		Kind:   model.SourceKindSystem,
		Values: map[string]string{"AWS_ACCESS_KEY_ID": "AKIA", "AWS_SECRET_ACCESS_KEY": "s"},
	}}}
	scan := application.NewScanService(&mockEnvScanner{}, sys, accounts, newMockProjectStore(), defaultEnvFiles)
	svc := application.NewImportService(scan, accounts, &mockIntegrationStore{})

	got := svc.ImportSystem(context.Background(), application.ImportRequest{
		Services: []model.ImportSelection{{Type: model.ServiceTypeAWS, Name: "aws", Environment: model.EnvironmentProduction}},
	})

	assert.Equal(t, 1, got.Created)
	stored := accounts.accounts[got.Results[0].AccountID]
	assert.Equal(t, model.EnvironmentProduction, stored.Environment)
}
