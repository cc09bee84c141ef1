package application_test

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/integrationhub/internal/application"
	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

var secretComparer = cmp.Comparer(func(a, b model.Secret) bool { return a.Reveal() == b.Reveal() })

func TestMatch(t *testing.T) {
	tests := []struct {
		name          string
		sources       []model.RawSource
		want          []model.DetectedService
		wantUnmatched int
	}{
		{
			name:    "complete github",
			sources: []model.RawSource{envSource(".env", "GITHUB_TOKEN", "ghp_x", "GITHUB_USERNAME", "alice")},
			want: []model.DetectedService{{
				Type:            model.ServiceTypeGitHub,
				DisplayName:     "GitHub",
				SuggestedName:   "alice",
				Sources:         []string{".env"},
				Credentials:     secrets("token", "ghp_x", "username", "alice"),
				IsComplete:      true,
				MissingRequired: []string{},
				Environment:     model.EnvironmentDevelopment,
				Intent:          model.IntentCreate,
				Selected:        true,
			}},
		},
		{
			name:    "supabase anon key only is incomplete",
			sources: []model.RawSource{envSource(".env", "SUPABASE_ANON_KEY", "eyJhbGciOi")},
			want: []model.DetectedService{{
				Type:            model.ServiceTypeSupabase,
				DisplayName:     "Supabase",
				SuggestedName:   "supabase",
				Sources:         []string{".env"},
				Credentials:     secrets("anonKey", "eyJhbGciOi"),
				IsComplete:      false,
				MissingRequired: []string{"projectUrl"},
				Environment:     model.EnvironmentDevelopment,
				Intent:          model.IntentCreate,
				Selected:        false,
			}},
		},
		{
			name: "framework prefixes are stripped and unknown keys counted",
			sources: []model.RawSource{envSource(".env.production",
				"NEXT_PUBLIC_SUPABASE_URL", "https://abcdefgh.supabase.co",
				"VITE_SUPABASE_ANON_KEY", "anon",
				"DATABASE_URL", "postgres://x",
				"PORT", "3000",
			)},
			want: []model.DetectedService{{
				Type:            model.ServiceTypeSupabase,
				DisplayName:     "Supabase",
				SuggestedName:   "abcdefgh",
				Sources:         []string{".env.production"},
				Credentials:     secrets("projectUrl", "https://abcdefgh.supabase.co", "anonKey", "anon"),
				IsComplete:      true,
				MissingRequired: []string{},
				Environment:     model.EnvironmentProduction,
				Intent:          model.IntentCreate,
				Selected:        true,
			}},
			wantUnmatched: 2,
		},
		{
			name: "most complete source wins and gaps are merged",
			sources: []model.RawSource{
				envSource(".env", "GITHUB_TOKEN", "ghp_old"),
				envSource(".env.local", "GH_TOKEN", "ghp_new", "GITHUB_USER", "bob"),
				envSource(".env.staging", "VERCEL_TOKEN", "vt"),
			},
			want: []model.DetectedService{
				{
					Type:            model.ServiceTypeGitHub,
					DisplayName:     "GitHub",
					SuggestedName:   "bob",
					Sources:         []string{".env.local"},
					Credentials:     secrets("token", "ghp_new", "username", "bob"),
					IsComplete:      true,
					MissingRequired: []string{},
					Environment:     model.EnvironmentDevelopment,
					Intent:          model.IntentCreate,
					Selected:        true,
					Warnings:        []string{"token in .env differs from .env.local; keeping .env.local"},
				},
				{
					Type:            model.ServiceTypeVercel,
					DisplayName:     "Vercel",
					SuggestedName:   "vercel",
					Sources:         []string{".env.staging"},
					Credentials:     secrets("token", "vt"),
					IsComplete:      true,
					MissingRequired: []string{},
					Environment:     model.EnvironmentStaging,
					Intent:          model.IntentCreate,
					Selected:        true,
				},
			},
		},
		{
			name: "system source has no environment",
			sources: []model.RawSource{{
				Name:   "aws",
				Kind:   model.SourceKindSystem,
				Values: map[string]string{"AWS_ACCESS_KEY_ID": "AKIA1", "AWS_SECRET_ACCESS_KEY": "s", "AWS_REGION": "eu-west-1"},
			}},
			want: []model.DetectedService{{
				Type:            model.ServiceTypeAWS,
				DisplayName:     "AWS",
				SuggestedName:   "aws-eu-west-1",
				Sources:         []string{"aws"},
				Credentials:     secrets("accessKeyId", "AKIA1", "secretAccessKey", "s", "region", "eu-west-1"),
				IsComplete:      true,
				MissingRequired: []string{},
				Intent:          model.IntentCreate,
				Selected:        true,
			}},
		},
		{
			name:    "empty values are ignored",
			sources: []model.RawSource{envSource(".env", "GITHUB_TOKEN", "  ", "UNRELATED", "")},
			want:    []model.DetectedService{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := application.Match(tt.sources)
			if diff := cmp.Diff(tt.want, got.Services, secretComparer, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Match() services mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantUnmatched, got.UnmatchedCount)
		})
	}
}

func TestMatch_FirstAliasWinsWithinSource(t *testing.T) {
	got := application.Match([]model.RawSource{
		envSource(".env", "GH_TOKEN", "second", "GITHUB_TOKEN", "first", "GITHUB_USERNAME", "a"),
	})

	require.Len(t, got.Services, 1)
	assert.Equal(t, "first", got.Services[0].Credentials["token"].Reveal())
}

func TestMatch_UnprefixedKeyWinsOverPublicPrefix(t *testing.T) {
	src := envSource(".env",
		"NEXT_PUBLIC_SUPABASE_URL", "https://client.supabase.co",
		"SUPABASE_URL", "https://server.supabase.co",
		"SUPABASE_ANON_KEY", "anon",
	)

	// Map iteration order varies between calls; the winner must not.
	for range 50 {
		got := application.Match([]model.RawSource{src})

		require.Len(t, got.Services, 1)
		svc := got.Services[0]
		require.Equal(t, "https://server.supabase.co", svc.Credentials["projectUrl"].Reveal())
		require.Equal(t, "server", svc.SuggestedName)
		require.Zero(t, got.UnmatchedCount)
	}
}

func TestMatch_EnvironmentMarkerOverridesFileName(t *testing.T) {
	got := application.Match([]model.RawSource{
		envSource(".env.local", "NODE_ENV", "production", "SENTRY_DSN", "https://k@o1.ingest.sentry.io/42"),
	})

	require.Len(t, got.Services, 1)
	svc := got.Services[0]
	assert.Equal(t, model.EnvironmentProduction, svc.Environment)
	assert.Equal(t, "sentry-42", svc.SuggestedName)
}

func TestMatch_SupabaseServiceRoleUnderAnonAlias(t *testing.T) {
	key, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "service_role",
		"ref":  "projref",
	}).SignedString([]byte("not-the-real-secret"))
	require.NoError(t, err)

	got := application.Match([]model.RawSource{envSource(".env", "SUPABASE_ANON_KEY", key)})

	require.Len(t, got.Services, 1)
	svc := got.Services[0]
	assert.Equal(t, "projref", svc.SuggestedName)
	require.Len(t, svc.Warnings, 1)
	assert.Contains(t, svc.Warnings[0], "service_role")
}

func TestMatch_NoSources(t *testing.T) {
	got := application.Match(nil)

	assert.NotNil(t, got.Services)
	assert.Empty(t, got.Services)
	assert.Zero(t, got.UnmatchedCount)
}
