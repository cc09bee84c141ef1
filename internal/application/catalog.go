package application

import (
	"net/url"
	"strings"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// FieldSpec describes one credential field of a service shape. Aliases are
// the bare env key names (without framework prefixes) in priority order.
type FieldSpec struct {
	Name     string
	Aliases  []string
	Required bool
}

// ServiceShape is the catalog entry for one service type.
type ServiceShape struct {
	Type        model.ServiceType
	DisplayName string
	Fields      []FieldSpec

	// suggestName derives a default account name from detected values.
	suggestName func(values map[string]string) string
}

// Required returns the names of the required fields in declaration order.
func (s ServiceShape) Required() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Missing returns the required fields absent from creds, in declaration order.
func (s ServiceShape) Missing(creds model.Credentials) []string {
	missing := []string{}
	for _, name := range s.Required() {
		if !creds.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// SuggestName returns a default account name for the detected values.
func (s ServiceShape) SuggestName(values map[string]string) string {
	if s.suggestName != nil {
		if name := s.suggestName(values); name != "" {
			return name
		}
	}
	return string(s.Type)
}

// catalog holds every detectable service. custom has no shape: it accepts any
// non-empty credential map and is never produced by a scan.
var catalog = map[model.ServiceType]ServiceShape{
	model.ServiceTypeGitHub: {
		Type:        model.ServiceTypeGitHub,
		DisplayName: "GitHub",
		Fields: []FieldSpec{
			{Name: "token", Aliases: []string{"GITHUB_TOKEN", "GH_TOKEN", "GITHUB_PAT", "GITHUB_ACCESS_TOKEN", "GH_ENTERPRISE_TOKEN"}, Required: true},
			{Name: "username", Aliases: []string{"GITHUB_USERNAME", "GITHUB_USER", "GH_USERNAME", "GITHUB_LOGIN"}, Required: true},
		},
		suggestName: func(v map[string]string) string { return v["username"] },
	},
	model.ServiceTypeSupabase: {
		Type:        model.ServiceTypeSupabase,
		DisplayName: "Supabase",
		Fields: []FieldSpec{
			{Name: "projectUrl", Aliases: []string{"SUPABASE_URL", "SUPABASE_PROJECT_URL", "SUPABASE_API_URL"}, Required: true},
			{Name: "anonKey", Aliases: []string{"SUPABASE_ANON_KEY", "SUPABASE_KEY", "SUPABASE_PUBLISHABLE_KEY"}, Required: true},
			{Name: "serviceRoleKey", Aliases: []string{"SUPABASE_SERVICE_ROLE_KEY", "SUPABASE_SERVICE_KEY", "SUPABASE_SECRET_KEY"}},
			{Name: "accessToken", Aliases: []string{"SUPABASE_ACCESS_TOKEN"}},
		},
		suggestName: func(v map[string]string) string {
			if ref := supabaseRefFromURL(v["projectUrl"]); ref != "" {
				return ref
			}
			return supabaseKeyClaims(v["anonKey"]).ref
		},
	},
	model.ServiceTypeVercel: {
		Type:        model.ServiceTypeVercel,
		DisplayName: "Vercel",
		Fields: []FieldSpec{
			{Name: "token", Aliases: []string{"VERCEL_TOKEN", "VERCEL_ACCESS_TOKEN", "VERCEL_API_TOKEN"}, Required: true},
			{Name: "teamId", Aliases: []string{"VERCEL_TEAM_ID", "VERCEL_ORG_ID"}},
			{Name: "projectId", Aliases: []string{"VERCEL_PROJECT_ID"}},
		},
		suggestName: func(v map[string]string) string {
			if v["teamId"] != "" {
				return "vercel-" + v["teamId"]
			}
			return ""
		},
	},
	model.ServiceTypeSentry: {
		Type:        model.ServiceTypeSentry,
		DisplayName: "Sentry",
		Fields: []FieldSpec{
			{Name: "dsn", Aliases: []string{"SENTRY_DSN"}, Required: true},
			{Name: "authToken", Aliases: []string{"SENTRY_AUTH_TOKEN"}},
			{Name: "org", Aliases: []string{"SENTRY_ORG", "SENTRY_ORGANIZATION"}},
			{Name: "project", Aliases: []string{"SENTRY_PROJECT"}},
		},
		suggestName: func(v map[string]string) string {
			switch {
			case v["org"] != "" && v["project"] != "":
				return v["org"] + "/" + v["project"]
			case v["org"] != "":
				return v["org"]
			}
			if u, err := url.Parse(v["dsn"]); err == nil {
				if id := strings.Trim(u.Path, "/"); id != "" {
					return "sentry-" + id
				}
			}
			return ""
		},
	},
	model.ServiceTypeAWS: {
		Type:        model.ServiceTypeAWS,
		DisplayName: "AWS",
		Fields: []FieldSpec{
			{Name: "accessKeyId", Aliases: []string{"AWS_ACCESS_KEY_ID"}, Required: true},
			{Name: "secretAccessKey", Aliases: []string{"AWS_SECRET_ACCESS_KEY"}, Required: true},
			{Name: "sessionToken", Aliases: []string{"AWS_SESSION_TOKEN"}},
			{Name: "region", Aliases: []string{"AWS_REGION", "AWS_DEFAULT_REGION"}},
		},
		suggestName: func(v map[string]string) string {
			if v["region"] != "" {
				return "aws-" + v["region"]
			}
			return ""
		},
	},
}

// catalogOrder fixes the order in which detected services are reported.
var catalogOrder = []model.ServiceType{
	model.ServiceTypeGitHub,
	model.ServiceTypeSupabase,
	model.ServiceTypeVercel,
	model.ServiceTypeSentry,
	model.ServiceTypeAWS,
}

// Shape returns the catalog entry for t.
func Shape(t model.ServiceType) (ServiceShape, bool) {
	s, ok := catalog[t]
	return s, ok
}

// fieldRef locates a catalog field from an env key.
type fieldRef struct {
	serviceType model.ServiceType
	field       string
	priority    int // alias position; lower wins
}

// aliasIndex maps a normalised env key to its catalog field.
var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]fieldRef {
	idx := make(map[string]fieldRef)
	for _, t := range catalogOrder {
		for _, f := range catalog[t].Fields {
			for i, alias := range f.Aliases {
				idx[alias] = fieldRef{serviceType: t, field: f.Name, priority: i}
			}
		}
	}
	return idx
}

// publicPrefixes are framework conventions for exposing env vars to the
// browser bundle. They are stripped before alias lookup.
var publicPrefixes = []string{
	"NEXT_PUBLIC_",
	"NUXT_PUBLIC_",
	"EXPO_PUBLIC_",
	"REACT_APP_",
	"VITE_",
	"PUBLIC_",
}

// normalizeKey upper-cases key and strips one framework public prefix.
func normalizeKey(key string) string {
	k := strings.ToUpper(strings.TrimSpace(key))
	for _, p := range publicPrefixes {
		if rest, ok := strings.CutPrefix(k, p); ok && rest != "" {
			return rest
		}
	}
	return k
}

// ValidateCredentials checks creds against the catalog shape of t. custom
// accounts need at least one non-empty value.
func ValidateCredentials(t model.ServiceType, creds model.Credentials) error {
	if !t.Valid() {
		return validationErrorf("unknown service type %q", t)
	}
	shape, ok := Shape(t)
	if !ok {
		for _, v := range creds {
			if !v.IsEmpty() {
				return nil
			}
		}
		return validationErrorf("%s account needs at least one credential", t)
	}
	if missing := shape.Missing(creds); len(missing) > 0 {
		return validationErrorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

