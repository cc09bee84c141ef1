package application

import (
	"cmp"
	"fmt"
	"maps"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// MatchResult is the matcher output before reconciliation.
type MatchResult struct {
	Services       []model.DetectedService
	UnmatchedCount int
}

// envMarkerKeys name the deployment stage inside an env file.
var envMarkerKeys = []string{"APP_ENV", "NODE_ENV", "ENVIRONMENT", "VERCEL_ENV"}

// candidate is one source's view of one service type.
type candidate struct {
	sourceIdx  int
	sourceName string
	env        model.EnvironmentTag
	values     map[string]string
	priority   map[string]int
}

// Match maps raw sources onto the service catalog. Each source yields at most
// one candidate per service type; candidates of the same type are merged with
// the most complete one taking precedence. Services are returned in catalog
// order and are never nil.
func Match(sources []model.RawSource) MatchResult {
	byType := make(map[model.ServiceType][]candidate)
	unmatched := 0

	for i, src := range sources {
		env := guessEnvironment(src)
		perType := make(map[model.ServiceType]*candidate)

		for _, key := range slices.Sorted(maps.Keys(src.Values)) {
			value := src.Values[key]
			if strings.TrimSpace(value) == "" {
				continue
			}
			norm := normalizeKey(key)
			ref, ok := aliasIndex[norm]
			if !ok {
				unmatched++
				continue
			}
			c := perType[ref.serviceType]
			if c == nil {
				c = &candidate{
					sourceIdx:  i,
					sourceName: src.Name,
					env:        env,
					values:     make(map[string]string),
					priority:   make(map[string]int),
				}
				perType[ref.serviceType] = c
			}
			rank := aliasRank(ref, key, norm)
			if prev, seen := c.priority[ref.field]; seen && prev <= rank {
				continue
			}
			c.values[ref.field] = strings.TrimSpace(value)
			c.priority[ref.field] = rank
		}

		for t, c := range perType {
			byType[t] = append(byType[t], *c)
		}
	}

	services := []model.DetectedService{}
	for _, t := range catalogOrder {
		cands := byType[t]
		if len(cands) == 0 {
			continue
		}
		services = append(services, mergeCandidates(catalog[t], cands))
	}

	return MatchResult{Services: services, UnmatchedCount: unmatched}
}

// aliasRank orders keys that resolve to the same field: earlier catalog
// aliases first, then a key written without a framework public prefix.
// Remaining ties go to the first key in sorted order.
func aliasRank(ref fieldRef, key, norm string) int {
	rank := ref.priority * 2
	if strings.ToUpper(strings.TrimSpace(key)) != norm {
		rank++
	}
	return rank
}

// mergeCandidates ranks candidates by required fields present, then total
// fields, then source order, and fills gaps in the winner from the rest.
func mergeCandidates(shape ServiceShape, cands []candidate) model.DetectedService {
	required := shape.Required()
	requiredPresent := func(c candidate) int {
		n := 0
		for _, f := range required {
			if c.values[f] != "" {
				n++
			}
		}
		return n
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(requiredPresent(b), requiredPresent(a)); c != 0 {
			return c
		}
		if c := cmp.Compare(len(b.values), len(a.values)); c != 0 {
			return c
		}
		return cmp.Compare(a.sourceIdx, b.sourceIdx)
	})

	primary := cands[0]
	values := make(map[string]string, len(primary.values))
	for k, v := range primary.values {
		values[k] = v
	}
	sources := []string{primary.sourceName}
	env := primary.env
	var warnings []string

	for _, c := range cands[1:] {
		contributed := false
		for _, f := range shape.Fields {
			v, ok := c.values[f.Name]
			if !ok {
				continue
			}
			existing, has := values[f.Name]
			switch {
			case !has:
				values[f.Name] = v
				contributed = true
			case existing == v:
				contributed = true
			default:
				warnings = append(warnings, fmt.Sprintf("%s in %s differs from %s; keeping %s", f.Name, c.sourceName, primary.sourceName, primary.sourceName))
			}
		}
		if contributed && !slices.Contains(sources, c.sourceName) {
			sources = append(sources, c.sourceName)
		}
		if env == model.EnvironmentNone {
			env = c.env
		}
	}

	if shape.Type == model.ServiceTypeSupabase {
		warnings = append(warnings, supabaseKeyWarnings(values)...)
	}

	creds := make(model.Credentials, len(values))
	for k, v := range values {
		creds[k] = model.NewSecret(v)
	}
	missing := shape.Missing(creds)

	return model.DetectedService{
		Type:            shape.Type,
		DisplayName:     shape.DisplayName,
		SuggestedName:   shape.SuggestName(values),
		Sources:         sources,
		Credentials:     creds,
		IsComplete:      len(missing) == 0,
		MissingRequired: missing,
		Environment:     env,
		Intent:          model.IntentCreate,
		Selected:        len(missing) == 0,
		Warnings:        warnings,
	}
}

// guessEnvironment reads the stage from marker keys, then from the file name.
// System sources carry no stage.
func guessEnvironment(src model.RawSource) model.EnvironmentTag {
	if src.Kind == model.SourceKindSystem {
		return model.EnvironmentNone
	}
	keys := slices.Sorted(maps.Keys(src.Values))
	for _, marker := range envMarkerKeys {
		for _, k := range keys {
			if normalizeKey(k) != marker {
				continue
			}
			if tag := parseStage(src.Values[k]); tag != model.EnvironmentNone {
				return tag
			}
		}
	}

	name := strings.ToLower(filepath.Base(src.Name))
	suffix := strings.TrimPrefix(strings.TrimPrefix(name, ".env"), ".")
	if tag := parseStage(strings.SplitN(suffix, ".", 2)[0]); tag != model.EnvironmentNone {
		return tag
	}
	return model.EnvironmentDevelopment
}

func parseStage(v string) model.EnvironmentTag {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "production", "prod":
		return model.EnvironmentProduction
	case "staging", "stage", "preview":
		return model.EnvironmentStaging
	case "development", "dev", "local", "test":
		return model.EnvironmentDevelopment
	}
	return model.EnvironmentNone
}

// supabaseRefFromURL extracts the project ref from a hosted Supabase URL.
func supabaseRefFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	for _, suffix := range []string{".supabase.co", ".supabase.in"} {
		if ref, ok := strings.CutSuffix(host, suffix); ok && ref != "" && !strings.Contains(ref, ".") {
			return ref
		}
	}
	return ""
}

type supabaseClaims struct {
	role string
	ref  string
}

// supabaseKeyClaims decodes a Supabase API key without verifying it. The
// signing secret is never available here; only the role and ref claims are
// read. Non-JWT keys yield empty claims.
func supabaseKeyClaims(key string) supabaseClaims {
	if key == "" {
		return supabaseClaims{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return supabaseClaims{}
	}
	role, _ := claims["role"].(string)
	ref, _ := claims["ref"].(string)
	return supabaseClaims{role: role, ref: ref}
}

func supabaseKeyWarnings(values map[string]string) []string {
	var warnings []string
	if supabaseKeyClaims(values["anonKey"]).role == "service_role" {
		warnings = append(warnings, "anonKey holds a service_role key; do not expose it to clients")
	}
	if c := supabaseKeyClaims(values["serviceRoleKey"]); c.role != "" && c.role != "service_role" {
		warnings = append(warnings, fmt.Sprintf("serviceRoleKey has role %q", c.role))
	}
	return warnings
}
