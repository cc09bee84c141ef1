package application

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// EnvScanRequest identifies the project to scan. ProjectID is resolved
// through the project registry when ProjectPath is empty. Files defaults to
// the configured list.
type EnvScanRequest struct {
	ProjectID   string
	ProjectPath string
	Files       []string
}

// ScanService runs source scanning, catalog matching and reconciliation.
type ScanService struct {
	envScanner    driven.EnvScanner
	systemScanner driven.SystemScanner
	accountStore  driven.AccountStore
	projectStore  driven.ProjectStore
	defaultFiles  []string
}

// NewScanService creates a new ScanService with all required dependencies.
func NewScanService(
	envScanner driven.EnvScanner,
	systemScanner driven.SystemScanner,
	accountStore driven.AccountStore,
	projectStore driven.ProjectStore,
	defaultFiles []string,
) *ScanService {
	return &ScanService{
		envScanner:    envScanner,
		systemScanner: systemScanner,
		accountStore:  accountStore,
		projectStore:  projectStore,
		defaultFiles:  defaultFiles,
	}
}

// DefaultFiles returns the env file names scanned when a request names none.
func (s *ScanService) DefaultFiles() []string {
	return append([]string(nil), s.defaultFiles...)
}

// ScanEnv reads the project's env files and reports the services they
// configure. A project without any of the files yields an empty result.
func (s *ScanService) ScanEnv(ctx context.Context, req EnvScanRequest) (model.ScanResult, error) {
	dir, err := s.resolveProjectPath(ctx, req)
	if err != nil {
		return model.ScanResult{}, err
	}

	files, err := s.envFiles(req.Files)
	if err != nil {
		return model.ScanResult{}, err
	}

	sources, found, err := s.envScanner.ReadEnvFiles(ctx, dir, files)
	if err != nil {
		return model.ScanResult{}, fmt.Errorf("read env files in %s: %w", dir, err)
	}

	result, err := s.matchAndReconcile(ctx, sources)
	if err != nil {
		return model.ScanResult{}, err
	}
	result.Files = nonNil(found)

	slog.Info("env scan complete",
		"dir", dir,
		"files", len(result.Files),
		"services", len(result.Services),
		"unmatched", result.UnmatchedCount,
	)
	return result, nil
}

// ScanSystem probes user-level credential stores.
func (s *ScanService) ScanSystem(ctx context.Context) (model.ScanResult, error) {
	sources, probed, err := s.systemScanner.Probe(ctx)
	if err != nil {
		return model.ScanResult{}, fmt.Errorf("probe system sources: %w", err)
	}

	result, err := s.matchAndReconcile(ctx, sources)
	if err != nil {
		return model.ScanResult{}, err
	}
	result.Files = []string{}
	result.Sources = probed
	if result.Sources == nil {
		result.Sources = []model.SystemSource{}
	}

	slog.Info("system scan complete",
		"sources", len(sources),
		"services", len(result.Services),
	)
	return result, nil
}

// ResolveProjectID returns the registered id for the request, or "" when the
// request names only a path that is not registered.
func (s *ScanService) ResolveProjectID(ctx context.Context, req EnvScanRequest) (string, error) {
	if req.ProjectID != "" {
		return req.ProjectID, nil
	}
	if req.ProjectPath == "" {
		return "", nil
	}
	projects, err := s.projectStore.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list projects: %w", err)
	}
	want := filepath.Clean(req.ProjectPath)
	for _, p := range projects {
		if filepath.Clean(p.Path) == want {
			return p.ID, nil
		}
	}
	return "", nil
}

func (s *ScanService) matchAndReconcile(ctx context.Context, sources []model.RawSource) (model.ScanResult, error) {
	matched := Match(sources)

	accounts, err := s.accountStore.List(ctx)
	if err != nil {
		return model.ScanResult{}, fmt.Errorf("list accounts: %w", err)
	}

	return model.ScanResult{
		Services:       Reconcile(matched.Services, accounts),
		UnmatchedCount: matched.UnmatchedCount,
	}, nil
}

func (s *ScanService) resolveProjectPath(ctx context.Context, req EnvScanRequest) (string, error) {
	if req.ProjectPath != "" {
		return req.ProjectPath, nil
	}
	if req.ProjectID == "" {
		return "", validationErrorf("projectPath or projectId is required")
	}
	project, err := s.projectStore.Get(ctx, req.ProjectID)
	if err != nil {
		return "", fmt.Errorf("resolve project %s: %w", req.ProjectID, err)
	}
	return project.Path, nil
}

// envFiles validates requested names, falling back to the defaults. Only
// bare names starting with ".env" are accepted so a request cannot read
// outside the project directory.
func (s *ScanService) envFiles(requested []string) ([]string, error) {
	var names []string
	for _, n := range requested {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return s.DefaultFiles(), nil
	}
	for _, n := range names {
		if !strings.HasPrefix(n, ".env") || strings.ContainsAny(n, `/\`) || strings.Contains(n, "..") {
			return nil, validationErrorf("invalid env file name %q", n)
		}
	}
	return names, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
