package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// ImportRequest is a caller-approved subset of a scan. Selections without
// explicit credentials take the values found by re-running the scan.
type ImportRequest struct {
	Scan        EnvScanRequest
	Services    []model.ImportSelection
	LinkProject bool
}

// ImportService turns approved scan results into stored service accounts.
// Each selection is processed independently; one failure never aborts the
// rest of the list.
type ImportService struct {
	scanner          *ScanService
	accountStore     driven.AccountStore
	integrationStore driven.IntegrationStore
}

// NewImportService creates a new ImportService with all required dependencies.
func NewImportService(
	scanner *ScanService,
	accountStore driven.AccountStore,
	integrationStore driven.IntegrationStore,
) *ImportService {
	return &ImportService{
		scanner:          scanner,
		accountStore:     accountStore,
		integrationStore: integrationStore,
	}
}

// ImportEnv imports selections detected in a project's env files.
func (s *ImportService) ImportEnv(ctx context.Context, req ImportRequest) model.ImportSummary {
	var projectID string
	if req.LinkProject {
		id, err := s.scanner.ResolveProjectID(ctx, req.Scan)
		if err != nil {
			slog.Error("resolve project for linking failed", "path", req.Scan.ProjectPath, "error", err)
		}
		projectID = id
	}
	return s.run(ctx, req.Services, projectID, func(ctx context.Context) (model.ScanResult, error) {
		return s.scanner.ScanEnv(ctx, req.Scan)
	})
}

// ImportSystem imports selections detected in system credential stores.
// LinkProject links the accounts to req.Scan.ProjectID when set.
func (s *ImportService) ImportSystem(ctx context.Context, req ImportRequest) model.ImportSummary {
	var projectID string
	if req.LinkProject {
		projectID = req.Scan.ProjectID
	}
	return s.run(ctx, req.Services, projectID, s.scanner.ScanSystem)
}

func (s *ImportService) run(
	ctx context.Context,
	selections []model.ImportSelection,
	projectID string,
	rescan func(context.Context) (model.ScanResult, error),
) model.ImportSummary {
	summary := model.ImportSummary{
		Errors:  []model.ImportError{},
		Results: []model.ImportResult{},
	}

	var (
		detected model.ScanResult
		scanErr  error
	)
	for _, sel := range selections {
		if !hasValues(sel.Credentials) {
			detected, scanErr = rescan(ctx)
			break
		}
	}

	for _, sel := range selections {
		sel.Name = strings.TrimSpace(sel.Name)
		res, err := s.importOne(ctx, sel, detected, scanErr)
		if err != nil {
			slog.Warn("import selection failed", "type", sel.Type, "name", sel.Name, "error", err)
			summary.Fail(sel, err.Error())
			continue
		}
		summary.Record(res)

		if projectID != "" {
			s.link(ctx, projectID, res)
		}
	}

	slog.Info("import complete",
		"requested", len(selections),
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"failed", len(summary.Errors),
	)
	return summary
}

func (s *ImportService) importOne(
	ctx context.Context,
	sel model.ImportSelection,
	detected model.ScanResult,
	scanErr error,
) (model.ImportResult, error) {
	if !sel.Type.Valid() {
		return model.ImportResult{}, validationErrorf("unknown service type %q", sel.Type)
	}
	if sel.Name == "" {
		return model.ImportResult{}, validationErrorf("name is required")
	}
	if !sel.Environment.Valid() {
		return model.ImportResult{}, validationErrorf("unknown environment %q", sel.Environment)
	}

	creds := sel.Credentials
	env := sel.Environment
	if !hasValues(creds) {
		if scanErr != nil {
			return model.ImportResult{}, fmt.Errorf("rescan: %w", scanErr)
		}
		svc, ok := detected.Service(sel.Type)
		if !ok {
			return model.ImportResult{}, validationErrorf("%s credentials not found in scan", sel.Type)
		}
		creds = svc.Credentials
		if env == model.EnvironmentNone {
			env = svc.Environment
		}
	}

	if sel.AccountID != "" {
		return s.update(ctx, sel, creds, env)
	}

	creds, _ = model.Credentials{}.Merge(creds)
	if err := ValidateCredentials(sel.Type, creds); err != nil {
		return model.ImportResult{}, err
	}
	created, err := s.accountStore.Create(ctx, model.ServiceAccount{
		Type:        sel.Type,
		Name:        sel.Name,
		Environment: env,
		Credentials: creds,
	})
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("create account: %w", err)
	}
	return model.ImportResult{Type: sel.Type, Name: created.Name, AccountID: created.ID, Outcome: model.OutcomeCreated}, nil
}

func (s *ImportService) update(
	ctx context.Context,
	sel model.ImportSelection,
	creds model.Credentials,
	env model.EnvironmentTag,
) (model.ImportResult, error) {
	acct, err := s.accountStore.Get(ctx, sel.AccountID)
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("load account %s: %w", sel.AccountID, err)
	}
	if acct.Type != sel.Type {
		return model.ImportResult{}, validationErrorf("account %s is %s, not %s", acct.ID, acct.Type, sel.Type)
	}

	changed := acct.Apply(model.AccountPatch{Name: sel.Name, Environment: env, Credentials: creds})
	if err := ValidateCredentials(acct.Type, acct.Credentials); err != nil {
		return model.ImportResult{}, err
	}
	if !changed {
		return model.ImportResult{Type: sel.Type, Name: acct.Name, AccountID: acct.ID, Outcome: model.OutcomeSkipped}, nil
	}

	updated, err := s.accountStore.Update(ctx, acct)
	if err != nil {
		return model.ImportResult{}, fmt.Errorf("update account %s: %w", acct.ID, err)
	}
	return model.ImportResult{Type: sel.Type, Name: updated.Name, AccountID: updated.ID, Outcome: model.OutcomeUpdated}, nil
}

// link records the imported account as the project's integration for its
// type. Failures are logged; the account itself was stored successfully.
func (s *ImportService) link(ctx context.Context, projectID string, res model.ImportResult) {
	err := s.integrationStore.Set(ctx, model.ProjectIntegration{
		ProjectID:   projectID,
		ServiceType: res.Type,
		AccountID:   res.AccountID,
	})
	if err != nil {
		slog.Error("link project integration failed",
			"project", projectID, "type", res.Type, "account", res.AccountID, "error", err)
	}
}

func hasValues(c model.Credentials) bool {
	for _, v := range c {
		if !v.IsEmpty() {
			return true
		}
	}
	return false
}
