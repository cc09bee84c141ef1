package web

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	vm "github.com/ericfisherdev/integrationhub/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// toFieldViewModels masks every credential value, sorted by field name.
func toFieldViewModels(c model.Credentials) []vm.FieldViewModel {
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	slices.Sort(names)

	fields := make([]vm.FieldViewModel, 0, len(names))
	for _, name := range names {
		fields = append(fields, vm.FieldViewModel{Name: name, Masked: c[name].Masked()})
	}
	return fields
}

func toAccountRowViewModels(accounts []model.ServiceAccount) []vm.AccountRowViewModel {
	rows := make([]vm.AccountRowViewModel, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, vm.AccountRowViewModel{
			ID:          a.ID,
			Type:        string(a.Type),
			Name:        a.Name,
			Environment: string(a.Environment),
			Fields:      toFieldViewModels(a.Credentials),
			UpdatedAt:   a.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows
}

func toProjectRowViewModels(projects []model.Project) []vm.ProjectRowViewModel {
	rows := make([]vm.ProjectRowViewModel, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, vm.ProjectRowViewModel{
			ID:               p.ID,
			Name:             p.Name,
			Path:             p.Path,
			ImportPath:       "/app/import?projectId=" + url.QueryEscape(p.ID),
			EnvironmentsPath: environmentsPath(p.ID),
		})
	}
	return rows
}

// toImportServiceViewModels pre-checks complete services. A reconciled
// account is pre-selected as the update target only when its name matches the
// detected one; any other same-type account is offered but left unselected.
func toImportServiceViewModels(services []model.DetectedService) []vm.ImportServiceViewModel {
	rows := make([]vm.ImportServiceViewModel, 0, len(services))
	for i, s := range services {
		row := vm.ImportServiceViewModel{
			Index:       i,
			Type:        string(s.Type),
			DisplayName: s.DisplayName,
			Name:        s.SuggestedName,
			Environment: string(s.Environment),
			Sources:     strings.Join(s.Sources, ", "),
			Fields:      toFieldViewModels(s.Credentials),
			IsComplete:  s.IsComplete,
			Missing:     s.MissingRequired,
			Checked:     s.Selected,
			Warnings:    s.Warnings,
		}
		if ref := s.ExistingAccount; ref != nil {
			row.ExistingAccountID = ref.ID
			row.ExistingAccountLabel = accountLabel(*ref)
			row.UpdateExisting = s.NameMatches
			if s.NameMatches {
				row.Name = ref.Name
				row.ExistingNotice = "Updates existing account " + row.ExistingAccountLabel
			} else {
				row.ExistingNotice = fmt.Sprintf("A %s account %s already exists. Importing creates a new account unless you choose to update it.",
					s.DisplayName, row.ExistingAccountLabel)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func accountLabel(ref model.AccountRef) string {
	if ref.Environment == model.EnvironmentNone {
		return ref.Name
	}
	return fmt.Sprintf("%s (%s)", ref.Name, ref.Environment)
}

func toImportSummaryViewModel(s model.ImportSummary) vm.ImportSummaryViewModel {
	errs := make([]vm.ImportErrorViewModel, 0, len(s.Errors))
	for _, e := range s.Errors {
		errs = append(errs, vm.ImportErrorViewModel{Type: string(e.Type), Name: e.Name, Reason: e.Reason})
	}
	return vm.ImportSummaryViewModel{
		Created: s.Created,
		Updated: s.Updated,
		Skipped: s.Skipped,
		Errors:  errs,
	}
}

func toEnvironmentViewModels(projectID string, envs []model.Environment) []vm.EnvironmentViewModel {
	rows := make([]vm.EnvironmentViewModel, 0, len(envs))
	for _, e := range envs {
		rows = append(rows, vm.EnvironmentViewModel{
			ID:              e.ID,
			Name:            e.Name,
			DescriptionHTML: RenderMarkdown(e.Description),
			ServerURL:       e.ServerURL,
			DatabaseURL:     e.DatabaseURL.Masked(),
			VariableCount:   len(e.Variables),
			IsActive:        e.IsActive,
			ActivatePath:    environmentsPath(projectID) + "/" + url.PathEscape(e.ID) + "/activate",
		})
	}
	return rows
}

func environmentsPath(projectID string) string {
	return "/app/projects/" + url.PathEscape(projectID) + "/environments"
}
