// Package viewmodel defines presentation-ready structs for the HTML pages.
// View models decouple rendering from domain model types and never carry a
// revealed credential value.
package viewmodel

// FieldViewModel is one credential field in its masked form.
type FieldViewModel struct {
	Name   string
	Masked string
}

// AccountRowViewModel holds one stored service account for the dashboard table.
type AccountRowViewModel struct {
	ID          string
	Type        string
	Name        string
	Environment string
	Fields      []FieldViewModel
	UpdatedAt   string
}

// ProjectRowViewModel holds one registered project with its page links.
type ProjectRowViewModel struct {
	ID               string
	Name             string
	Path             string
	ImportPath       string // /app/import?projectId=...
	EnvironmentsPath string // /app/projects/{id}/environments
}

// DashboardViewModel holds all data needed to render the dashboard page.
type DashboardViewModel struct {
	Accounts         []AccountRowViewModel
	Projects         []ProjectRowViewModel
	SystemImportPath string
}

// ImportServiceViewModel is one detected service row in the import dialog.
type ImportServiceViewModel struct {
	Index             int
	Type              string
	DisplayName       string
	Name              string
	Environment       string
	Sources           string
	Fields            []FieldViewModel
	IsComplete        bool
	Missing           []string
	Checked           bool
	Warnings          []string

	// ExistingAccountID is the stored same-type account offered as an update
	// target. UpdateExisting pre-selects it; otherwise the row creates a new
	// account unless the user picks the update.
	ExistingAccountID    string
	ExistingAccountLabel string // "work (production)"
	UpdateExisting       bool
	ExistingNotice       string
}

// ImportDialogViewModel holds the scan preview and the hidden form state that
// lets the POST handler repeat the same scan.
type ImportDialogViewModel struct {
	Title          string
	Source         string // "env" or "system"
	ProjectPath    string
	ProjectID      string
	Files          string
	Scanned        []string
	UnmatchedCount int
	Services       []ImportServiceViewModel
	CSRFToken      string
	ActionPath     string
}

// ImportErrorViewModel explains one failed selection.
type ImportErrorViewModel struct {
	Type   string
	Name   string
	Reason string
}

// ImportSummaryViewModel holds the counts shown after an import.
type ImportSummaryViewModel struct {
	Created int
	Updated int
	Skipped int
	Errors  []ImportErrorViewModel
}

// EnvironmentViewModel holds presentation data for one project environment.
type EnvironmentViewModel struct {
	ID              string
	Name            string
	DescriptionHTML string // sanitized
	ServerURL       string
	DatabaseURL     string // masked
	VariableCount   int
	IsActive        bool
	ActivatePath    string
}

// EnvironmentsPageViewModel holds a project's environments list.
type EnvironmentsPageViewModel struct {
	ProjectName  string
	ProjectPath  string
	Environments []EnvironmentViewModel
	CSRFToken    string
}
