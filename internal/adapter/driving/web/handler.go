// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	httphandler "github.com/ericfisherdev/integrationhub/internal/adapter/driving/http"
	"github.com/ericfisherdev/integrationhub/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/integrationhub/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/integrationhub/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/integrationhub/internal/application"
	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

const (
	appTitle          = "IntegrationHub"
	internalErrorText = "Something went wrong. Check the server log for details."
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	scanSvc        *application.ScanService
	importSvc      *application.ImportService
	accountSvc     *application.AccountService
	projectSvc     *application.ProjectService
	environmentSvc *application.EnvironmentService
	logger         *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	scanSvc *application.ScanService,
	importSvc *application.ImportService,
	accountSvc *application.AccountService,
	projectSvc *application.ProjectService,
	environmentSvc *application.EnvironmentService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		scanSvc:        scanSvc,
		importSvc:      importSvc,
		accountSvc:     accountSvc,
		projectSvc:     projectSvc,
		environmentSvc: environmentSvc,
		logger:         logger,
	}
}

// Dashboard renders stored accounts and registered projects.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountSvc.List(r.Context())
	if err != nil {
		h.fail(w, r, "Could not load accounts", err)
		return
	}
	projects, err := h.projectSvc.List(r.Context())
	if err != nil {
		h.fail(w, r, "Could not load projects", err)
		return
	}

	h.render(w, r, http.StatusOK, appTitle, pages.Dashboard(vm.DashboardViewModel{
		Accounts:         toAccountRowViewModels(accounts),
		Projects:         toProjectRowViewModels(projects),
		SystemImportPath: "/app/import?source=system",
	}))
}

// ImportDialog scans a project (or the system stores with source=system) and
// renders the selection form.
func (h *Handler) ImportDialog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := vm.ImportDialogViewModel{
		Source:     string(model.SourceKindEnv),
		CSRFToken:  csrfToken(w, r),
		ActionPath: "/app/import",
	}

	var (
		result model.ScanResult
		err    error
	)
	if q.Get("source") == string(model.SourceKindSystem) {
		data.Title = "Import system credentials"
		data.Source = string(model.SourceKindSystem)
		result, err = h.scanSvc.ScanSystem(r.Context())
	} else {
		req := application.EnvScanRequest{
			ProjectPath: q.Get("projectPath"),
			ProjectID:   q.Get("projectId"),
			Files:       splitList(q.Get("files")),
		}
		data.Title = "Import from .env files"
		data.ProjectPath, data.ProjectID, data.Files = req.ProjectPath, req.ProjectID, q.Get("files")
		result, err = h.scanSvc.ScanEnv(r.Context(), req)
	}
	httphandler.RecordScan(model.SourceKind(data.Source), err)
	if err != nil {
		h.fail(w, r, "Scan failed", err)
		return
	}

	data.Scanned = result.Files
	if data.Source == string(model.SourceKindSystem) {
		data.Scanned = foundSources(result.Sources)
	}
	data.UnmatchedCount = result.UnmatchedCount
	data.Services = toImportServiceViewModels(result.Services)

	h.render(w, r, http.StatusOK, data.Title, pages.ImportDialog(data))
}

// ImportSubmit imports the checked rows of the import dialog.
func (h *Handler) ImportSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, appTitle, pages.Message("Invalid form", "The import form could not be read."))
		return
	}
	if !validateCSRF(r) {
		h.render(w, r, http.StatusForbidden, appTitle, pages.Message("Forbidden", "The form has expired. Reload the import dialog and try again."))
		return
	}

	req := application.ImportRequest{
		Scan: application.EnvScanRequest{
			ProjectPath: r.PostForm.Get("projectPath"),
			ProjectID:   r.PostForm.Get("projectId"),
			Files:       splitList(r.PostForm.Get("files")),
		},
		Services:    selectionsFromForm(r),
		LinkProject: r.PostForm.Get("linkProject") != "",
	}

	var summary model.ImportSummary
	if r.PostForm.Get("source") == string(model.SourceKindSystem) {
		summary = h.importSvc.ImportSystem(r.Context(), req)
	} else {
		summary = h.importSvc.ImportEnv(r.Context(), req)
	}
	httphandler.RecordImport(summary)

	h.render(w, r, http.StatusOK, "Import complete", pages.ImportSummary(toImportSummaryViewModel(summary)))
}

// selectionsFromForm builds one selection per checked row. Credentials are
// left empty so that the importer takes them from a fresh scan.
func selectionsFromForm(r *http.Request) []model.ImportSelection {
	var out []model.ImportSelection
	for _, raw := range r.PostForm["select"] {
		if _, err := strconv.Atoi(raw); err != nil {
			continue
		}
		out = append(out, model.ImportSelection{
			Type:        model.ServiceType(r.PostForm.Get("type-" + raw)),
			Name:        r.PostForm.Get("name-" + raw),
			AccountID:   r.PostForm.Get("accountId-" + raw),
			Environment: model.EnvironmentTag(r.PostForm.Get("environment-" + raw)),
		})
	}
	return out
}

// Environments renders a project's environments.
func (h *Handler) Environments(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	project, err := h.projectSvc.Get(r.Context(), projectID)
	if err != nil {
		h.fail(w, r, "Project not available", err)
		return
	}
	envs, err := h.environmentSvc.List(r.Context(), projectID)
	if err != nil {
		h.fail(w, r, "Could not load environments", err)
		return
	}

	h.render(w, r, http.StatusOK, project.Name, pages.Environments(vm.EnvironmentsPageViewModel{
		ProjectName:  project.Name,
		ProjectPath:  project.Path,
		Environments: toEnvironmentViewModels(projectID, envs),
		CSRFToken:    csrfToken(w, r),
	}))
}

// ActivateEnvironment activates one environment and redirects back to the list.
func (h *Handler) ActivateEnvironment(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		h.render(w, r, http.StatusForbidden, appTitle, pages.Message("Forbidden", "The form has expired. Reload the page and try again."))
		return
	}

	projectID := r.PathValue("id")
	if _, err := h.environmentSvc.Activate(r.Context(), projectID, r.PathValue("envId")); err != nil {
		h.fail(w, r, "Activation failed", err)
		return
	}

	http.Redirect(w, r, environmentsPath(projectID), http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Layout(title, body).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "title", title, "error", err)
	}
}

// fail renders err as a page with the status the JSON API would use. Server
// errors are logged and replaced by a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, title string, err error) {
	status := httphandler.StatusFor(err)
	text := err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.Error(strings.ToLower(title), "path", r.URL.Path, "error", err)
		text = internalErrorText
	}
	h.render(w, r, status, appTitle, pages.Message(title, text))
}

func foundSources(sources []model.SystemSource) []string {
	var out []string
	for _, s := range sources {
		if s.Found {
			out = append(out, s.Name)
		}
	}
	return out
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
