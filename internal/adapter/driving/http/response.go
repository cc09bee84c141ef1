package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/integrationhub/internal/application"
	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// StatusFor maps a service error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, driven.ErrAccountNotFound),
		errors.Is(err, driven.ErrProjectNotFound),
		errors.Is(err, driven.ErrEnvironmentNotFound),
		errors.Is(err, driven.ErrTestAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrValidation),
		errors.Is(err, application.ErrVerificationUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, driven.ErrProjectAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, driven.ErrEncryptionKeyNotSet):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeServiceError maps err to a status code. Unclassified errors are logged
// and answered with a generic message.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error, action string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(action+" failed", "error", err)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// AccountRefResponse identifies a stored account matched by a scan.
type AccountRefResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Environment string `json:"environment"`
}

// DetectedServiceResponse is one service found by a scan. Credential values
// are masked.
type DetectedServiceResponse struct {
	Type            string              `json:"type"`
	DisplayName     string              `json:"displayName"`
	SuggestedName   string              `json:"suggestedName"`
	Sources         []string            `json:"sources"`
	Credentials     map[string]string   `json:"credentials"`
	IsComplete      bool                `json:"isComplete"`
	MissingRequired []string            `json:"missingRequired"`
	Environment     string              `json:"environment"`
	ExistingAccount *AccountRefResponse `json:"existingAccount"`
	NameMatches     bool                `json:"nameMatches"`
	Intent          string              `json:"intent"`
	Selected        bool                `json:"selected"`
	Warnings        []string            `json:"warnings"`
}

// SystemSourceResponse reports one probed system location.
type SystemSourceResponse struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Found    bool   `json:"found"`
	KeyCount int    `json:"keyCount"`
}

// ScanResponse is the body of both scan endpoints.
type ScanResponse struct {
	Files          []string                  `json:"files"`
	Sources        []SystemSourceResponse    `json:"sources"`
	Services       []DetectedServiceResponse `json:"services"`
	UnmatchedCount int                       `json:"unmatchedCount"`
}

// ImportSelectionRequest is one caller-approved service.
type ImportSelectionRequest struct {
	Type        string            `json:"type"`
	Name        string            `json:"name"`
	AccountID   string            `json:"accountId"`
	Environment string            `json:"environment"`
	Credentials map[string]string `json:"credentials"`
}

// ImportRequestBody is the JSON body for both import endpoints.
type ImportRequestBody struct {
	ProjectPath string                   `json:"projectPath"`
	ProjectID   string                   `json:"projectId"`
	Files       []string                 `json:"files"`
	LinkProject bool                     `json:"linkProject"`
	Services    []ImportSelectionRequest `json:"services"`
}

// ImportErrorResponse explains one failed selection.
type ImportErrorResponse struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ImportResultResponse is the outcome of one selection.
type ImportResultResponse struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	AccountID string `json:"accountId,omitempty"`
	Outcome   string `json:"outcome"`
}

// ImportSummaryResponse is the aggregate result of an import.
type ImportSummaryResponse struct {
	Created int                    `json:"created"`
	Updated int                    `json:"updated"`
	Skipped int                    `json:"skipped"`
	Errors  []ImportErrorResponse  `json:"errors"`
	Results []ImportResultResponse `json:"results"`
}

// AccountResponse is the JSON representation of a service account.
type AccountResponse struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Name        string            `json:"name"`
	Environment string            `json:"environment"`
	Credentials map[string]string `json:"credentials"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

// AccountRequest is the JSON body for creating or updating an account.
// Empty fields are ignored on update.
type AccountRequest struct {
	Type        string            `json:"type"`
	Name        string            `json:"name"`
	Environment string            `json:"environment"`
	Credentials map[string]string `json:"credentials"`
}

// VerifyResponse reports the outcome of a token check.
type VerifyResponse struct {
	Valid           bool     `json:"valid"`
	Login           string   `json:"login,omitempty"`
	Scopes          []string `json:"scopes"`
	UsernameUpdated bool     `json:"usernameUpdated"`
}

// ProjectResponse is the JSON representation of a registered project.
type ProjectResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	CreatedAt string `json:"createdAt"`
}

// RegisterProjectRequest is the JSON body for registering a project.
type RegisterProjectRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// IntegrationResponse is one project integration.
type IntegrationResponse struct {
	ProjectID   string `json:"projectId"`
	ServiceType string `json:"serviceType"`
	AccountID   string `json:"accountId"`
	UpdatedAt   string `json:"updatedAt"`
}

// SetIntegrationRequest is the JSON body for setting a project integration.
// An empty accountId clears it.
type SetIntegrationRequest struct {
	AccountID string `json:"accountId"`
}

// EnvironmentResponse is the JSON representation of a project environment.
type EnvironmentResponse struct {
	ID          string            `json:"id"`
	ProjectID   string            `json:"projectId"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	ServerURL   string            `json:"serverUrl"`
	DatabaseURL string            `json:"databaseUrl"`
	Variables   map[string]string `json:"variables"`
	IsActive    bool              `json:"isActive"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

// EnvironmentRequest is the JSON body for creating or updating an environment.
type EnvironmentRequest struct {
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	ServerURL   string            `json:"serverUrl"`
	DatabaseURL string            `json:"databaseUrl"`
	Variables   map[string]string `json:"variables"`
}

// TestAccountResponse is the JSON representation of a test account.
type TestAccountResponse struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	Role        string `json:"role"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// TestAccountRequest is the JSON body for creating or updating a test account.
type TestAccountRequest struct {
	Role        string  `json:"role"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Description *string `json:"description"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// maskCredentials renders every value in its masked form.
func maskCredentials(c model.Credentials) map[string]string {
	out := make(map[string]string, len(c))
	for k, v := range c {
		out[k] = v.Masked()
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// toScanResponse converts a domain ScanResult to its JSON representation.
func toScanResponse(res model.ScanResult) ScanResponse {
	services := make([]DetectedServiceResponse, 0, len(res.Services))
	for _, s := range res.Services {
		services = append(services, toDetectedServiceResponse(s))
	}
	sources := make([]SystemSourceResponse, 0, len(res.Sources))
	for _, s := range res.Sources {
		sources = append(sources, SystemSourceResponse{Name: s.Name, Path: s.Path, Found: s.Found, KeyCount: s.KeyCount})
	}
	return ScanResponse{
		Files:          orEmpty(res.Files),
		Sources:        sources,
		Services:       services,
		UnmatchedCount: res.UnmatchedCount,
	}
}

func toDetectedServiceResponse(s model.DetectedService) DetectedServiceResponse {
	var existing *AccountRefResponse
	if s.ExistingAccount != nil {
		existing = &AccountRefResponse{
			ID:          s.ExistingAccount.ID,
			Name:        s.ExistingAccount.Name,
			Environment: string(s.ExistingAccount.Environment),
		}
	}
	return DetectedServiceResponse{
		Type:            string(s.Type),
		DisplayName:     s.DisplayName,
		SuggestedName:   s.SuggestedName,
		Sources:         orEmpty(s.Sources),
		Credentials:     maskCredentials(s.Credentials),
		IsComplete:      s.IsComplete,
		MissingRequired: orEmpty(s.MissingRequired),
		Environment:     string(s.Environment),
		ExistingAccount: existing,
		NameMatches:     s.NameMatches,
		Intent:          string(s.Intent),
		Selected:        s.Selected,
		Warnings:        orEmpty(s.Warnings),
	}
}

// toImportSelections converts request selections to domain selections.
func toImportSelections(in []ImportSelectionRequest) []model.ImportSelection {
	out := make([]model.ImportSelection, 0, len(in))
	for _, s := range in {
		out = append(out, model.ImportSelection{
			Type:        model.ServiceType(s.Type),
			Name:        s.Name,
			AccountID:   s.AccountID,
			Environment: model.EnvironmentTag(s.Environment),
			Credentials: model.CredentialsFromPlain(s.Credentials),
		})
	}
	return out
}

// ToImportSummaryResponse converts a domain ImportSummary to its JSON representation.
func ToImportSummaryResponse(s model.ImportSummary) ImportSummaryResponse {
	errs := make([]ImportErrorResponse, 0, len(s.Errors))
	for _, e := range s.Errors {
		errs = append(errs, ImportErrorResponse{Type: string(e.Type), Name: e.Name, Reason: e.Reason})
	}
	results := make([]ImportResultResponse, 0, len(s.Results))
	for _, r := range s.Results {
		results = append(results, ImportResultResponse{
			Type:      string(r.Type),
			Name:      r.Name,
			AccountID: r.AccountID,
			Outcome:   string(r.Outcome),
		})
	}
	return ImportSummaryResponse{
		Created: s.Created,
		Updated: s.Updated,
		Skipped: s.Skipped,
		Errors:  errs,
		Results: results,
	}
}

func toAccountResponse(a model.ServiceAccount) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Type:        string(a.Type),
		Name:        a.Name,
		Environment: string(a.Environment),
		Credentials: maskCredentials(a.Credentials),
		CreatedAt:   formatTime(a.CreatedAt),
		UpdatedAt:   formatTime(a.UpdatedAt),
	}
}

func toProjectResponse(p model.Project) ProjectResponse {
	return ProjectResponse{ID: p.ID, Name: p.Name, Path: p.Path, CreatedAt: formatTime(p.CreatedAt)}
}

func toIntegrationResponse(in model.ProjectIntegration) IntegrationResponse {
	return IntegrationResponse{
		ProjectID:   in.ProjectID,
		ServiceType: string(in.ServiceType),
		AccountID:   in.AccountID,
		UpdatedAt:   formatTime(in.UpdatedAt),
	}
}

func toEnvironmentResponse(e model.Environment) EnvironmentResponse {
	return EnvironmentResponse{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		Name:        e.Name,
		Description: e.Description,
		ServerURL:   e.ServerURL,
		DatabaseURL: e.DatabaseURL.Masked(),
		Variables:   maskCredentials(e.Variables),
		IsActive:    e.IsActive,
		CreatedAt:   formatTime(e.CreatedAt),
		UpdatedAt:   formatTime(e.UpdatedAt),
	}
}

func toTestAccountResponse(a model.TestAccount) TestAccountResponse {
	return TestAccountResponse{
		ID:          a.ID,
		ProjectID:   a.ProjectID,
		Role:        a.Role,
		Email:       a.Email,
		Password:    a.Password.Masked(),
		Description: a.Description,
		CreatedAt:   formatTime(a.CreatedAt),
		UpdatedAt:   formatTime(a.UpdatedAt),
	}
}
