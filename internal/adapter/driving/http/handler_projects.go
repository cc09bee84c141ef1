package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// ListProjects returns all registered projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "list projects")
		return
	}

	resp := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, toProjectResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// RegisterProject adds a project to the registry.
func (h *Handler) RegisterProject(w http.ResponseWriter, r *http.Request) {
	var req RegisterProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.projectSvc.Register(r.Context(), req.Name, req.Path)
	if err != nil {
		writeServiceError(w, h.logger, err, "register project")
		return
	}

	writeJSON(w, http.StatusCreated, toProjectResponse(p))
}

// GetProject returns one project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.projectSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "get project")
		return
	}

	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

// RemoveProject unregisters a project.
func (h *Handler) RemoveProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projectSvc.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, err, "remove project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListIntegrations returns the accounts a project uses per service type.
func (h *Handler) ListIntegrations(w http.ResponseWriter, r *http.Request) {
	integrations, err := h.projectSvc.Integrations(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "list integrations")
		return
	}

	resp := make([]IntegrationResponse, 0, len(integrations))
	for _, in := range integrations {
		resp = append(resp, toIntegrationResponse(in))
	}

	writeJSON(w, http.StatusOK, resp)
}

// SetIntegration points a project's integration for a service type at an account.
func (h *Handler) SetIntegration(w http.ResponseWriter, r *http.Request) {
	var req SetIntegrationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	projectID := r.PathValue("id")
	err := h.projectSvc.SetIntegration(r.Context(), projectID, model.ServiceType(r.PathValue("type")), req.AccountID)
	if err != nil {
		writeServiceError(w, h.logger, err, "set integration")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
