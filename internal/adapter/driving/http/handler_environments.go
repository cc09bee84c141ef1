package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// ListEnvironments returns a project's environments.
func (h *Handler) ListEnvironments(w http.ResponseWriter, r *http.Request) {
	envs, err := h.environmentSvc.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "list environments")
		return
	}

	resp := make([]EnvironmentResponse, 0, len(envs))
	for _, e := range envs {
		resp = append(resp, toEnvironmentResponse(e))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetEnvironment returns one environment.
func (h *Handler) GetEnvironment(w http.ResponseWriter, r *http.Request) {
	env, err := h.environmentSvc.Get(r.Context(), r.PathValue("id"), r.PathValue("envId"))
	if err != nil {
		writeServiceError(w, h.logger, err, "get environment")
		return
	}

	writeJSON(w, http.StatusOK, toEnvironmentResponse(env))
}

// CreateEnvironment adds an inactive environment to a project.
func (h *Handler) CreateEnvironment(w http.ResponseWriter, r *http.Request) {
	var req EnvironmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	env := model.Environment{
		ProjectID:   r.PathValue("id"),
		Name:        req.Name,
		ServerURL:   req.ServerURL,
		DatabaseURL: model.NewSecret(req.DatabaseURL),
		Variables:   model.CredentialsFromPlain(req.Variables),
	}
	if req.Description != nil {
		env.Description = *req.Description
	}

	created, err := h.environmentSvc.Create(r.Context(), env)
	if err != nil {
		writeServiceError(w, h.logger, err, "create environment")
		return
	}

	writeJSON(w, http.StatusCreated, toEnvironmentResponse(created))
}

// UpdateEnvironment applies a partial update.
func (h *Handler) UpdateEnvironment(w http.ResponseWriter, r *http.Request) {
	var req EnvironmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.environmentSvc.Update(r.Context(), r.PathValue("id"), r.PathValue("envId"), model.EnvironmentPatch{
		Name:        req.Name,
		Description: req.Description,
		ServerURL:   req.ServerURL,
		DatabaseURL: model.NewSecret(req.DatabaseURL),
		Variables:   model.CredentialsFromPlain(req.Variables),
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "update environment")
		return
	}

	writeJSON(w, http.StatusOK, toEnvironmentResponse(updated))
}

// DeleteEnvironment removes an environment.
func (h *Handler) DeleteEnvironment(w http.ResponseWriter, r *http.Request) {
	if err := h.environmentSvc.Delete(r.Context(), r.PathValue("id"), r.PathValue("envId")); err != nil {
		writeServiceError(w, h.logger, err, "delete environment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ActivateEnvironment makes an environment the project's only active one.
func (h *Handler) ActivateEnvironment(w http.ResponseWriter, r *http.Request) {
	env, err := h.environmentSvc.Activate(r.Context(), r.PathValue("id"), r.PathValue("envId"))
	if err != nil {
		writeServiceError(w, h.logger, err, "activate environment")
		return
	}

	writeJSON(w, http.StatusOK, toEnvironmentResponse(env))
}
