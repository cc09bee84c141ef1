package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// ListTestAccounts returns a project's test accounts with masked passwords.
func (h *Handler) ListTestAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.testAccountSvc.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "list test accounts")
		return
	}

	resp := make([]TestAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toTestAccountResponse(a))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetTestAccount returns one test account.
func (h *Handler) GetTestAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := h.testAccountSvc.Get(r.Context(), r.PathValue("id"), r.PathValue("accountId"))
	if err != nil {
		writeServiceError(w, h.logger, err, "get test account")
		return
	}

	writeJSON(w, http.StatusOK, toTestAccountResponse(acct))
}

// CreateTestAccount adds a test account to a project.
func (h *Handler) CreateTestAccount(w http.ResponseWriter, r *http.Request) {
	var req TestAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	acct := model.TestAccount{
		ProjectID: r.PathValue("id"),
		Role:      req.Role,
		Email:     req.Email,
		Password:  model.NewSecret(req.Password),
	}
	if req.Description != nil {
		acct.Description = *req.Description
	}

	created, err := h.testAccountSvc.Create(r.Context(), acct)
	if err != nil {
		writeServiceError(w, h.logger, err, "create test account")
		return
	}

	writeJSON(w, http.StatusCreated, toTestAccountResponse(created))
}

// UpdateTestAccount applies a partial update; a blank password keeps the stored one.
func (h *Handler) UpdateTestAccount(w http.ResponseWriter, r *http.Request) {
	var req TestAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.testAccountSvc.Update(r.Context(), r.PathValue("id"), r.PathValue("accountId"), model.TestAccountPatch{
		Role:        req.Role,
		Email:       req.Email,
		Password:    model.NewSecret(req.Password),
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "update test account")
		return
	}

	writeJSON(w, http.StatusOK, toTestAccountResponse(updated))
}

// DeleteTestAccount removes a test account.
func (h *Handler) DeleteTestAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.testAccountSvc.Delete(r.Context(), r.PathValue("id"), r.PathValue("accountId")); err != nil {
		writeServiceError(w, h.logger, err, "delete test account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
