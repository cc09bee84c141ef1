package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// ListAccounts returns every stored account with masked credentials.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "list accounts")
		return
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetAccount returns one account.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := h.accountSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "get account")
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(acct))
}

// CreateAccount stores a new account.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	env, ok := environmentTag(req.Environment)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid environment")
		return
	}

	created, err := h.accountSvc.Create(r.Context(), model.ServiceAccount{
		Type:        model.ServiceType(req.Type),
		Name:        req.Name,
		Environment: env,
		Credentials: model.CredentialsFromPlain(req.Credentials),
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "create account")
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(created))
}

// UpdateAccount applies a partial update. Empty credential values keep the
// stored value.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	env, ok := environmentTag(req.Environment)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid environment")
		return
	}

	updated, err := h.accountSvc.Update(r.Context(), r.PathValue("id"), model.AccountPatch{
		Name:        req.Name,
		Environment: env,
		Credentials: model.CredentialsFromPlain(req.Credentials),
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "update account")
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(updated))
}

// DeleteAccount removes an account.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accountSvc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, h.logger, err, "delete account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// VerifyAccount checks a GitHub account's token against the API.
func (h *Handler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	res, err := h.accountSvc.Verify(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "verify account")
		return
	}

	writeJSON(w, http.StatusOK, VerifyResponse{
		Valid:           res.Valid,
		Login:           res.Login,
		Scopes:          orEmpty(res.Scopes),
		UsernameUpdated: res.UsernameUpdated,
	})
}
