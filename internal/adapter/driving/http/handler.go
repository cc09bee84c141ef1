// Package httphandler serves the JSON API over net/http.
package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/integrationhub/internal/application"
	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	scanSvc        *application.ScanService
	importSvc      *application.ImportService
	accountSvc     *application.AccountService
	projectSvc     *application.ProjectService
	environmentSvc *application.EnvironmentService
	testAccountSvc *application.TestAccountService
	logger         *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	scanSvc *application.ScanService,
	importSvc *application.ImportService,
	accountSvc *application.AccountService,
	projectSvc *application.ProjectService,
	environmentSvc *application.EnvironmentService,
	testAccountSvc *application.TestAccountService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		scanSvc:        scanSvc,
		importSvc:      importSvc,
		accountSvc:     accountSvc,
		projectSvc:     projectSvc,
		environmentSvc: environmentSvc,
		testAccountSvc: testAccountSvc,
		logger:         logger,
	}
}

// RegisterRoutes registers all API routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/health", h.Health)

	mux.HandleFunc("GET /api/v1/integrations/env/scan", h.ScanEnv)
	mux.HandleFunc("POST /api/v1/integrations/env/import", h.ImportEnv)
	mux.HandleFunc("GET /api/v1/integrations/system/scan", h.ScanSystem)
	mux.HandleFunc("POST /api/v1/integrations/system/import", h.ImportSystem)

	mux.HandleFunc("GET /api/v1/accounts", h.ListAccounts)
	mux.HandleFunc("POST /api/v1/accounts", h.CreateAccount)
	mux.HandleFunc("GET /api/v1/accounts/{id}", h.GetAccount)
	mux.HandleFunc("PUT /api/v1/accounts/{id}", h.UpdateAccount)
	mux.HandleFunc("DELETE /api/v1/accounts/{id}", h.DeleteAccount)
	mux.HandleFunc("POST /api/v1/accounts/{id}/verify", h.VerifyAccount)

	mux.HandleFunc("GET /api/v1/projects", h.ListProjects)
	mux.HandleFunc("POST /api/v1/projects", h.RegisterProject)
	mux.HandleFunc("GET /api/v1/projects/{id}", h.GetProject)
	mux.HandleFunc("DELETE /api/v1/projects/{id}", h.RemoveProject)
	mux.HandleFunc("GET /api/v1/projects/{id}/integrations", h.ListIntegrations)
	mux.HandleFunc("PUT /api/v1/projects/{id}/integrations/{type}", h.SetIntegration)

	mux.HandleFunc("GET /api/v1/projects/{id}/environments", h.ListEnvironments)
	mux.HandleFunc("POST /api/v1/projects/{id}/environments", h.CreateEnvironment)
	mux.HandleFunc("GET /api/v1/projects/{id}/environments/{envId}", h.GetEnvironment)
	mux.HandleFunc("PUT /api/v1/projects/{id}/environments/{envId}", h.UpdateEnvironment)
	mux.HandleFunc("DELETE /api/v1/projects/{id}/environments/{envId}", h.DeleteEnvironment)
	mux.HandleFunc("POST /api/v1/projects/{id}/environments/{envId}/activate", h.ActivateEnvironment)

	mux.HandleFunc("GET /api/v1/projects/{id}/test-accounts", h.ListTestAccounts)
	mux.HandleFunc("POST /api/v1/projects/{id}/test-accounts", h.CreateTestAccount)
	mux.HandleFunc("GET /api/v1/projects/{id}/test-accounts/{accountId}", h.GetTestAccount)
	mux.HandleFunc("PUT /api/v1/projects/{id}/test-accounts/{accountId}", h.UpdateTestAccount)
	mux.HandleFunc("DELETE /api/v1/projects/{id}/test-accounts/{accountId}", h.DeleteTestAccount)

	mux.Handle("GET /metrics", promhttp.Handler())
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging, metrics and recovery middleware. extra registers additional
// routes (the HTML GUI) on the same mux.
func NewServeMux(h *Handler, logger *slog.Logger, extra ...func(*http.ServeMux)) http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	for _, register := range extra {
		register(mux)
	}

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = metricsMiddleware(wrapped)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeJSON decodes the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// splitList parses a comma-separated query value.
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// environmentTag validates a request environment value.
func environmentTag(v string) (model.EnvironmentTag, bool) {
	tag := model.EnvironmentTag(strings.TrimSpace(v))
	return tag, tag.Valid()
}
