package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/integrationhub/internal/application"
	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// ScanEnv reports the services configured by a project's env files.
func (h *Handler) ScanEnv(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := application.EnvScanRequest{
		ProjectPath: q.Get("projectPath"),
		ProjectID:   q.Get("projectId"),
		Files:       splitList(q.Get("files")),
	}

	result, err := h.scanSvc.ScanEnv(r.Context(), req)
	RecordScan(model.SourceKindEnv, err)
	if err != nil {
		h.writeScanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toScanResponse(result))
}

// ScanSystem reports the services configured in user-level credential stores.
func (h *Handler) ScanSystem(w http.ResponseWriter, r *http.Request) {
	result, err := h.scanSvc.ScanSystem(r.Context())
	RecordScan(model.SourceKindSystem, err)
	if err != nil {
		h.writeScanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toScanResponse(result))
}

// ImportEnv imports the selected services from a project's env files.
// Per-service failures are reported in the summary, not as an HTTP error.
func (h *Handler) ImportEnv(w http.ResponseWriter, r *http.Request) {
	var body ImportRequestBody
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.ProjectPath == "" && body.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "projectPath or projectId is required")
		return
	}

	summary := h.importSvc.ImportEnv(r.Context(), importRequest(body))
	RecordImport(summary)

	writeJSON(w, http.StatusOK, ToImportSummaryResponse(summary))
}

// ImportSystem imports the selected services from system credential stores.
func (h *Handler) ImportSystem(w http.ResponseWriter, r *http.Request) {
	var body ImportRequestBody
	if !decodeJSON(w, r, &body) {
		return
	}

	summary := h.importSvc.ImportSystem(r.Context(), importRequest(body))
	RecordImport(summary)

	writeJSON(w, http.StatusOK, ToImportSummaryResponse(summary))
}

func importRequest(body ImportRequestBody) application.ImportRequest {
	return application.ImportRequest{
		Scan: application.EnvScanRequest{
			ProjectPath: body.ProjectPath,
			ProjectID:   body.ProjectID,
			Files:       body.Files,
		},
		Services:    toImportSelections(body.Services),
		LinkProject: body.LinkProject,
	}
}

// writeScanError answers a failed scan. I/O failures carry their message so
// the caller can show which file could not be read.
func (h *Handler) writeScanError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("scan failed", "error", err)
		writeError(w, status, "scan failed: "+err.Error())
		return
	}
	writeError(w, status, err.Error())
}
