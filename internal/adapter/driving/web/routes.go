package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Web routes serve HTML at / and /app/* paths.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("GET /app/import", h.ImportDialog)
	mux.HandleFunc("POST /app/import", h.ImportSubmit)
	mux.HandleFunc("GET /app/projects/{id}/environments", h.Environments)
	mux.HandleFunc("POST /app/projects/{id}/environments/{envId}/activate", h.ActivateEnvironment)
}
