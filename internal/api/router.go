package api

import (
	"net/http"

	"github.com/epc-forge/doctrack/internal/server"
)

// NewRouter registers all API routes against a fresh mux.
func NewRouter(srv server.Server) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/health", HealthHandler(srv))

	mux.Handle("/api/v1/projects/{projectID}/numbering", NumberingConfigHandler(srv))
	mux.Handle("/api/v1/projects/{projectID}/numbering/next", NumberingPreviewHandler(srv))

	mux.Handle("/api/v1/projects/{projectID}/documents", DocumentsHandler(srv))
	mux.Handle("/api/v1/projects/{projectID}/documents/{documentID}", DocumentHandler(srv))
	mux.Handle("/api/v1/projects/{projectID}/documents/{documentID}/status", DocumentStatusHandler(srv))
	mux.Handle("/api/v1/projects/{projectID}/documents/{documentID}/submissions", DocumentSubmissionsHandler(srv))
	mux.Handle("/api/v1/projects/{projectID}/documents/{documentID}/links", DocumentLinksHandler(srv))
	mux.Handle("/api/v1/projects/{projectID}/documents/{documentID}/readiness", DocumentReadinessHandler(srv))

	return mux
}

// HealthHandler reports liveness and database reachability.
// Endpoint: GET /health
func HealthHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		sqlDB, err := srv.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			srv.Logger.Error("health check failed", "error", err)
			http.Error(w, "Database unreachable", http.StatusServiceUnavailable)
			return
		}

		_ = respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
