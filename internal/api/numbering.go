package api

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/epc-forge/doctrack/internal/server"
	"github.com/epc-forge/doctrack/pkg/docnum"
	"github.com/epc-forge/doctrack/pkg/models"
)

// NumberingConfigRequest initializes numbering for a project.
type NumberingConfigRequest struct {
	ProjectCode    string                  `json:"projectCode"`
	Separator      string                  `json:"separator,omitempty"`
	SequenceDigits int                     `json:"sequenceDigits,omitempty"`
	Disciplines    []models.DisciplineCode `json:"disciplines,omitempty"`
}

// NumberingConfigHandler handles numbering configuration for a project.
// Endpoint: GET/POST /api/v1/projects/{projectID}/numbering
func NumberingConfigHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		projectID := r.PathValue("projectID")
		logArgs := []interface{}{
			"path", r.URL.Path,
			"method", r.Method,
			"project_id", projectID,
		}

		switch r.Method {
		case "GET":
			var cfg models.NumberingConfig
			if err := cfg.GetByProjectID(srv.DB, projectID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					http.Error(w, "Numbering not initialized for project", http.StatusNotFound)
					return
				}
				coreError(w, err, srv.Logger.Error, logArgs)
				return
			}
			if err := respondJSON(w, http.StatusOK, cfg); err != nil {
				srv.Logger.Error("error encoding response", append(logArgs, "error", err)...)
			}

		case "POST":
			var req NumberingConfigRequest
			if err := decodeJSON(r, &req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}

			var existing models.NumberingConfig
			err := existing.GetByProjectID(srv.DB, projectID)
			if err == nil {
				http.Error(w, "Numbering already initialized for project", http.StatusConflict)
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				coreError(w, err, srv.Logger.Error, logArgs)
				return
			}

			cfg := models.NumberingConfig{
				ProjectID:      projectID,
				ProjectCode:    req.ProjectCode,
				Separator:      req.Separator,
				SequenceDigits: req.SequenceDigits,
				Disciplines:    req.Disciplines,
			}
			if err := cfg.Create(srv.DB); err != nil {
				srv.Logger.Error("error creating numbering config", append(logArgs, "error", err)...)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			srv.Logger.Info("numbering initialized", logArgs...)
			if err := respondJSON(w, http.StatusCreated, cfg); err != nil {
				srv.Logger.Error("error encoding response", append(logArgs, "error", err)...)
			}

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// NumberingPreviewResponse is the non-committing preview of the next
// sequence number for a counter key.
type NumberingPreviewResponse struct {
	CounterKey   string `json:"counterKey"`
	NextSequence int    `json:"nextSequence"`
	Preview      string `json:"preview"`
}

// NumberingPreviewHandler previews the next document number without
// committing it. The preview is advisory: a concurrent writer may take the
// value before the caller does.
// Endpoint: GET /api/v1/projects/{projectID}/numbering/next
func NumberingPreviewHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		projectID := r.PathValue("projectID")
		logArgs := []interface{}{
			"path", r.URL.Path,
			"method", r.Method,
			"project_id", projectID,
		}

		if r.Method != "GET" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		discipline := r.URL.Query().Get("discipline")
		subCode := r.URL.Query().Get("subCode")
		if discipline == "" {
			http.Error(w, "Query parameter 'discipline' is required", http.StatusBadRequest)
			return
		}

		var cfg models.NumberingConfig
		if err := cfg.GetByProjectID(srv.DB, projectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "Numbering not initialized for project", http.StatusConflict)
				return
			}
			coreError(w, err, srv.Logger.Error, logArgs)
			return
		}

		next, err := srv.Numbering.PeekNextSequence(r.Context(), projectID, discipline, subCode)
		if err != nil {
			coreError(w, err, srv.Logger.Error, logArgs)
			return
		}

		resp := NumberingPreviewResponse{
			CounterKey:   docnum.CounterKey(discipline, subCode, cfg.Separator),
			NextSequence: next,
			Preview:      docnum.Format(cfg.ProjectCode, discipline, subCode, next, cfg.Separator, cfg.SequenceDigits),
		}
		if err := respondJSON(w, http.StatusOK, resp); err != nil {
			srv.Logger.Error("error encoding response", append(logArgs, "error", err)...)
		}
	})
}
