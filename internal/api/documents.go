package api

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/epc-forge/doctrack/internal/server"
	"github.com/epc-forge/doctrack/pkg/models"
)

// DocumentCreateRequest creates a new master document. The document number
// is minted by the numbering authority; callers never supply one.
type DocumentCreateRequest struct {
	Title           string   `json:"title"`
	DisciplineCode  string   `json:"disciplineCode"`
	SubCode         string   `json:"subCode,omitempty"`
	CurrentRevision string   `json:"currentRevision,omitempty"`
	AssignedToNames []string `json:"assignedToNames,omitempty"`
}

// DocumentsHandler handles document creation and listing for a project.
// Endpoint: GET/POST /api/v1/projects/{projectID}/documents
func DocumentsHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		projectID := r.PathValue("projectID")
		logArgs := []interface{}{
			"path", r.URL.Path,
			"method", r.Method,
			"project_id", projectID,
		}

		switch r.Method {
		case "GET":
			docs, err := models.GetDocumentsByProject(srv.DB, projectID)
			if err != nil {
				coreError(w, err, srv.Logger.Error, logArgs)
				return
			}
			if err := respondJSON(w, http.StatusOK, docs); err != nil {
				srv.Logger.Error("error encoding response", append(logArgs, "error", err)...)
			}

		case "POST":
			var req DocumentCreateRequest
			if err := decodeJSON(r, &req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}
			if req.Title == "" || req.DisciplineCode == "" {
				http.Error(w, "Fields 'title' and 'disciplineCode' are required", http.StatusBadRequest)
				return
			}

			var cfg models.NumberingConfig
			if err := cfg.GetByProjectID(srv.DB, projectID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					http.Error(w, "Numbering not initialized for project; set up numbering first", http.StatusConflict)
					return
				}
				coreError(w, err, srv.Logger.Error, logArgs)
				return
			}

			number, err := srv.Numbering.Generate(
				r.Context(), projectID, cfg.ProjectCode, req.DisciplineCode, req.SubCode)
			if err != nil {
				coreError(w, err, srv.Logger.Error, logArgs)
				return
			}

			doc := models.MasterDocument{
				ProjectID:       projectID,
				DocumentNumber:  number,
				Title:           req.Title,
				CurrentRevision: req.CurrentRevision,
				AssignedToNames: models.StringList(req.AssignedToNames),
			}
			if err := doc.Create(srv.DB); err != nil {
				srv.Logger.Error("error creating document", append(logArgs, "error", err)...)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			srv.Logger.Info("document created",
				append(logArgs, "document_id", doc.ID, "document_number", number)...)
			if err := respondJSON(w, http.StatusCreated, doc); err != nil {
				srv.Logger.Error("error encoding response", append(logArgs, "error", err)...)
			}

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// DocumentHandler handles retrieval and soft deletion of a single document.
// Endpoint: GET/DELETE /api/v1/projects/{projectID}/documents/{documentID}
func DocumentHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		projectID := r.PathValue("projectID")
		logArgs := []interface{}{
			"path", r.URL.Path,
			"method", r.Method,
			"project_id", projectID,
		}

		docID, err := parseDocumentID(r)
		if err != nil {
			http.Error(w, "Invalid document ID", http.StatusBadRequest)
			return
		}

		switch r.Method {
		case "GET":
			var doc models.MasterDocument
			if err := doc.Get(srv.DB, projectID, docID); err != nil {
				coreError(w, err, srv.Logger.Error, logArgs)
				return
			}
			if err := respondJSON(w, http.StatusOK, doc); err != nil {
				srv.Logger.Error("error encoding response", append(logArgs, "error", err)...)
			}

		case "DELETE":
			var doc models.MasterDocument
			if err := doc.Get(srv.DB, projectID, docID); err != nil {
				coreError(w, err, srv.Logger.Error, logArgs)
				return
			}
			// Soft delete only: other documents' link snapshots keep
			// referencing this row.
			if err := srv.DB.Delete(&doc).Error; err != nil {
				coreError(w, err, srv.Logger.Error, logArgs)
				return
			}
			srv.Logger.Info("document soft-deleted",
				append(logArgs, "document_id", docID)...)
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// DocumentStatusRequest updates a document's status and optionally its
// revision.
type DocumentStatusRequest struct {
	Status          string `json:"status"`
	CurrentRevision string `json:"currentRevision,omitempty"`
}

// DocumentStatusHandler commits a status/revision change and propagates it
// to every document holding a link snapshot of this one.
// Endpoint: PATCH /api/v1/projects/{projectID}/documents/{documentID}/status
func DocumentStatusHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		projectID := r.PathValue("projectID")
		logArgs := []interface{}{
			"path", r.URL.Path,
			"method", r.Method,
			"project_id", projectID,
		}

		if r.Method != "PATCH" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		docID, err := parseDocumentID(r)
		if err != nil {
			http.Error(w, "Invalid document ID", http.StatusBadRequest)
			return
		}

		var req DocumentStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		status, err := models.ParseDocumentStatus(req.Status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var doc models.MasterDocument
		if err := doc.Get(srv.DB, projectID, docID); err != nil {
			coreError(w, err, srv.Logger.Error, logArgs)
			return
		}

		revision := req.CurrentRevision
		if revision == "" {
			revision = doc.CurrentRevision
		}

		if err := srv.DB.Model(&doc).Updates(map[string]interface{}{
			"status":           status,
			"current_revision": revision,
		}).Error; err != nil {
			coreError(w, err, srv.Logger.Error, logArgs)
			return
		}

		if err := srv.Links.PropagateStatusChange(r.Context(), projectID, docID, status, revision); err != nil {
			coreError(w, err, srv.Logger.Error, logArgs)
			return
		}

		srv.Logger.Info("document status updated",
			append(logArgs, "document_id", docID, "status", status, "revision", revision)...)
		if err := doc.Get(srv.DB, projectID, docID); err != nil {
			coreError(w, err, srv.Logger.Error, logArgs)
			return
		}
		if err := respondJSON(w, http.StatusOK, doc); err != nil {
			srv.Logger.Error("error encoding response", append(logArgs, "error", err)...)
		}
	})
}

// DocumentSubmissionsHandler records a client submission: bumps the
// submission counter, moves the document to SUBMITTED, and propagates.
// Endpoint: POST /api/v1/projects/{projectID}/documents/{documentID}/submissions
func DocumentSubmissionsHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		projectID := r.PathValue("projectID")
		logArgs := []interface{}{
			"path", r.URL.Path,
			"method", r.Method,
			"project_id", projectID,
		}

		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		docID, err := parseDocumentID(r)
		if err != nil {
			http.Error(w, "Invalid document ID", http.StatusBadRequest)
			return
		}

		var doc models.MasterDocument
		if err := doc.Get(srv.DB, projectID, docID); err != nil {
			coreError(w, err, srv.Logger.Error, logArgs)
			return
		}

		if err := srv.DB.Model(&doc).Updates(map[string]interface{}{
			"status":           models.StatusSubmitted,
			"submission_count": gorm.Expr("submission_count + 1"),
		}).Error; err != nil {
			coreError(w, err, srv.Logger.Error, logArgs)
			return
		}

		if err := srv.Links.PropagateStatusChange(
			r.Context(), projectID, docID, models.StatusSubmitted, doc.CurrentRevision); err != nil {
			coreError(w, err, srv.Logger.Error, logArgs)
			return
		}

		srv.Logger.Info("submission recorded",
			append(logArgs, "document_id", docID)...)
		if err := doc.Get(srv.DB, projectID, docID); err != nil {
			coreError(w, err, srv.Logger.Error, logArgs)
			return
		}
		if err := respondJSON(w, http.StatusOK, doc); err != nil {
			srv.Logger.Error("error encoding response", append(logArgs, "error", err)...)
		}
	})
}
