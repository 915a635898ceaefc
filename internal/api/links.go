package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/epc-forge/doctrack/internal/server"
	"github.com/epc-forge/doctrack/pkg/models"
)

// DocumentLinkRequest creates or removes a dependency edge from the
// document in the URL to the target document.
type DocumentLinkRequest struct {
	TargetID string `json:"targetId"`
	LinkType string `json:"linkType"`
}

// DocumentLinksHandler handles link creation and removal.
// Endpoint: POST/DELETE /api/v1/projects/{projectID}/documents/{documentID}/links
func DocumentLinksHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		projectID := r.PathValue("projectID")
		logArgs := []interface{}{
			"path", r.URL.Path,
			"method", r.Method,
			"project_id", projectID,
		}

		if r.Method != "POST" && r.Method != "DELETE" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		sourceID, err := parseDocumentID(r)
		if err != nil {
			http.Error(w, "Invalid document ID", http.StatusBadRequest)
			return
		}

		var req DocumentLinkRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		targetID, err := uuid.Parse(req.TargetID)
		if err != nil {
			http.Error(w, "Invalid target document ID", http.StatusBadRequest)
			return
		}
		linkType, err := models.ParseLinkType(req.LinkType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logArgs = append(logArgs,
			"source_id", sourceID,
			"target_id", targetID,
			"link_type", linkType,
		)

		switch r.Method {
		case "POST":
			if err := srv.Links.CreateLink(r.Context(), projectID, sourceID, targetID, linkType); err != nil {
				coreError(w, err, srv.Logger.Error, logArgs)
				return
			}
			srv.Logger.Info("link created", logArgs...)
			w.WriteHeader(http.StatusCreated)

		case "DELETE":
			if err := srv.Links.RemoveLink(r.Context(), projectID, sourceID, targetID, linkType); err != nil {
				coreError(w, err, srv.Logger.Error, logArgs)
				return
			}
			srv.Logger.Info("link removed", logArgs...)
			w.WriteHeader(http.StatusNoContent)
		}
	})
}

// DocumentReadinessHandler reports whether a document's predecessors are
// all completed, for the readiness banner in the links view.
// Endpoint: GET /api/v1/projects/{projectID}/documents/{documentID}/readiness
func DocumentReadinessHandler(srv server.Server) http.Handler {
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

		docID, err := parseDocumentID(r)
		if err != nil {
			http.Error(w, "Invalid document ID", http.StatusBadRequest)
			return
		}

		readiness, err := srv.Links.CheckPredecessorsCompleted(r.Context(), projectID, docID)
		if err != nil {
			coreError(w, err, srv.Logger.Error, logArgs)
			return
		}
		if err := respondJSON(w, http.StatusOK, readiness); err != nil {
			srv.Logger.Error("error encoding response", append(logArgs, "error", err)...)
		}
	})
}
