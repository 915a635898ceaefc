package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epc-forge/doctrack/pkg/docnum"
	"github.com/epc-forge/doctrack/pkg/linkgraph"
)

// respondJSON writes v as a JSON response body.
func respondJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseDocumentID parses the {documentID} path segment.
func parseDocumentID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("documentID"))
}

// errorStatusCode maps core errors onto HTTP status codes. Every failure
// from the core surfaces as a specific message; nothing is swallowed.
func errorStatusCode(err error) int {
	var circErr *linkgraph.CircularDependencyError
	switch {
	case errors.Is(err, docnum.ErrNotInitialized):
		return http.StatusConflict
	case errors.As(err, &circErr):
		return http.StatusConflict
	case errors.Is(err, linkgraph.ErrDuplicateLink):
		return http.StatusConflict
	case errors.Is(err, linkgraph.ErrNotFound),
		errors.Is(err, linkgraph.ErrLinkNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// coreError logs err and writes it to the client with the mapped status.
// Internal errors get a generic message; domain errors are surfaced
// verbatim so the UI can present them.
func coreError(w http.ResponseWriter, err error, log func(msg string, args ...interface{}), logArgs []interface{}) {
	status := errorStatusCode(err)
	log("request failed", append(logArgs, "error", err, "status", status)...)
	if status == http.StatusInternalServerError {
		http.Error(w, "Internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
