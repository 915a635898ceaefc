package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/epc-forge/doctrack/internal/config"
	"github.com/epc-forge/doctrack/internal/server"
	"github.com/epc-forge/doctrack/pkg/linkgraph"
	"github.com/epc-forge/doctrack/pkg/models"
)

func newTestServer(t *testing.T) (server.Server, *http.ServeMux) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.ModelsToAutoMigrate()...))

	srv := server.New(config.Default(), db, hclog.NewNullLogger())
	return srv, NewRouter(srv)
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v))
}

func initNumbering(t *testing.T, mux *http.ServeMux, projectID, projectCode string) {
	t.Helper()

	w := doRequest(t, mux, "POST", "/api/v1/projects/"+projectID+"/numbering",
		NumberingConfigRequest{
			ProjectCode: projectCode,
			Disciplines: []models.DisciplineCode{
				{Code: "01", Name: "Process", IsActive: true},
				{Code: "02", Name: "Mechanical", IsActive: true},
			},
		})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func createDocument(t *testing.T, mux *http.ServeMux, projectID, title, discipline string) *models.MasterDocument {
	t.Helper()

	w := doRequest(t, mux, "POST", "/api/v1/projects/"+projectID+"/documents",
		DocumentCreateRequest{Title: title, DisciplineCode: discipline})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var doc models.MasterDocument
	decodeBody(t, w, &doc)
	return &doc
}

func TestNumberingConfigHandler(t *testing.T) {
	t.Run("initialize then fetch", func(t *testing.T) {
		_, mux := newTestServer(t)

		w := doRequest(t, mux, "GET", "/api/v1/projects/proj1/numbering", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		initNumbering(t, mux, "proj1", "PRJ")

		w = doRequest(t, mux, "GET", "/api/v1/projects/proj1/numbering", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var cfg models.NumberingConfig
		decodeBody(t, w, &cfg)
		assert.Equal(t, "PRJ", cfg.ProjectCode)
		assert.Equal(t, "-", cfg.Separator)
		assert.Equal(t, 3, cfg.SequenceDigits)
		assert.Len(t, cfg.Disciplines, 2)
	})

	t.Run("double initialization conflicts", func(t *testing.T) {
		_, mux := newTestServer(t)
		initNumbering(t, mux, "proj1", "PRJ")

		w := doRequest(t, mux, "POST", "/api/v1/projects/proj1/numbering",
			NumberingConfigRequest{ProjectCode: "OTHER"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing project code", func(t *testing.T) {
		_, mux := newTestServer(t)

		w := doRequest(t, mux, "POST", "/api/v1/projects/proj1/numbering",
			NumberingConfigRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNumberingPreviewHandler(t *testing.T) {
	_, mux := newTestServer(t)
	initNumbering(t, mux, "proj1", "PRJ")

	w := doRequest(t, mux, "GET", "/api/v1/projects/proj1/numbering/next?discipline=01", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp NumberingPreviewResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "01", resp.CounterKey)
	assert.Equal(t, 1, resp.NextSequence)
	assert.Equal(t, "PRJ-01-001", resp.Preview)

	// Preview does not consume the sequence.
	w = doRequest(t, mux, "GET", "/api/v1/projects/proj1/numbering/next?discipline=01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, 1, resp.NextSequence)

	t.Run("missing discipline parameter", func(t *testing.T) {
		w := doRequest(t, mux, "GET", "/api/v1/projects/proj1/numbering/next", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("uninitialized project", func(t *testing.T) {
		w := doRequest(t, mux, "GET", "/api/v1/projects/proj2/numbering/next?discipline=01", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestDocumentsHandler(t *testing.T) {
	t.Run("create mints sequential numbers", func(t *testing.T) {
		_, mux := newTestServer(t)
		initNumbering(t, mux, "proj1", "PRJ")

		doc1 := createDocument(t, mux, "proj1", "Process Flow Diagram", "01")
		doc2 := createDocument(t, mux, "proj1", "P&ID", "01")

		assert.Equal(t, "PRJ-01-001", doc1.DocumentNumber)
		assert.Equal(t, "PRJ-01-002", doc2.DocumentNumber)
		assert.Equal(t, models.StatusDraft, doc1.Status)
		assert.Equal(t, "A", doc1.CurrentRevision)

		w := doRequest(t, mux, "GET", "/api/v1/projects/proj1/documents", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var docs []models.MasterDocument
		decodeBody(t, w, &docs)
		assert.Len(t, docs, 2)
	})

	t.Run("create before numbering initialized", func(t *testing.T) {
		_, mux := newTestServer(t)

		w := doRequest(t, mux, "POST", "/api/v1/projects/proj1/documents",
			DocumentCreateRequest{Title: "Doc", DisciplineCode: "01"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing required fields", func(t *testing.T) {
		_, mux := newTestServer(t)
		initNumbering(t, mux, "proj1", "PRJ")

		w := doRequest(t, mux, "POST", "/api/v1/projects/proj1/documents",
			DocumentCreateRequest{Title: "No Discipline"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDocumentHandler(t *testing.T) {
	_, mux := newTestServer(t)
	initNumbering(t, mux, "proj1", "PRJ")
	doc := createDocument(t, mux, "proj1", "Doc A", "01")

	base := "/api/v1/projects/proj1/documents/" + doc.ID.String()

	t.Run("get", func(t *testing.T) {
		w := doRequest(t, mux, "GET", base, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got models.MasterDocument
		decodeBody(t, w, &got)
		assert.Equal(t, doc.ID, got.ID)
		assert.Equal(t, doc.DocumentNumber, got.DocumentNumber)
	})

	t.Run("invalid ID", func(t *testing.T) {
		w := doRequest(t, mux, "GET", "/api/v1/projects/proj1/documents/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown ID", func(t *testing.T) {
		w := doRequest(t, mux, "GET", "/api/v1/projects/proj1/documents/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("soft delete", func(t *testing.T) {
		w := doRequest(t, mux, "DELETE", base, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(t, mux, "GET", base, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDocumentStatusHandler(t *testing.T) {
	_, mux := newTestServer(t)
	initNumbering(t, mux, "proj1", "PRJ")
	a := createDocument(t, mux, "proj1", "Doc A", "01")
	b := createDocument(t, mux, "proj1", "Doc B", "01")

	// b depends on a.
	w := doRequest(t, mux, "POST",
		"/api/v1/projects/proj1/documents/"+b.ID.String()+"/links",
		DocumentLinkRequest{TargetID: a.ID.String(), LinkType: "PREREQUISITE"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(t, mux, "PATCH",
		"/api/v1/projects/proj1/documents/"+a.ID.String()+"/status",
		DocumentStatusRequest{Status: "approved", CurrentRevision: "B"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.MasterDocument
	decodeBody(t, w, &updated)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.Equal(t, "B", updated.CurrentRevision)

	// The snapshot on b reflects the change.
	w = doRequest(t, mux, "GET", "/api/v1/projects/proj1/documents/"+b.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.MasterDocument
	decodeBody(t, w, &got)
	require.Len(t, got.Predecessors, 1)
	assert.Equal(t, models.StatusApproved, got.Predecessors[0].Status)
	assert.Equal(t, "B", got.Predecessors[0].CurrentRevision)

	t.Run("invalid status", func(t *testing.T) {
		w := doRequest(t, mux, "PATCH",
			"/api/v1/projects/proj1/documents/"+a.ID.String()+"/status",
			DocumentStatusRequest{Status: "archived"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDocumentSubmissionsHandler(t *testing.T) {
	_, mux := newTestServer(t)
	initNumbering(t, mux, "proj1", "PRJ")
	doc := createDocument(t, mux, "proj1", "Doc A", "01")

	path := "/api/v1/projects/proj1/documents/" + doc.ID.String() + "/submissions"

	for i := 1; i <= 2; i++ {
		w := doRequest(t, mux, "POST", path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got models.MasterDocument
		decodeBody(t, w, &got)
		assert.Equal(t, models.StatusSubmitted, got.Status)
		assert.Equal(t, i, got.SubmissionCount)
	}
}

func TestDocumentLinksHandler(t *testing.T) {
	_, mux := newTestServer(t)
	initNumbering(t, mux, "proj1", "PRJ")
	a := createDocument(t, mux, "proj1", "Doc A", "01")
	b := createDocument(t, mux, "proj1", "Doc B", "01")

	linksPath := func(id uuid.UUID) string {
		return "/api/v1/projects/proj1/documents/" + id.String() + "/links"
	}

	w := doRequest(t, mux, "POST", linksPath(a.ID),
		DocumentLinkRequest{TargetID: b.ID.String(), LinkType: "prerequisite"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("duplicate conflicts", func(t *testing.T) {
		w := doRequest(t, mux, "POST", linksPath(a.ID),
			DocumentLinkRequest{TargetID: b.ID.String(), LinkType: "PREREQUISITE"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("cycle conflicts", func(t *testing.T) {
		w := doRequest(t, mux, "POST", linksPath(b.ID),
			DocumentLinkRequest{TargetID: a.ID.String(), LinkType: "PREREQUISITE"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown target", func(t *testing.T) {
		w := doRequest(t, mux, "POST", linksPath(a.ID),
			DocumentLinkRequest{TargetID: uuid.NewString(), LinkType: "RELATED"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid link type", func(t *testing.T) {
		w := doRequest(t, mux, "POST", linksPath(a.ID),
			DocumentLinkRequest{TargetID: b.ID.String(), LinkType: "sibling"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("remove", func(t *testing.T) {
		w := doRequest(t, mux, "DELETE", linksPath(a.ID),
			DocumentLinkRequest{TargetID: b.ID.String(), LinkType: "PREREQUISITE"})
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(t, mux, "DELETE", linksPath(a.ID),
			DocumentLinkRequest{TargetID: b.ID.String(), LinkType: "PREREQUISITE"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDocumentReadinessHandler(t *testing.T) {
	_, mux := newTestServer(t)
	initNumbering(t, mux, "proj1", "PRJ")
	a := createDocument(t, mux, "proj1", "Doc A", "01")
	b := createDocument(t, mux, "proj1", "Doc B", "01")

	w := doRequest(t, mux, "POST",
		"/api/v1/projects/proj1/documents/"+a.ID.String()+"/links",
		DocumentLinkRequest{TargetID: b.ID.String(), LinkType: "PREREQUISITE"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	readinessPath := "/api/v1/projects/proj1/documents/" + a.ID.String() + "/readiness"

	w = doRequest(t, mux, "GET", readinessPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var r linkgraph.Readiness
	decodeBody(t, w, &r)
	assert.False(t, r.AllCompleted)
	require.Len(t, r.PendingPredecessors, 1)
	assert.Equal(t, b.ID, r.PendingPredecessors[0].MasterDocumentID)

	// Approve the predecessor; the gate opens.
	w = doRequest(t, mux, "PATCH",
		"/api/v1/projects/proj1/documents/"+b.ID.String()+"/status",
		DocumentStatusRequest{Status: "APPROVED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, mux, "GET", readinessPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &r)
	assert.True(t, r.AllCompleted)
	assert.Empty(t, r.PendingPredecessors)
}

func TestHealthHandler(t *testing.T) {
	_, mux := newTestServer(t)

	w := doRequest(t, mux, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "ok", resp["status"])
}
