package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pincite/pincite"
	"github.com/pincite/pincite/pkg/config"
	"github.com/pincite/pincite/pkg/server/dto"
	"github.com/pincite/pincite/pkg/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := store.NewBadgerStore("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client, err := pincite.NewClient(&pincite.Config{Store: db})
	require.NoError(t, err)

	srv := New(&config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: 0, Mode: "test"},
	}, client)
	srv.Setup()
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func processFixture(t *testing.T, srv *Server) {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/api/v1/documents", dto.ProcessDocumentRequest{
		ID:    "doc-1",
		Title: "Fixture",
		Pages: map[int]string{
			1: "Alpha Beta arrives first. Gamma Delta follows second.\n\nEpsilon rounds out the page.",
			2: "Alpha Gamma travel together.\n\nZeta closes the document neatly.",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/ready", "/live", "/health/detailed"} {
		w := doJSON(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProcessAndGetDocument(t *testing.T) {
	srv := newTestServer(t)
	processFixture(t, srv)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/documents/doc-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var record store.DocumentRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "Fixture", record.Title)
	assert.Equal(t, store.StatusCompleted, record.Status)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/documents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "doc-1")
}

func TestProcessRejectsInvalid(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/documents", map[string]any{"id": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/documents", map[string]any{
		"id":    "x",
		"pages": map[string]string{"-1": "negative page"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMissingDocument(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/api/v1/documents/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer(t)
	processFixture(t, srv)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/documents/doc-1/search", dto.SearchRequest{
		Query: "alpha",
		Mode:  "exact",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "doc-1", resp.DocumentID)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "doc:doc-1:p1.para0.sent0", resp.Results[0].Reference)

	// Unknown document: empty results, not an error.
	w = doJSON(t, srv, http.MethodPost, "/api/v1/documents/ghost/search", dto.SearchRequest{Query: "alpha"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Total)
}

func TestSearchRejectsBadMode(t *testing.T) {
	srv := newTestServer(t)
	processFixture(t, srv)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/documents/doc-1/search", dto.SearchRequest{
		Query: "alpha",
		Mode:  "nonsense",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/documents/doc-1/search", dto.SearchRequest{Query: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestionsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	processFixture(t, srv)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/documents/doc-1/suggestions?q=al", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alpha")

	w = doJSON(t, srv, http.MethodGet, "/api/v1/documents/doc-1/suggestions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNavigationEndpoint(t *testing.T) {
	srv := newTestServer(t)
	processFixture(t, srv)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/documents/doc-1/navigation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "doc:doc-1:p1.para0.sent0")

	w = doJSON(t, srv, http.MethodGet, "/api/v1/documents/ghost/navigation", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveEndpoint(t *testing.T) {
	srv := newTestServer(t)
	processFixture(t, srv)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/citations/resolve", dto.ResolveRequest{
		Reference: "doc:doc-1:p1.para0.sent1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Gamma Delta follows second.")

	w = doJSON(t, srv, http.MethodPost, "/api/v1/citations/resolve", dto.ResolveRequest{
		Reference: "doc:doc-1:p9.para0.sent0",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/citations/resolve", dto.ResolveRequest{
		Reference: "not a reference",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContextEndpoint(t *testing.T) {
	srv := newTestServer(t)
	processFixture(t, srv)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/citations/context", dto.ResolveRequest{
		Reference: "doc:doc-1:p1.para0.sent1",
		Kind:      "paragraph",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Gamma Delta follows second.")

	w = doJSON(t, srv, http.MethodPost, "/api/v1/citations/context", dto.ResolveRequest{
		Reference: "doc:doc-1:p1.para0.sent1",
		Kind:      "chapter",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChildrenEndpoint(t *testing.T) {
	srv := newTestServer(t)
	processFixture(t, srv)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/citations/children?ref=doc:doc-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "doc:doc-1:p1")

	w = doJSON(t, srv, http.MethodGet, "/api/v1/citations/children", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntegrityEndpoint(t *testing.T) {
	srv := newTestServer(t)
	processFixture(t, srv)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/documents/doc-1/integrity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "total_segments")

	w = doJSON(t, srv, http.MethodGet, "/api/v1/documents/ghost/integrity", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOptimizeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	processFixture(t, srv)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/documents/doc-1/optimize", nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestDeleteAndReprocess(t *testing.T) {
	srv := newTestServer(t)
	processFixture(t, srv)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/documents/doc-1/reprocess", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv, http.MethodDelete, "/api/v1/documents/doc-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/documents/doc-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/documents/ghost/reprocess", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	processFixture(t, srv)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "documents")
}
