package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/atlasbank/bankrag/internal/config"
	"github.com/atlasbank/bankrag/internal/embedding"
	"github.com/atlasbank/bankrag/internal/kb"
	"github.com/atlasbank/bankrag/internal/models"
	"github.com/atlasbank/bankrag/internal/rag"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := rag.NewService(rag.Options{
		Embedder:  embedding.NewMockEmbedder(8),
		Seed:      kb.Documents(),
		IndexPath: filepath.Join(t.TempDir(), "index.bin"),
		Dimension: 8,
	})
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	return NewServer(svc, cfg, zap.NewNop())
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	r := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	return w
}

func TestHandleRetrieve(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/v1/retrieve", models.RetrieveRequest{Query: "personal loan requirements", TopK: 3})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out struct {
		Results []models.RetrievalResult `json:"results"`
		Count   int                      `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Count == 0 || len(out.Results) == 0 {
		t.Error("no results")
	}
	if out.Results[0].Rank != 1 {
		t.Errorf("top rank = %d", out.Results[0].Rank)
	}
}

func TestHandleRetrieve_EmptyQuery(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/v1/retrieve", models.RetrieveRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleAsk(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/v1/ask", models.AskRequest{Query: "What are the personal loan requirements?"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out models.AskResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Answer == "" {
		t.Error("empty answer")
	}
	if len(out.Sources) == 0 {
		t.Error("no sources")
	}
}

func TestHandleAddDocument(t *testing.T) {
	srv := newTestServer(t)
	input := models.DocumentInput{
		Title:    "Wire Transfer Limits",
		Content:  "Domestic wires are limited to $50,000 per business day.",
		Category: "transfers",
		Source:   "transfer_policy.pdf",
	}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/documents", input)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var out map[string]string
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["id"] == "" {
		t.Error("no generated id")
	}
}

func TestHandleAddDocument_Duplicate(t *testing.T) {
	srv := newTestServer(t)
	input := models.DocumentInput{
		ID:       "doc_001",
		Title:    "Duplicate",
		Content:  "Duplicate content.",
		Category: "loans",
		Source:   "dup.pdf",
	}
	w := doJSON(t, srv, http.MethodPost, "/api/v1/documents", input)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestHandleAddDocument_MissingFields(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/v1/documents", models.DocumentInput{Title: "No content"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRemoveDocument(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodDelete, "/api/v1/documents/doc_001", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	w = doJSON(t, srv, http.MethodDelete, "/api/v1/documents/doc_001", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestHandleListDocuments(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/api/v1/documents", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out struct {
		Documents []models.DocumentSummary `json:"documents"`
		Count     int                      `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Count != len(kb.Documents()) {
		t.Errorf("count = %d, want %d", out.Count, len(kb.Documents()))
	}
}

func TestHandleRebuild(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/v1/index/rebuild", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out rag.HealthStatus
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != "healthy" || !out.IndexReady {
		t.Errorf("health = %+v", out)
	}
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/api/v1/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out rag.HealthStatus
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.DocumentsLoaded != len(kb.Documents()) {
		t.Errorf("documents_loaded = %d", out.DocumentsLoaded)
	}
}

func TestHandleRetrieve_BadBody(t *testing.T) {
	srv := newTestServer(t)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/retrieve", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
