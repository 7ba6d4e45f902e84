package e2e

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
	"github.com/atlasbank/bankrag/internal/models"
	"github.com/atlasbank/bankrag/internal/rag"
	"github.com/atlasbank/bankrag/internal/server"
	"github.com/atlasbank/bankrag/internal/storage"
)

const e2eDimensions = 8

func threeDocCorpus() []*models.Document {
	return []*models.Document{
		{
			ID:       "doc_001",
			Title:    "Personal Loan Requirements",
			Content:  "Personal loan requirements include minimum age of 21 and a credit score of at least 650.",
			Category: "loans",
			Source:   "lending_policies.pdf",
		},
		{
			ID:       "doc_002",
			Title:    "Savings Account Features",
			Content:  "Savings accounts offer competitive interest rates and no monthly maintenance fees.",
			Category: "accounts",
			Source:   "product_guide.pdf",
		},
		{
			ID:       "doc_003",
			Title:    "Mobile Banking Security",
			Content:  "Mobile banking uses multi-factor authentication and continuous fraud monitoring.",
			Category: "security",
			Source:   "security_manual.pdf",
		},
	}
}

func newService(t *testing.T, embedder embedding.Embedder) *rag.Service {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewSQLiteStore(filepath.Join(dir, "documents.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	svc := rag.NewService(rag.Options{
		Embedder:  embedder,
		Store:     store,
		Seed:      threeDocCorpus(),
		IndexPath: filepath.Join(dir, "index.bin"),
		Dimension: e2eDimensions,
	})
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestE2E_LexicalFallbackRanksLoanDocumentFirst(t *testing.T) {
	// No embedding provider at all: retrieval must still answer through the
	// lexical ranker, and the category match has the heaviest weight.
	svc := newService(t, nil)

	results := svc.Retrieve(context.Background(), "What are personal loan requirements?", 3)
	if len(results) == 0 {
		t.Fatal("no results from lexical fallback")
	}
	if results[0].Document.ID != "doc_001" {
		t.Errorf("top document = %s (%s), want doc_001", results[0].Document.ID, results[0].Document.Title)
	}
}

func TestE2E_DuplicateAddIsRejected(t *testing.T) {
	svc := newService(t, embedding.NewMockEmbedder(e2eDimensions))

	dup := &models.Document{
		ID:       "doc_003",
		Title:    "Different Title",
		Content:  "Completely different content.",
		Category: "security",
		Source:   "other.pdf",
	}
	added, err := svc.AddDocument(context.Background(), dup)
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Error("duplicate id was accepted")
	}
	if svc.DocumentCount() != 3 {
		t.Errorf("document count = %d, want 3", svc.DocumentCount())
	}
}

func TestE2E_RemovedDocumentNeverComesBack(t *testing.T) {
	svc := newService(t, embedding.NewMockEmbedder(e2eDimensions))
	ctx := context.Background()

	removed, err := svc.RemoveDocument(ctx, "doc_002")
	if err != nil || !removed {
		t.Fatalf("RemoveDocument = %v, %v", removed, err)
	}
	if svc.DocumentCount() != 2 {
		t.Errorf("document count = %d, want 2", svc.DocumentCount())
	}

	queries := []string{
		"Savings accounts offer competitive interest rates and no monthly maintenance fees.",
		"savings account interest rates",
		"monthly maintenance fees",
	}
	for _, q := range queries {
		for _, r := range svc.Retrieve(ctx, q, 3) {
			if r.Document.ID == "doc_002" {
				t.Errorf("query %q returned removed document", q)
			}
		}
	}
}

func TestE2E_StateSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "documents.db")
	indexPath := filepath.Join(dir, "index.bin")
	ctx := context.Background()

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	first := rag.NewService(rag.Options{
		Embedder:  embedding.NewMockEmbedder(e2eDimensions),
		Store:     store,
		Seed:      threeDocCorpus(),
		IndexPath: indexPath,
		Dimension: e2eDimensions,
	})
	if err := first.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := first.AddDocument(ctx, &models.Document{
		ID: "doc_004", Title: "Wire Transfer Limits",
		Content:  "Domestic wires are limited to $50,000 per business day.",
		Category: "transfers", Source: "transfer_policy.pdf",
	}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	// Restart without an embedder: everything must come from disk.
	store2, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store2.Close()
	second := rag.NewService(rag.Options{
		Store:     store2,
		Seed:      threeDocCorpus(),
		IndexPath: indexPath,
		Dimension: e2eDimensions,
	})
	if err := second.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if second.DocumentCount() != 4 || second.IndexSize() != 4 {
		t.Errorf("restart state: %d docs, index %d, want 4/4", second.DocumentCount(), second.IndexSize())
	}
}

func TestE2E_HTTPAskRoundTrip(t *testing.T) {
	svc := newService(t, nil)
	srv := server.NewServer(svc, config.Default(), zap.NewNop())
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	body, _ := json.Marshal(models.AskRequest{Query: "What are personal loan requirements?"})
	resp, err := http.Post(ts.URL+"/api/v1/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out models.AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Answer == "" {
		t.Error("empty answer")
	}
	if len(out.Sources) == 0 || out.Sources[0].Category != "loans" {
		t.Errorf("sources = %+v", out.Sources)
	}
}
