package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/atlasbank/bankrag/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "docs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []*models.Document{
		{
			ID:        "doc_001",
			Title:     "Personal Loan Requirements",
			Content:   "Minimum age of 21 years.",
			Category:  "loans",
			Source:    "lending_policies.pdf",
			Embedding: []float32{0.6, 0.8},
			DateAdded: time.Date(2025, 8, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:       "doc_002",
			Title:    "Savings Account Features",
			Content:  "Competitive interest rates.",
			Category: "accounts",
			Source:   "product_guide.pdf",
		},
	}
	if err := store.ReplaceAll(ctx, docs); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d documents, want 2", len(loaded))
	}
	if loaded[0].ID != "doc_001" || loaded[1].ID != "doc_002" {
		t.Errorf("order not preserved: %s, %s", loaded[0].ID, loaded[1].ID)
	}
	if len(loaded[0].Embedding) != 2 || loaded[0].Embedding[0] != 0.6 {
		t.Errorf("embedding not preserved: %v", loaded[0].Embedding)
	}
	if loaded[1].Embedding != nil {
		t.Errorf("expected nil embedding, got %v", loaded[1].Embedding)
	}
	if !loaded[0].DateAdded.Equal(docs[0].DateAdded) {
		t.Errorf("date_added = %v, want %v", loaded[0].DateAdded, docs[0].DateAdded)
	}
}

func TestSQLiteStore_ReplaceAllOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := []*models.Document{
		{ID: "a", Title: "A", Content: "a", Category: "loans", Source: "a.pdf"},
		{ID: "b", Title: "B", Content: "b", Category: "rates", Source: "b.pdf"},
	}
	if err := store.ReplaceAll(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := []*models.Document{
		{ID: "c", Title: "C", Content: "c", Category: "credit", Source: "c.pdf"},
	}
	if err := store.ReplaceAll(ctx, second); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].ID != "c" {
		t.Errorf("got %d docs, first %v", len(loaded), loaded[0])
	}

	n, err := store.CountDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestSQLiteStore_EmptyLoad(t *testing.T) {
	store := newTestStore(t)
	loaded, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty store, got %d", len(loaded))
	}
}
