package kb

import "testing"

func TestDocuments_ValidAndUnique(t *testing.T) {
	docs := Documents()
	if len(docs) == 0 {
		t.Fatal("knowledge base is empty")
	}
	seen := make(map[string]bool)
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			t.Errorf("document %s: %v", doc.ID, err)
		}
		if seen[doc.ID] {
			t.Errorf("duplicate document id %s", doc.ID)
		}
		seen[doc.ID] = true
		if doc.Embedding != nil {
			t.Errorf("document %s: seed documents must not carry embeddings", doc.ID)
		}
	}
}

func TestDocuments_StableOrder(t *testing.T) {
	a := Documents()
	b := Documents()
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("order differs at %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
}
