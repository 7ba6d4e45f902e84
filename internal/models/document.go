// Package models defines core data structures for knowledge documents and retrieval results.
package models

import (
	"fmt"
	"time"
)

// Document is a banking knowledge document. The embedding, once attached, is
// stored L2-normalized and its dimension is fixed for the whole store.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"` // e.g. "loans", "accounts", "regulations"
	Source    string    `json:"source"`
	Embedding []float32 `json:"-"`
	DateAdded time.Time `json:"date_added,omitempty"`
}

// Validate checks that all required document fields are present.
func (d *Document) Validate() error {
	switch {
	case d.ID == "":
		return fmt.Errorf("document id cannot be empty")
	case d.Title == "":
		return fmt.Errorf("document title cannot be empty")
	case d.Content == "":
		return fmt.Errorf("document content cannot be empty")
	case d.Category == "":
		return fmt.Errorf("document category cannot be empty")
	case d.Source == "":
		return fmt.Errorf("document source cannot be empty")
	}
	return nil
}

// DocumentInput is the input for adding a document through the API.
// ID is optional; one is generated when absent.
type DocumentInput struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Source   string `json:"source"`
}

// DocumentSummary is the listing view of a document (content omitted).
type DocumentSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	Source        string `json:"source"`
	ContentLength int    `json:"content_length"`
}

// Summary returns the listing view of the document.
func (d *Document) Summary() DocumentSummary {
	return DocumentSummary{
		ID:            d.ID,
		Title:         d.Title,
		Category:      d.Category,
		Source:        d.Source,
		ContentLength: len(d.Content),
	}
}
