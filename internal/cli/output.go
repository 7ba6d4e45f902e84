// Package cli formats command output for the bankrag client commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/atlasbank/bankrag/internal/models"
	"github.com/atlasbank/bankrag/internal/rag"
	"github.com/atlasbank/bankrag/pkg/utils"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseFormat maps a flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "text":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q; use text or json", s)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteAskResponse writes an answer with its sources.
func WriteAskResponse(w io.Writer, resp *models.AskResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, resp)
	}
	fmt.Fprintf(w, "\n%s\n", resp.Answer)
	if len(resp.Sources) > 0 {
		fmt.Fprintf(w, "\nSources (confidence %.2f):\n", resp.Confidence)
		for _, src := range resp.Sources {
			fmt.Fprintf(w, "  - %s [%s] (%s, score %.3f)\n", src.Title, src.Category, src.Source, src.RelevanceScore)
		}
	}
	fmt.Fprintln(w)
	return nil
}

// WriteRetrievalResults writes ranked retrieval hits.
func WriteRetrievalResults(w io.Writer, results []*models.RetrievalResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, results)
	}
	if len(results) == 0 {
		fmt.Fprintln(w, "No relevant documents found.")
		return nil
	}
	fmt.Fprintf(w, "\nFound %d document(s)\n\n", len(results))
	for _, r := range results {
		fmt.Fprintf(w, "%d. %s [%s] score %.3f\n", r.Rank, r.Document.Title, r.Document.Category, r.RelevanceScore)
		fmt.Fprintf(w, "   %s\n", utils.Truncate(r.Document.Content, 200))
		fmt.Fprintf(w, "   source: %s\n\n", r.Document.Source)
	}
	return nil
}

// WriteDocumentList writes document summaries.
func WriteDocumentList(w io.Writer, docs []models.DocumentSummary, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, docs)
	}
	fmt.Fprintf(w, "%d document(s)\n", len(docs))
	for _, d := range docs {
		fmt.Fprintf(w, "  %-24s %-14s %s (%d chars)\n", d.ID, d.Category, d.Title, d.ContentLength)
	}
	return nil
}

// WriteStatus writes service health.
func WriteStatus(w io.Writer, h *rag.HealthStatus, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, h)
	}
	fmt.Fprintf(w, "service:           %s\n", h.Service)
	fmt.Fprintf(w, "status:            %s\n", h.Status)
	fmt.Fprintf(w, "documents_loaded:  %d\n", h.DocumentsLoaded)
	fmt.Fprintf(w, "index_ready:       %t\n", h.IndexReady)
	if h.EmbeddingModel != "" {
		fmt.Fprintf(w, "embedding_model:   %s\n", h.EmbeddingModel)
	}
	if h.ChatModel != "" {
		fmt.Fprintf(w, "chat_model:        %s\n", h.ChatModel)
	}
	return nil
}
