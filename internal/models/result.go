package models

// RetrievalResult is a single ranked retrieval hit. The document is a shared
// reference into the store, not a copy.
type RetrievalResult struct {
	Document       *Document `json:"document"`
	RelevanceScore float64   `json:"relevance_score"` // in [0, 1]
	Rank           int       `json:"rank"`            // 1-based
}

// SourceRef is the citation view of a retrieval hit used in answers.
type SourceRef struct {
	Title          string  `json:"title"`
	Category       string  `json:"category"`
	Source         string  `json:"source"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Source returns the citation view of the result.
func (r *RetrievalResult) Source() SourceRef {
	return SourceRef{
		Title:          r.Document.Title,
		Category:       r.Document.Category,
		Source:         r.Document.Source,
		RelevanceScore: r.RelevanceScore,
	}
}
