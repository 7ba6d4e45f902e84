package models

import "fmt"

// RetrieveRequest is a document retrieval request.
type RetrieveRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// Validate checks the request and normalizes TopK against the given bounds.
func (q *RetrieveRequest) Validate(defaultTopK, maxTopK int) error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.TopK <= 0 {
		q.TopK = defaultTopK
	}
	if q.TopK > maxTopK {
		q.TopK = maxTopK
	}
	return nil
}

// AskRequest is a question-answering request.
type AskRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// AskResponse is the answer to a question with its grounding sources.
// Confidence is the top retrieval score, 0 when nothing was retrieved.
type AskResponse struct {
	Query      string      `json:"query"`
	Answer     string      `json:"answer"`
	Sources    []SourceRef `json:"sources"`
	Confidence float64     `json:"confidence"`
}
