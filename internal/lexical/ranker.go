// Package lexical provides keyword-based document ranking used when no
// embedding provider is available. Scores are weighted substring and synonym
// matches normalized to [0, 1].
package lexical

import (
	"sort"
	"strings"

	"github.com/atlasbank/bankrag/internal/models"
)

// Scoring weights. The synonym table and these weights encode banking domain
// knowledge; changing them changes degraded-mode ranking quality.
const (
	titleMatchWeight    = 2.0
	contentMatchWeight  = 0.5
	partialMatchWeight  = 0.2
	categoryMatchWeight = 3.0
	synonymMatchWeight  = 1.5

	// partialMinLen is the minimum query word length for subset/superset matching.
	partialMinLen = 5
	// normalizePerWord is the divisor applied per query word before clamping.
	normalizePerWord = 3.0
)

// Ranker scores documents against a query without embeddings.
type Ranker struct{}

// NewRanker returns a lexical ranker.
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank scores every document against the query, discards zero scores, and
// returns the topK results sorted by descending score with 1-based ranks.
// Ties keep document-store order.
func (r *Ranker) Rank(query string, docs []*models.Document, topK int) []*models.RetrievalResult {
	words := Tokenize(query)
	if len(words) == 0 || topK <= 0 {
		return nil
	}

	type scored struct {
		doc   *models.Document
		score float64
	}
	candidates := make([]scored, 0, len(docs))
	for _, doc := range docs {
		if s := r.scoreDocument(words, doc); s > 0 {
			candidates = append(candidates, scored{doc: doc, score: s})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if topK < len(candidates) {
		candidates = candidates[:topK]
	}

	results := make([]*models.RetrievalResult, len(candidates))
	for i, c := range candidates {
		results[i] = &models.RetrievalResult{
			Document:       c.doc,
			RelevanceScore: c.score,
			Rank:           i + 1,
		}
	}
	return results
}

// scoreDocument computes the normalized lexical score of doc for the query words.
func (r *Ranker) scoreDocument(words []string, doc *models.Document) float64 {
	title := strings.ToLower(doc.Title)
	content := strings.ToLower(doc.Content)
	category := strings.ToLower(doc.Category)
	contentWords := uniqueWords(content)

	var raw float64
	for _, w := range words {
		if strings.Contains(title, w) {
			raw += titleMatchWeight
		}
		if n := strings.Count(content, w); n > 0 {
			raw += contentMatchWeight * float64(n)
		}
		if len(w) >= partialMinLen {
			for cw := range contentWords {
				if cw == w {
					continue
				}
				if strings.Contains(cw, w) || strings.Contains(w, cw) {
					raw += partialMatchWeight
				}
			}
		}
		if strings.Contains(category, w) {
			raw += categoryMatchWeight
		}
		for _, group := range wordToGroups[w] {
			if groupAppears(group, title, content) {
				raw += synonymMatchWeight
			}
		}
	}

	score := raw / (float64(len(words)) * normalizePerWord)
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// groupAppears reports whether any member of the synonym group occurs in
// title or content.
func groupAppears(group, title, content string) bool {
	for _, member := range synonymGroups[group] {
		if strings.Contains(title, member) || strings.Contains(content, member) {
			return true
		}
	}
	return false
}
