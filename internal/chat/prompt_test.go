package chat

import (
	"strings"
	"testing"

	"github.com/atlasbank/bankrag/internal/models"
)

func sampleResults() []*models.RetrievalResult {
	return []*models.RetrievalResult{
		{
			Document: &models.Document{
				ID:       "doc_001",
				Title:    "Personal Loan Requirements",
				Content:  "Minimum age of 21 years and a credit score of at least 650.",
				Category: "loans",
				Source:   "lending_policies.pdf",
			},
			RelevanceScore: 0.91,
			Rank:           1,
		},
		{
			Document: &models.Document{
				ID:       "doc_009",
				Title:    "Interest Rates and Fee Structure",
				Content:  "Personal loans 5.99%-24.99% APR.",
				Category: "rates",
				Source:   "rate_sheet.pdf",
			},
			RelevanceScore: 0.74,
			Rank:           2,
		},
	}
}

func TestBuildPrompt(t *testing.T) {
	system, user := BuildPrompt("What are personal loan requirements?", sampleResults())
	if !strings.Contains(system, "banking") {
		t.Error("system prompt missing domain framing")
	}
	if !strings.Contains(user, "Personal Loan Requirements") {
		t.Error("user prompt missing document title")
	}
	if !strings.Contains(user, "Category: loans") {
		t.Error("user prompt missing category")
	}
	if !strings.Contains(user, "What are personal loan requirements?") {
		t.Error("user prompt missing the question")
	}
	if strings.Index(user, "Personal Loan Requirements") > strings.Index(user, "Interest Rates") {
		t.Error("context not in rank order")
	}
}

func TestFallbackAnswer(t *testing.T) {
	answer := FallbackAnswer("loan requirements", sampleResults())
	if !strings.Contains(answer, "Personal Loan Requirements") {
		t.Error("fallback answer missing top document")
	}
}

func TestFallbackAnswer_NoResults(t *testing.T) {
	if got := FallbackAnswer("anything", nil); got != NoGroundingAnswer {
		t.Errorf("got %q", got)
	}
}
