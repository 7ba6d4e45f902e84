package chat

import (
	"fmt"
	"strings"

	"github.com/atlasbank/bankrag/internal/models"
)

// systemPrompt frames the assistant for banking policy questions.
const systemPrompt = `You are a knowledgeable banking and financial services assistant.
Use the provided context to answer customer questions accurately and helpfully.

Guidelines:
- Provide specific, actionable information based on the context
- Include relevant details like requirements, rates, or processes
- If information is not in the context, say so clearly
- Maintain a professional, helpful tone
- Cite specific policies or requirements when applicable
- For sensitive financial matters, recommend speaking with a specialist`

// NoGroundingAnswer is returned when retrieval produced nothing to ground an
// answer on.
const NoGroundingAnswer = "I apologize, but I couldn't find relevant information to answer your question. Please contact our customer service for assistance."

// BuildPrompt assembles the user prompt from the query and its retrieved
// context, and returns the matching system prompt.
func BuildPrompt(query string, results []*models.RetrievalResult) (system, user string) {
	var parts []string
	for _, r := range results {
		doc := r.Document
		parts = append(parts, fmt.Sprintf("Document: %s\nCategory: %s\nContent: %s", doc.Title, doc.Category, doc.Content))
	}
	context := strings.Join(parts, "\n\n")

	user = fmt.Sprintf(`Context Information:
%s

Customer Question: %s

Please provide a comprehensive answer based on the context above.`, context, query)
	return systemPrompt, user
}

// FallbackAnswer composes a static answer from the top retrieved document,
// used when no completion provider is configured.
func FallbackAnswer(query string, results []*models.RetrievalResult) string {
	if len(results) == 0 {
		return NoGroundingAnswer
	}
	top := results[0].Document
	content := top.Content
	if len(content) > 300 {
		content = content[:300] + "..."
	}
	return fmt.Sprintf(`Based on our banking policies and procedures, here's information about your question: %q

**%s** (Category: %s)

%s

For more detailed information and personalized assistance, I recommend speaking with one of our banking specialists.`, query, top.Title, top.Category, content)
}
