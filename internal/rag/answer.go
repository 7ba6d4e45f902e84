package rag

import (
	"context"

	"go.uber.org/zap"

	"github.com/atlasbank/bankrag/internal/chat"
	"github.com/atlasbank/bankrag/internal/models"
)

// Ask runs the full question-answering pipeline: retrieve grounding
// documents, build the prompt, and generate an answer. An empty retrieval
// yields the graceful "insufficient information" answer rather than an error,
// and a completion failure degrades to a statically composed answer.
func (s *Service) Ask(ctx context.Context, query string, topK int) *models.AskResponse {
	results := s.Retrieve(ctx, query, topK)

	resp := &models.AskResponse{
		Query:   query,
		Sources: make([]models.SourceRef, 0, len(results)),
	}
	for _, r := range results {
		resp.Sources = append(resp.Sources, r.Source())
	}
	if len(results) == 0 {
		resp.Answer = chat.NoGroundingAnswer
		return resp
	}
	resp.Confidence = results[0].RelevanceScore

	if s.generator == nil {
		resp.Answer = chat.FallbackAnswer(query, results)
		return resp
	}
	system, user := chat.BuildPrompt(query, results)
	answer, err := s.generator.Complete(ctx, system, user, s.temperature, s.maxTokens)
	if err != nil {
		s.logger.Warn("answer generation failed, using static answer", zap.Error(err))
		resp.Answer = chat.FallbackAnswer(query, results)
		return resp
	}
	resp.Answer = answer
	return resp
}
