package rag

import (
	"context"

	"go.uber.org/zap"

	"github.com/atlasbank/bankrag/internal/models"
	"github.com/atlasbank/bankrag/pkg/utils"
)

// Retrieve returns the topK most relevant documents for the query. The
// semantic path embeds the query, normalizes it, and searches the vector
// index; when the embedding provider fails or is absent, the lexical ranker
// answers instead. An empty result list means insufficient grounding, never
// an error.
func (s *Service) Retrieve(ctx context.Context, query string, topK int) []*models.RetrievalResult {
	results, _ := s.retrieve(ctx, query, topK, true)
	return results
}

// RetrieveSemantic retrieves without the lexical fallback: an embedding
// provider failure is returned to the caller.
func (s *Service) RetrieveSemantic(ctx context.Context, query string, topK int) ([]*models.RetrievalResult, error) {
	return s.retrieve(ctx, query, topK, false)
}

func (s *Service) retrieve(ctx context.Context, query string, topK int, allowFallback bool) ([]*models.RetrievalResult, error) {
	if topK <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.embedder == nil || s.index == nil || s.index.Size() == 0 {
		if !allowFallback {
			return nil, ErrIndexNotReady
		}
		return s.ranker.Rank(query, s.docs, topK), nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		if !allowFallback {
			return nil, err
		}
		s.logger.Warn("query embedding failed, using lexical fallback", zap.Error(err))
		return s.ranker.Rank(query, s.docs, topK), nil
	}
	utils.NormalizeL2(queryVec)

	scores, positions, err := s.index.Search(queryVec, topK)
	if err != nil {
		if !allowFallback {
			return nil, err
		}
		s.logger.Warn("vector search failed, using lexical fallback", zap.Error(err))
		return s.ranker.Rank(query, s.docs, topK), nil
	}

	results := make([]*models.RetrievalResult, 0, len(positions))
	for i, pos := range positions {
		if pos < 0 || pos >= len(s.docs) {
			// Sentinel slot from an under-filled index.
			continue
		}
		results = append(results, &models.RetrievalResult{
			Document:       s.docs[pos],
			RelevanceScore: utils.Clamp01(scores[i]),
			Rank:           len(results) + 1,
		})
	}
	return results, nil
}
