package rag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/atlasbank/bankrag/internal/embedding"
	"github.com/atlasbank/bankrag/internal/models"
	"github.com/atlasbank/bankrag/internal/vector"
	"github.com/atlasbank/bankrag/pkg/utils"
)

// ErrIndexNotReady is returned by strict retrieval when no vector index is
// available.
var ErrIndexNotReady = errors.New("rag: vector index not ready")

// AddDocument embeds and indexes a new document. A duplicate ID returns
// (false, nil). Unlike retrieval, indexing has no lexical fallback: an
// embedding failure is returned, because an un-embedded document would break
// the positional alignment between store and index.
func (s *Service) AddDocument(ctx context.Context, doc *models.Document) (bool, error) {
	if err := doc.Validate(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.docs {
		if existing.ID == doc.ID {
			s.logger.Debug("duplicate document id rejected", zap.String("id", doc.ID))
			return false, nil
		}
	}

	if s.embedder == nil {
		return false, fmt.Errorf("%w: cannot index document %s", embedding.ErrUnavailable, doc.ID)
	}
	vec, err := s.embedder.Embed(ctx, doc.Content)
	if err != nil {
		return false, fmt.Errorf("embed document %s: %w", doc.ID, err)
	}
	utils.NormalizeL2(vec)
	doc.Embedding = vec
	if doc.DateAdded.IsZero() {
		doc.DateAdded = time.Now()
	}

	if s.index == nil {
		idx, err := vector.NewFlat(s.dimension)
		if err != nil {
			return false, err
		}
		s.index = idx
	}
	if err := s.index.Add([][]float32{vec}); err != nil {
		return false, fmt.Errorf("index document %s: %w", doc.ID, err)
	}
	s.docs = append(s.docs, doc)

	s.saveLocked(ctx)
	s.logger.Info("document added", zap.String("id", doc.ID), zap.String("title", doc.Title))
	return true, nil
}

// RemoveDocument removes a document by ID and fully rebuilds the vector
// index; a flat inner-product index has no efficient single-vector delete,
// and every position after the removed one would shift anyway. A missing ID
// returns (false, nil).
func (s *Service) RemoveDocument(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := -1
	for i, doc := range s.docs {
		if doc.ID == id {
			at = i
			break
		}
	}
	if at < 0 {
		s.logger.Debug("remove of unknown document id", zap.String("id", id))
		return false, nil
	}
	s.docs = append(s.docs[:at], s.docs[at+1:]...)

	if err := s.rebuildLocked(ctx); err != nil {
		// The removal stands; the index is simply not ready until the
		// provider is back and RebuildIndex succeeds.
		s.logger.Warn("index rebuild after removal failed", zap.Error(err))
		s.index = nil
	}
	s.saveLocked(ctx)
	s.logger.Info("document removed", zap.String("id", id))
	return true, nil
}

// RebuildIndex recomputes embeddings for documents lacking one, recreates the
// vector index, and re-adds every stored vector in store order. Calling it
// twice without document changes yields an identical index.
func (s *Service) RebuildIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rebuildLocked(ctx); err != nil {
		return err
	}
	s.saveLocked(ctx)
	return nil
}

// rebuildLocked rebuilds the index under the write lock. Stored embeddings
// are already normalized and are reused as-is; only documents without one go
// to the provider.
func (s *Service) rebuildLocked(ctx context.Context) error {
	var missing []*models.Document
	for _, doc := range s.docs {
		if doc.Embedding == nil {
			missing = append(missing, doc)
		}
	}
	if len(missing) > 0 {
		if s.embedder == nil {
			return fmt.Errorf("%w: %d documents need embeddings", embedding.ErrUnavailable, len(missing))
		}
		texts := make([]string, len(missing))
		for i, doc := range missing {
			texts[i] = doc.Content
		}
		vecs, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed %d documents: %w", len(missing), err)
		}
		for i, doc := range missing {
			utils.NormalizeL2(vecs[i])
			doc.Embedding = vecs[i]
		}
	}

	idx, err := vector.NewFlat(s.dimension)
	if err != nil {
		return err
	}
	for _, doc := range s.docs {
		if err := idx.Add([][]float32{doc.Embedding}); err != nil {
			return fmt.Errorf("index document %s: %w", doc.ID, err)
		}
	}
	s.index = idx
	s.logger.Info("vector index rebuilt", zap.Int("documents", len(s.docs)))
	return nil
}

// saveLocked persists both artifacts. Persistence is best-effort: failures
// are logged and swallowed, the in-memory state stays authoritative.
func (s *Service) saveLocked(ctx context.Context) {
	if s.index != nil && s.indexPath != "" {
		if err := s.index.Save(s.indexPath); err != nil {
			s.logger.Warn("could not save vector index", zap.Error(err))
		}
	}
	if s.store != nil {
		if err := s.store.ReplaceAll(ctx, s.docs); err != nil {
			s.logger.Warn("could not save document store", zap.Error(err))
		}
	}
}
