// Package rag orchestrates retrieval-augmented question answering over the
// banking knowledge base: the document store, the vector index, the lexical
// fallback ranker, and answer generation.
package rag

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/atlasbank/bankrag/internal/chat"
	"github.com/atlasbank/bankrag/internal/embedding"
	"github.com/atlasbank/bankrag/internal/lexical"
	"github.com/atlasbank/bankrag/internal/models"
	"github.com/atlasbank/bankrag/internal/vector"
)

// DocumentStore persists the document list across restarts.
type DocumentStore interface {
	ReplaceAll(ctx context.Context, docs []*models.Document) error
	LoadAll(ctx context.Context) ([]*models.Document, error)
}

// Options configures a Service. Embedder, Generator, and Store may each be
// nil: without an embedder the service answers through the lexical ranker
// only, without a generator answers are composed statically, and without a
// store nothing is persisted.
type Options struct {
	Embedder  embedding.Embedder
	Generator chat.Generator
	Store     DocumentStore
	Seed      []*models.Document
	IndexPath string
	Dimension int
	Logger    *zap.Logger

	Temperature    float32
	MaxTokens      int
	EmbeddingModel string
	ChatModel      string
}

// Service owns the document store and vector index as one unit of state.
// A single RWMutex serializes maintenance operations against retrieval so
// the positional alignment between documents and index slots always holds.
type Service struct {
	mu    sync.RWMutex
	docs  []*models.Document
	index *vector.Flat

	embedder  embedding.Embedder
	generator chat.Generator
	ranker    *lexical.Ranker
	store     DocumentStore
	seed      []*models.Document
	indexPath string
	dimension int
	logger    *zap.Logger

	temperature    float32
	maxTokens      int
	embeddingModel string
	chatModel      string

	initialized bool
}

// NewService creates a service from opts. Call Initialize before serving.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		embedder:       opts.Embedder,
		generator:      opts.Generator,
		ranker:         lexical.NewRanker(),
		store:          opts.Store,
		seed:           opts.Seed,
		indexPath:      opts.IndexPath,
		dimension:      opts.Dimension,
		logger:         logger,
		temperature:    opts.Temperature,
		maxTokens:      opts.MaxTokens,
		embeddingModel: opts.EmbeddingModel,
		chatModel:      opts.ChatModel,
	}
}

// Initialize loads the persisted index and documents, or builds both from the
// seed corpus when nothing usable is on disk. It always leaves the service in
// a consistent, ready state: with an embedder the index is built, without one
// the service stays lexical-only.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadLocked(ctx) {
		s.logger.Info("knowledge base loaded from disk",
			zap.Int("documents", len(s.docs)),
			zap.Int("index_size", s.index.Size()),
		)
		s.initialized = true
		return nil
	}

	if len(s.docs) == 0 {
		s.docs = append([]*models.Document{}, s.seed...)
		s.logger.Info("seeding knowledge base", zap.Int("documents", len(s.docs)))
	}
	if err := s.rebuildLocked(ctx); err != nil {
		// No provider: stay answerable through the lexical ranker.
		s.logger.Warn("vector index unavailable, running lexical-only", zap.Error(err))
		s.index = nil
	}
	s.saveLocked(ctx)
	s.initialized = true
	return nil
}

// loadLocked attempts to restore both artifacts from disk. Both must load and
// agree on document count, otherwise the caller rebuilds from scratch.
func (s *Service) loadLocked(ctx context.Context) bool {
	if s.store == nil || s.indexPath == "" {
		return false
	}
	docs, err := s.store.LoadAll(ctx)
	if err != nil || len(docs) == 0 {
		if err != nil {
			s.logger.Warn("could not load document store", zap.Error(err))
		}
		return false
	}
	idx, err := vector.LoadFlat(s.indexPath, s.dimension)
	if err != nil {
		s.logger.Warn("could not load vector index", zap.Error(err))
		return false
	}
	if idx.Size() != len(docs) {
		s.logger.Warn("persisted index misaligned with document store",
			zap.Int("index_size", idx.Size()),
			zap.Int("documents", len(docs)),
		)
		return false
	}
	s.docs = docs
	s.index = idx
	return true
}

// DocumentCount returns the number of documents in the store.
func (s *Service) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// IndexSize returns the number of vectors in the index, 0 when not ready.
func (s *Service) IndexSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return 0
	}
	return s.index.Size()
}

// ListDocuments returns a summary of every document in store order.
func (s *Service) ListDocuments() []models.DocumentSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DocumentSummary, len(s.docs))
	for i, doc := range s.docs {
		out[i] = doc.Summary()
	}
	return out
}

// HealthStatus reports service readiness.
type HealthStatus struct {
	Service         string `json:"service"`
	Status          string `json:"status"`
	DocumentsLoaded int    `json:"documents_loaded"`
	IndexReady      bool   `json:"index_ready"`
	EmbeddingModel  string `json:"embedding_model,omitempty"`
	ChatModel       string `json:"chat_model,omitempty"`
}

// Health returns the current health status.
func (s *Service) Health() HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := "healthy"
	if !s.initialized {
		status = "initializing"
	}
	return HealthStatus{
		Service:         "Banking RAG Service",
		Status:          status,
		DocumentsLoaded: len(s.docs),
		IndexReady:      s.index != nil && s.index.Size() > 0,
		EmbeddingModel:  s.embeddingModel,
		ChatModel:       s.chatModel,
	}
}
