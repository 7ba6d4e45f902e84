package watcher

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/atlasbank/bankrag/internal/extract"
	"github.com/atlasbank/bankrag/internal/fileid"
	"github.com/atlasbank/bankrag/internal/models"
	"github.com/atlasbank/bankrag/internal/rag"
)

const defaultCategory = "policies"

// Ingestor turns dropped policy files into knowledge base documents. The
// first-level subdirectory under the drop root becomes the document category,
// the file name becomes the title, and the document ID is derived from the
// path so a re-dropped file updates in place.
type Ingestor struct {
	root      string
	service   *rag.Service
	extractor *extract.Extractor
	logger    *zap.Logger
}

// NewIngestor returns an ingestor feeding svc from files under root.
func NewIngestor(root string, svc *rag.Service, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{
		root:      filepath.Clean(root),
		service:   svc,
		extractor: extract.NewExtractor(),
		logger:    logger,
	}
}

// IndexFile extracts the file and adds (or updates) its document. Extraction
// and embedding failures are logged, not returned: one bad file must not stop
// the watch loop.
func (g *Ingestor) IndexFile(ctx context.Context, path string) {
	text, err := g.extractor.Extract(path)
	if err != nil {
		g.logger.Warn("could not extract policy file", zap.String("path", path), zap.Error(err))
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		g.logger.Warn("policy file has no extractable text", zap.String("path", path))
		return
	}

	doc := &models.Document{
		ID:       fileid.DocID(path),
		Title:    titleFromPath(path),
		Content:  text,
		Category: g.categoryFor(path),
		Source:   filepath.Base(path),
	}

	// A re-dropped file carries the same ID; replace the old version.
	if _, err := g.service.RemoveDocument(ctx, doc.ID); err != nil {
		g.logger.Warn("could not replace existing document", zap.String("id", doc.ID), zap.Error(err))
		return
	}
	added, err := g.service.AddDocument(ctx, doc)
	if err != nil {
		g.logger.Warn("could not index policy file", zap.String("path", path), zap.Error(err))
		return
	}
	if added {
		g.logger.Info("policy file indexed",
			zap.String("path", path),
			zap.String("id", doc.ID),
			zap.String("category", doc.Category),
		)
	}
}

// RemoveFile removes the document for a deleted file, if one exists.
func (g *Ingestor) RemoveFile(ctx context.Context, path string) {
	id := fileid.DocID(path)
	removed, err := g.service.RemoveDocument(ctx, id)
	if err != nil {
		g.logger.Warn("could not remove document for deleted file", zap.String("path", path), zap.Error(err))
		return
	}
	if removed {
		g.logger.Info("policy file removed from index", zap.String("path", path), zap.String("id", id))
	}
}

// categoryFor maps the file's first-level subdirectory under the drop root to
// a category; files directly in the root get the default.
func (g *Ingestor) categoryFor(path string) string {
	rel, err := filepath.Rel(g.root, filepath.Clean(path))
	if err != nil || strings.HasPrefix(rel, "..") {
		return defaultCategory
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) < 2 {
		return defaultCategory
	}
	return strings.ToLower(parts[0])
}

// titleFromPath turns "wire_transfer-limits.pdf" into "wire transfer limits".
func titleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}
