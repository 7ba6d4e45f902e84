// Package embedding provides text embedding through an external provider.
package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the embedding provider could not serve the request
// (missing credentials, network, quota). Retrieval falls back to lexical
// ranking on this error; indexing operations propagate it.
var ErrUnavailable = errors.New("embedding: provider unavailable")

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
