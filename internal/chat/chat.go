// Package chat generates grounded answers from retrieved documents through a
// chat completion provider.
package chat

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the completion provider could not serve the request.
var ErrUnavailable = errors.New("chat: provider unavailable")

// Generator produces a completion for a system and user prompt pair.
type Generator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32, maxTokens int) (string, error)
}
