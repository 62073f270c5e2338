package llm

import (
	"context"
	"errors"
)

// Client abstracts LLM providers behind a single prompt-in, text-out call.
// Implementations must enforce their own request timeout; callers treat every
// invocation as a blocking, possibly-failing remote call.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM not configured")

// PlaceholderClient is a stub implementation used when no provider is wired.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}
