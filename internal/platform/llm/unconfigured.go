package llm

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("OPENAI_API_KEY is not set")

// Unconfigured stands in for Client when no API key is available, so
// features that need a model fail with a clear message instead of the
// whole program refusing to start.
type Unconfigured struct{}

func (Unconfigured) Complete(context.Context, string, string, bool) (string, error) {
	return "", ErrNotConfigured
}

func (Unconfigured) CompleteJSON(context.Context, string, string, any) error {
	return ErrNotConfigured
}
