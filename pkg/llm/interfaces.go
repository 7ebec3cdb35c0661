// Package llm provides clients for external language model endpoints.
package llm

import (
	"context"
)

// Client defines the completion interface the SQL generator depends on.
// Use this interface for dependency injection to enable mocking in tests.
type Client interface {
	// Complete sends a prompt with a system message and returns the raw
	// completion text.
	Complete(ctx context.Context, prompt string, systemMessage string) (string, error)

	// Model returns the configured model name.
	Model() string
}

// Ensure implementations satisfy Client at compile time.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*AnthropicClient)(nil)
	_ Client = (*MockClient)(nil)
)
