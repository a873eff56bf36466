package llm

import "context"

type Provider interface {
	// Complete sends one system instruction plus user prompt and returns the raw reply text.
	Complete(ctx context.Context, system, prompt string) (string, error)
	Close() error
}
