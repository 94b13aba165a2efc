package client

import "context"

// TextCompleter sends a prompt to an LLM and returns the raw reply
// text. Implementations make exactly one logical completion per call;
// retries and fallbacks are the caller's business.
type TextCompleter interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Ensure both clients implement TextCompleter
var _ TextCompleter = (*GroqClient)(nil)
var _ TextCompleter = (*OllamaClient)(nil)
