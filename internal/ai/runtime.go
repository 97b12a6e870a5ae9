package ai

import "context"

// Runtime generates chat completions. The query engine depends on this
// interface only, so tests substitute a scripted runtime.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Provider identifiers accepted by the provider setting.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "openai/gpt-4o-mini"
