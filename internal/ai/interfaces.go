package ai

import (
	"context"
	"time"
)

// Prompt is a built system/user message pair ready to send to a provider.
type Prompt struct {
	System string
	User   string
}

// SamplingParams controls a single completion request.
type SamplingParams struct {
	Model       string
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// RawCompletion is the untouched text produced by a provider, before any
// extraction or normalization happens.
type RawCompletion struct {
	Text       string
	Model      string
	ReceivedAt time.Time
	Usage      *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// CompletionClient issues chat completions against one provider.
// Complete performs exactly one request per call; retries, breakers and
// backoff live in the orchestrator above it.
type CompletionClient interface {
	Complete(ctx context.Context, prompt Prompt, params SamplingParams) (*RawCompletion, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Name() string
	Close() error
}
