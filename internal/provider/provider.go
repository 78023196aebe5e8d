// Package provider defines the unified interface and shared types for all LLM providers.
// Each provider adapter (openai.go, anthropic.go) implements the Provider interface,
// normalizing vendor-specific chat APIs into a single blocking completion call.
package provider

import "context"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single message in the conversation history.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is the unified request format sent to a provider.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	Messages     []Message

	// Temperature overrides the model default when non-nil. Intent extraction
	// runs at zero; response composition runs warmer.
	Temperature *float64

	MaxTokens int
}

// Provider is the unified interface for all LLM providers.
type Provider interface {
	// Complete sends one chat completion request and returns the full
	// assistant text. No streaming: both callers in this service need the
	// complete text before they can act on it.
	Complete(ctx context.Context, req *CompletionRequest) (string, error)

	// Name returns the provider identifier, e.g. "anthropic", "openai", "deepseek".
	Name() string

	// DefaultModel returns the default model.
	DefaultModel() string
}

// Float returns a pointer to v, for CompletionRequest.Temperature.
func Float(v float64) *float64 { return &v }
