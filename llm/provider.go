// LLM Provider interface - the abstract interface for LLM providers.
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling

package llm

import "context"

// Provider defines the abstract interface for LLM providers.
// Implementations hide provider-specific details while exposing a
// consistent interface for chat completions with optional tool calling.
type Provider interface {
	// Name returns the provider name (for logging/metrics).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Chat sends a single chat completion request. When opts.Tools is
	// set the model may respond with tool calls in Response.ToolCalls.
	Chat(ctx context.Context, messages []ChatMessage, opts CallOptions) (Response, error)

	// StreamChat streams a chat completion, sending deltas to the
	// provided channel in provider emission order. The caller owns the
	// channel; StreamChat returns when the provider stream ends or the
	// context is cancelled, and never sends after returning.
	StreamChat(ctx context.Context, messages []ChatMessage, opts CallOptions, deltas chan<- StreamDelta) error
}
