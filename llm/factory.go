// LLM Provider Factory - creates providers by name.
//
// Quick Start:
//
//	// Default: Groq with the configured streaming model
//	provider, err := llm.NewProvider("groq", apiKey, "openai/gpt-oss-20b")
//
//	// Anthropic fallback
//	provider, err := llm.NewProvider("anthropic", apiKey, "")

package llm

import (
	"fmt"
	"strings"
)

// ProviderType represents supported LLM providers.
type ProviderType int

const (
	// ProviderGroq is the Groq provider (OpenAI-compatible API).
	ProviderGroq ProviderType = iota
	// ProviderOpenAI is the OpenAI provider.
	ProviderOpenAI
	// ProviderAnthropic is the Anthropic provider (Claude models).
	ProviderAnthropic
)

// String returns the string representation of the provider type.
func (p ProviderType) String() string {
	switch p {
	case ProviderGroq:
		return "groq"
	case ProviderOpenAI:
		return "openai"
	case ProviderAnthropic:
		return "anthropic"
	default:
		return "unknown"
	}
}

// DefaultModel returns the default model for this provider.
func (p ProviderType) DefaultModel() string {
	switch p {
	case ProviderGroq:
		return ModelGroqGPTOSS20B
	case ProviderOpenAI:
		return ModelOpenAIGPT4oMini
	case ProviderAnthropic:
		return ModelAnthropicClaudeSonnet4
	default:
		return ""
	}
}

// ParseProviderType parses a provider from string (case-insensitive).
func ParseProviderType(s string) (ProviderType, error) {
	switch strings.ToLower(s) {
	case "groq":
		return ProviderGroq, nil
	case "openai", "gpt":
		return ProviderOpenAI, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	default:
		return 0, fmt.Errorf("unknown provider: %s", s)
	}
}

// NewProvider creates a provider of the named type. An empty model
// selects the provider's default.
func NewProvider(name, apiKey, model string) (Provider, error) {
	providerType, err := ParseProviderType(name)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = providerType.DefaultModel()
	}

	switch providerType {
	case ProviderGroq:
		return NewGroqProvider(apiKey, model), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey, model), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %v", providerType)
	}
}

// Model identifier constants.

// Groq model identifiers
const (
	// ModelGroqGPTOSS20B is the fast default for streaming chat.
	ModelGroqGPTOSS20B = "openai/gpt-oss-20b"
	// ModelGroqLlama38B is the low-latency fallback model.
	ModelGroqLlama38B = "llama3-8b-8192"
)

// OpenAI model identifiers
const (
	ModelOpenAIGPT4o     = "gpt-4o"
	ModelOpenAIGPT4oMini = "gpt-4o-mini"
)

// Anthropic model identifiers
const (
	ModelAnthropicClaudeSonnet4 = "claude-sonnet-4-20250514"
	ModelAnthropicClaudeHaiku4  = "claude-haiku-4-20250514"
)
