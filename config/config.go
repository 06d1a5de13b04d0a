// Package config provides application settings loaded from environment
// variables, with optional .env file support for local development.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the chat service.
//
// A missing provider API key is deliberately not a load error: the
// service starts and answers every chat request with a configuration
// error message instead, matching the degrade-don't-crash policy of
// the rest of the pipeline.
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"5001"`

	// Document manager backend
	DocMgrBaseURL  string `envconfig:"DOCMGR_BASE_URL" default:"http://localhost:8000"`
	DocMgrTimeout  int    `envconfig:"DOCMGR_TIMEOUT" default:"30"`  // seconds
	SearchResults  int    `envconfig:"SEARCH_RESULTS" default:"3"`   // chunks retrieved per chat request
	MaxSearchCap   int    `envconfig:"MAX_SEARCH_RESULTS" default:"20"` // hard cap sent to the backend

	// LLM provider selection and credentials
	LLMProvider     string `envconfig:"LLM_PROVIDER" default:"groq"`
	GroqAPIKey      string `envconfig:"GROQ_API_KEY" default:""`
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY" default:""`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY" default:""`

	// Models: the streaming path and the non-streaming fallback path
	// use different models (the fallback favors latency).
	StreamModel   string `envconfig:"CHAT_STREAM_MODEL" default:"openai/gpt-oss-20b"`
	FallbackModel string `envconfig:"CHAT_FALLBACK_MODEL" default:"llama3-8b-8192"`

	// Observability
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// Load reads configuration, first from a .env file if one exists, then
// from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv reads configuration directly from environment variables
// without touching any .env file (useful for containerized deployments).
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that envconfig cannot express.
func (c *Config) Validate() error {
	if _, err := ProviderKeyEnv(c.LLMProvider); err != nil {
		return err
	}
	if c.SearchResults < 1 {
		return fmt.Errorf("SEARCH_RESULTS must be at least 1, got %d", c.SearchResults)
	}
	if c.MaxSearchCap < 1 {
		return fmt.Errorf("MAX_SEARCH_RESULTS must be at least 1, got %d", c.MaxSearchCap)
	}
	if c.DocMgrTimeout < 1 {
		return fmt.Errorf("DOCMGR_TIMEOUT must be at least 1, got %d", c.DocMgrTimeout)
	}
	return nil
}

// BackendTimeout returns the document backend timeout as a duration.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.DocMgrTimeout) * time.Second
}

// APIKey returns the credential for the configured provider. An empty
// string means the credential is absent, not that the provider is unknown.
func (c *Config) APIKey() string {
	switch strings.ToLower(c.LLMProvider) {
	case "groq":
		return c.GroqAPIKey
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic", "claude":
		return c.AnthropicAPIKey
	default:
		return ""
	}
}

// providerKeyEnvs maps canonical provider names to the environment
// variable carrying their credential.
var providerKeyEnvs = map[string]string{
	"groq":      "GROQ_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// providerAliases map to canonical names.
var providerAliases = map[string]string{
	"claude": "anthropic",
	"gpt":    "openai",
}

// NormalizeProvider converts provider aliases to canonical names.
func NormalizeProvider(provider string) string {
	provider = strings.ToLower(provider)
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

// ProviderKeyEnv returns the API key environment variable name for a
// provider, or an error if the provider is unknown.
func ProviderKeyEnv(provider string) (string, error) {
	env, ok := providerKeyEnvs[NormalizeProvider(provider)]
	if !ok {
		return "", fmt.Errorf("unknown provider: %q", provider)
	}
	return env, nil
}
