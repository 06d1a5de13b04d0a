// Command execution for CLI commands.
//
// Information Hiding:
// - Service wiring (config, provider, backend client) hidden
// - Output formatting hidden

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/docmgr/docchat/chat"
	"github.com/docmgr/docchat/config"
	"github.com/docmgr/docchat/docmgr"
	"github.com/docmgr/docchat/llm"
	"github.com/docmgr/docchat/observability"
	"github.com/docmgr/docchat/server"
	"github.com/docmgr/docchat/tools"
)

// Options holds CLI execution options.
type Options struct {
	Provider string // overrides LLM_PROVIDER when set
	Model    string // overrides the provider's default model
	Port     string // overrides PORT when set
}

// Serve starts the HTTP chat service and blocks until interrupted.
func Serve(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger.Info().
		Str("port", cfg.Port).
		Str("provider", cfg.LLMProvider).
		Str("docmgr_url", cfg.DocMgrBaseURL).
		Msg("docchat starting")

	client := docmgr.NewClient(cfg.DocMgrBaseURL, cfg.BackendTimeout(), logger)
	registry, err := tools.DocMgrRegistry(client)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}
	executor := tools.NewExecutor(registry)

	provider, credentialEnv := newProvider(cfg, opts.Model)

	orchOpts := chat.Options{
		Provider:      provider,
		CredentialEnv: credentialEnv,
		Retriever:     client,
		Registry:      registry,
		Executor:      executor,
		Logger:        logger,
		SearchResults: cfg.SearchResults,
	}

	srv := server.New(server.Options{
		Streamer:         chat.NewOrchestrator(orchOpts),
		Responder:        chat.NewResponder(orchOpts),
		Search:           client,
		Registry:         registry,
		Logger:           logger,
		MaxSearchResults: cfg.MaxSearchCap,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, cfg.Port)
}

// Ask answers one question on the command line using the non-streaming
// pipeline and prints the answer with its grounding sources.
func Ask(ctx context.Context, message string, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := observability.InitLogger(cfg.LogLevel, cfg.LogPretty)

	client := docmgr.NewClient(cfg.DocMgrBaseURL, cfg.BackendTimeout(), logger)
	registry, err := tools.DocMgrRegistry(client)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	provider, credentialEnv := newProvider(cfg, opts.Model)

	responder := chat.NewResponder(chat.Options{
		Provider:      provider,
		CredentialEnv: credentialEnv,
		Retriever:     client,
		Registry:      registry,
		Executor:      tools.NewExecutor(registry),
		Logger:        logger,
		SearchResults: cfg.SearchResults,
	})

	answer, chunks := responder.Respond(ctx, message)
	fmt.Printf("%s\n", answer)
	if len(chunks) > 0 {
		fmt.Printf("\nSources:\n")
		for _, chunk := range chunks {
			fmt.Printf("  - %s\n", chunk.Metadata.OriginalFilename)
		}
	}
	return nil
}

// Tools prints the callable tool catalog. The catalog only depends on
// tool metadata; the backend is never called.
func Tools() error {
	logger := observability.InitLogger("error", false)
	client := docmgr.NewClient("http://localhost:8000", 0, logger)
	registry, err := tools.DocMgrRegistry(client)
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	catalog := registry.Catalog()
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available tools:")
	for _, name := range names {
		fmt.Printf("  %-22s %s\n", name, catalog[name].Description)
	}
	return nil
}

func loadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.Provider != "" {
		cfg.LLMProvider = config.NormalizeProvider(opts.Provider)
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newProvider creates the configured LLM provider, or returns nil when
// the credential is absent. A nil provider is valid wiring: every chat
// request then terminates with a configuration-error message naming
// the missing env var.
func newProvider(cfg *config.Config, modelOverride string) (llm.Provider, string) {
	// Unknown providers are rejected by Validate before we get here.
	credentialEnv, err := config.ProviderKeyEnv(cfg.LLMProvider)
	if err != nil {
		credentialEnv = "LLM_PROVIDER"
	}
	apiKey := cfg.APIKey()
	if apiKey == "" {
		fmt.Fprintf(os.Stderr, "Warning: %s not set; chat requests will return a configuration error\n", credentialEnv)
		return nil, credentialEnv
	}

	model := modelOverride
	if model == "" && cfg.LLMProvider == "groq" {
		model = cfg.StreamModel
	}
	provider, err := llm.NewProvider(cfg.LLMProvider, apiKey, model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; chat requests will return a configuration error\n", err)
		return nil, credentialEnv
	}
	return provider, credentialEnv
}
