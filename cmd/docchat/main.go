// Package main provides the docchat CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/docmgr/docchat/cli"
)

var (
	// Global flags
	provider string
	model    string
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "docchat",
		Short: "Retrieval-augmented chat over a document manager",
		Long: `A chat service that answers questions grounded in documents stored in an
external document manager. The model can call document-manager tools
mid-conversation to fetch listings, metadata, and vector-store statistics.

Answers stream to clients as server-sent events; a non-streaming JSON
variant and a one-shot CLI mode are also available.`,
	}

	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider (groq, openai, anthropic)")
	rootCmd.PersistentFlags().StringVarP(&model, "model", "m", "", "Model name (defaults to the provider's default)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(toolsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP chat service",
		Long: `Start the HTTP chat service.

Endpoints:
- POST /api/chat       chat with SSE streaming (default) or JSON response
- POST /api/search     context search against the document manager
- GET  /api/functions  the callable tool catalog
- GET  /api/health     liveness and backend address
- GET  /metrics        Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.Options{Provider: provider, Model: model, Port: port}
			return cli.Serve(context.Background(), opts)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")

	return cmd
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question and print the answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.Options{Provider: provider, Model: model}
			return cli.Ask(context.Background(), args[0], opts)
		},
	}
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the document-manager tools the model can call",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Tools()
		},
	}
}
