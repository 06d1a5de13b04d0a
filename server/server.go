// HTTP transport for the chat service. The server is point-to-point
// plumbing only: request validation, SSE framing, and JSON envelopes.
// All orchestration semantics live behind the Streamer and Responder
// interfaces.

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/docmgr/docchat/chat"
	"github.com/docmgr/docchat/docmgr"
	"github.com/docmgr/docchat/tools"
)

// Streamer produces the ordered output-event stream for one chat
// request. The channel is closed after the terminal event.
type Streamer interface {
	Stream(ctx context.Context, userMessage string) <-chan chat.Event
}

// Responder produces a single aggregated answer for one chat request.
type Responder interface {
	Respond(ctx context.Context, userMessage string) (string, []docmgr.Chunk)
}

// SearchBackend is the slice of the document-manager client the
// transport needs directly.
type SearchBackend interface {
	Search(ctx context.Context, query string, nResults int) []docmgr.Chunk
	BaseURL() string
}

// Options wire the transport to the orchestration layer.
type Options struct {
	Streamer  Streamer
	Responder Responder
	Search    SearchBackend
	Registry  *tools.Registry
	Logger    zerolog.Logger

	// MaxSearchResults caps the n_results a client may request.
	MaxSearchResults int
}

// Server is the HTTP front end.
type Server struct {
	opts   Options
	engine *gin.Engine
}

// New builds the router. CORS is wide open; the service fronts a local
// browser UI served from another origin.
func New(opts Options) *Server {
	if opts.MaxSearchResults == 0 {
		opts.MaxSearchResults = 20
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())

	s := &Server{opts: opts, engine: engine}

	engine.POST("/api/chat", s.handleChat)
	engine.POST("/api/search", s.handleSearch)
	engine.GET("/api/functions", s.handleFunctions)
	engine.GET("/api/health", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
// SSE responses have no write deadline; a WriteTimeout would cut
// long-running streams mid-answer.
func (s *Server) Run(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", port),
		Handler:     s.engine,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info().Str("port", port).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.opts.Logger.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
