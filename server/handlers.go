package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docmgr/docchat/docmgr"
)

type chatRequest struct {
	Message string `json:"message"`
	// Stream defaults to true when the field is absent.
	Stream *bool `json:"stream"`
}

type searchRequest struct {
	Query    string `json:"query"`
	NResults int    `json:"n_results"`
}

// handleChat serves both transports of one chat request: SSE event
// streaming (the default) and a single JSON envelope.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	if req.Stream == nil || *req.Stream {
		s.streamChat(c, req.Message)
		return
	}

	response, chunks := s.opts.Responder.Respond(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, gin.H{
		"response": response,
		"context":  chunks,
	})
}

// streamChat relays orchestrator events as SSE frames: one
// `data: {json}` line per event, blank-line terminated, flushed
// immediately so token cadence reaches the client unbuffered.
func (s *Server) streamChat(c *gin.Context, message string) {
	w := c.Writer
	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for event := range s.opts.Streamer.Stream(c.Request.Context(), message) {
		payload, err := json.Marshal(event)
		if err != nil {
			s.opts.Logger.Error().Err(err).Msg("failed to encode output event")
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			// Client went away; the request context cancellation stops
			// the orchestrator.
			s.opts.Logger.Debug().Err(err).Msg("client disconnected mid-stream")
			return
		}
		flusher.Flush()
	}
}

// handleSearch proxies a context search to the document manager.
func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}
	n := req.NResults
	if n <= 0 {
		n = 5
	}
	if n > s.opts.MaxSearchResults {
		n = s.opts.MaxSearchResults
	}

	chunks := s.opts.Search.Search(c.Request.Context(), req.Query, n)
	if chunks == nil {
		chunks = []docmgr.Chunk{}
	}
	c.JSON(http.StatusOK, gin.H{
		"results": chunks,
		"query":   req.Query,
	})
}

// handleFunctions lists the callable tool catalog.
func (s *Server) handleFunctions(c *gin.Context) {
	catalog := gin.H{}
	for name, meta := range s.opts.Registry.Catalog() {
		catalog[name] = gin.H{
			"description": meta.Description,
			"parameters":  meta.Parameters,
		}
	}
	c.JSON(http.StatusOK, gin.H{"functions": catalog})
}

// handleHealth reports liveness and the configured backend address.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"docmgr_url": s.opts.Search.BaseURL(),
	})
}
