// Package docmgr is the HTTP client for the document manager backend.
//
// Information Hiding:
// - Backend endpoint layout and request encoding
// - Degrade-to-empty policy for search failures
// - Timeout handling
package docmgr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/docmgr/docchat/observability"
)

// maxSearchResults is the hard cap the backend accepts for n_results.
const maxSearchResults = 20

// Chunk is a retrieved fragment of document text plus its source
// metadata, used to ground the model's answer. Chunks are immutable
// and scoped to a single request.
type Chunk struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata carries the provenance of a chunk.
type ChunkMetadata struct {
	OriginalFilename string `json:"original_filename"`
	DocumentID       string `json:"document_id,omitempty"`
	ChunkIndex       int    `json:"chunk_index,omitempty"`
}

// Client talks to the document manager backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a backend client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "docmgr").Logger(),
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search retrieves ranked context chunks for a query. nResults is
// clamped to the backend's cap before being sent. On any transport
// failure it returns an empty slice: an empty result means "no
// relevant context", never an error, and the fault is only logged.
func (c *Client) Search(ctx context.Context, query string, nResults int) []Chunk {
	if nResults < 1 {
		nResults = 1
	}
	if nResults > maxSearchResults {
		nResults = maxSearchResults
	}

	body, err := json.Marshal(map[string]any{
		"query":     query,
		"n_results": nResults,
	})
	if err != nil {
		c.log.Error().Err(err).Msg("failed to encode search request")
		observability.RecordRetrieval(false)
		return nil
	}

	raw, err := c.post(ctx, "/api/search", body)
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("document search failed, returning empty context")
		observability.RecordRetrieval(false)
		return nil
	}

	var chunks []Chunk
	if err := json.Unmarshal(raw, &chunks); err != nil {
		c.log.Warn().Err(err).Msg("failed to decode search response, returning empty context")
		observability.RecordRetrieval(false)
		return nil
	}
	observability.RecordRetrieval(true)
	return chunks
}

// Documents lists all documents in the backend.
func (c *Client) Documents(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/api/documents")
}

// Document fetches metadata for a single document.
func (c *Client) Document(ctx context.Context, id string) (json.RawMessage, error) {
	return c.get(ctx, "/api/documents/"+id)
}

// DocumentChunks fetches the chunks of a single document.
func (c *Client) DocumentChunks(ctx context.Context, id string) (json.RawMessage, error) {
	return c.get(ctx, "/api/documents/"+id+"/chunks")
}

// VectorStats fetches vector store statistics.
func (c *Client) VectorStats(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/api/vector/stats")
}

// Info fetches the backend's API info document.
func (c *Client) Info(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/")
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("backend returned status %d for %s", resp.StatusCode, req.URL.Path)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return raw, nil
}
