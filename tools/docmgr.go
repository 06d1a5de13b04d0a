// Document manager tools - read operations the model can invoke against
// the document backend mid-conversation.
//
// Each tool is a pure pass-through/validation layer: the backend payload
// is returned to the model unchanged.

package tools

import (
	"context"
	"encoding/json"

	"github.com/docmgr/docchat/docmgr"
)

// DocMgrRegistry builds the fixed tool catalog backed by the document
// manager client.
func DocMgrRegistry(client *docmgr.Client) (*Registry, error) {
	registry := NewRegistry()

	all := []Tool{
		&SearchDocumentsTool{client: client},
		&GetAllDocumentsTool{client: client},
		&GetDocumentInfoTool{client: client},
		&GetDocumentChunksTool{client: client},
		&GetVectorStatsTool{client: client},
		&GetAPIInfoTool{client: client},
	}
	for _, t := range all {
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// SearchDocumentsTool performs a semantic search over the document store.
type SearchDocumentsTool struct {
	client *docmgr.Client
}

// Metadata returns the tool metadata.
func (t *SearchDocumentsTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "search_documents",
		Description: "Search the document store for chunks relevant to a query.",
		Parameters: objectSchema(map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query",
			},
			"n_results": map[string]any{
				"type":        "integer",
				"description": "Maximum number of chunks to return (default 5)",
			},
		}, "query"),
	}
}

// Validate checks that a query is present.
func (t *SearchDocumentsTool) Validate(args json.RawMessage) error {
	_, err := requireString(args, "query")
	return err
}

// Execute runs the search. Search degrades to empty on backend failure,
// so the result is always a success carrying the chunk list.
func (t *SearchDocumentsTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return ErrorResult(err.Error())
	}

	var parsed struct {
		NResults int `json:"n_results"`
	}
	_ = json.Unmarshal(args, &parsed)
	if parsed.NResults == 0 {
		parsed.NResults = 5
	}

	chunks := t.client.Search(ctx, query, parsed.NResults)
	if chunks == nil {
		chunks = []docmgr.Chunk{}
	}
	payload, err := json.Marshal(chunks)
	if err != nil {
		return ErrorResultf("failed to encode search results: %v", err)
	}
	return OkResult(payload)
}

// GetAllDocumentsTool lists every document in the backend.
type GetAllDocumentsTool struct {
	BaseTool
	client *docmgr.Client
}

// Metadata returns the tool metadata.
func (t *GetAllDocumentsTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "get_all_documents",
		Description: "List all documents stored in the document manager, with their metadata.",
		Parameters:  objectSchema(map[string]any{}),
	}
}

// Execute lists the documents.
func (t *GetAllDocumentsTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	payload, err := t.client.Documents(ctx)
	if err != nil {
		return ErrorResult(err.Error())
	}
	return OkResult(payload)
}

// GetDocumentInfoTool fetches metadata for one document.
type GetDocumentInfoTool struct {
	client *docmgr.Client
}

// Metadata returns the tool metadata.
func (t *GetDocumentInfoTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "get_document_info",
		Description: "Get metadata for a single document by its id.",
		Parameters: objectSchema(map[string]any{
			"document_id": map[string]any{
				"type":        "string",
				"description": "The document id",
			},
		}, "document_id"),
	}
}

// Validate checks that a document id is present.
func (t *GetDocumentInfoTool) Validate(args json.RawMessage) error {
	_, err := requireString(args, "document_id")
	return err
}

// Execute fetches the document.
func (t *GetDocumentInfoTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	id, err := requireString(args, "document_id")
	if err != nil {
		return ErrorResult(err.Error())
	}
	payload, err := t.client.Document(ctx, id)
	if err != nil {
		return ErrorResult(err.Error())
	}
	return OkResult(payload)
}

// GetDocumentChunksTool fetches the chunks of one document.
type GetDocumentChunksTool struct {
	client *docmgr.Client
}

// Metadata returns the tool metadata.
func (t *GetDocumentChunksTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "get_document_chunks",
		Description: "Get the text chunks of a single document by its id.",
		Parameters: objectSchema(map[string]any{
			"document_id": map[string]any{
				"type":        "string",
				"description": "The document id",
			},
		}, "document_id"),
	}
}

// Validate checks that a document id is present.
func (t *GetDocumentChunksTool) Validate(args json.RawMessage) error {
	_, err := requireString(args, "document_id")
	return err
}

// Execute fetches the chunks.
func (t *GetDocumentChunksTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	id, err := requireString(args, "document_id")
	if err != nil {
		return ErrorResult(err.Error())
	}
	payload, err := t.client.DocumentChunks(ctx, id)
	if err != nil {
		return ErrorResult(err.Error())
	}
	return OkResult(payload)
}

// GetVectorStatsTool fetches vector store statistics.
type GetVectorStatsTool struct {
	BaseTool
	client *docmgr.Client
}

// Metadata returns the tool metadata.
func (t *GetVectorStatsTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "get_vector_stats",
		Description: "Get statistics about the vector store (document and chunk counts).",
		Parameters:  objectSchema(map[string]any{}),
	}
}

// Execute fetches the stats.
func (t *GetVectorStatsTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	payload, err := t.client.VectorStats(ctx)
	if err != nil {
		return ErrorResult(err.Error())
	}
	return OkResult(payload)
}

// GetAPIInfoTool fetches the backend's API info document.
type GetAPIInfoTool struct {
	BaseTool
	client *docmgr.Client
}

// Metadata returns the tool metadata.
func (t *GetAPIInfoTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        "get_api_info",
		Description: "Get general information about the document manager API.",
		Parameters:  objectSchema(map[string]any{}),
	}
}

// Execute fetches the info document.
func (t *GetAPIInfoTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	payload, err := t.client.Info(ctx)
	if err != nil {
		return ErrorResult(err.Error())
	}
	return OkResult(payload)
}
