package tools

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/docmgr/docchat/docmgr"
)

func newBackendExecutor(t *testing.T, handler http.Handler) *Executor {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := docmgr.NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	registry, err := DocMgrRegistry(client)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return NewExecutor(registry)
}

func TestDocMgrRegistryCatalog(t *testing.T) {
	client := docmgr.NewClient("http://localhost:8000", time.Second, zerolog.Nop())
	registry, err := DocMgrRegistry(client)
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	want := []string{
		"get_all_documents",
		"get_api_info",
		"get_document_chunks",
		"get_document_info",
		"get_vector_stats",
		"search_documents",
	}
	names := registry.Names()
	if len(names) != len(want) {
		t.Fatalf("expected %d tools, got %v", len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("expected tool names %v, got %v", want, names)
		}
	}

	for _, meta := range registry.List() {
		if meta.Description == "" {
			t.Errorf("tool %s has no description", meta.Name)
		}
		if meta.Parameters["type"] != "object" {
			t.Errorf("tool %s schema is not an object schema", meta.Name)
		}
	}
}

func TestGetAllDocumentsPassesPayloadThrough(t *testing.T) {
	payload := `{"documents":[{"id":"d1","filename":"report.pdf","size":1024}]}`
	executor := newBackendExecutor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/documents" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(payload))
	}))

	result := executor.Execute(t.Context(), "get_all_documents", "")
	if !result.OK() {
		t.Fatalf("unexpected failure: %q", result.Err)
	}
	if string(result.Payload) != payload {
		t.Errorf("payload was transformed: %s", result.Payload)
	}
}

func TestGetDocumentInfoRequiresID(t *testing.T) {
	executor := newBackendExecutor(t, http.NotFoundHandler())

	result := executor.Execute(t.Context(), "get_document_info", "{}")
	if result.OK() {
		t.Fatal("expected failure for missing document_id")
	}
	if result.Err != "document_id is required" {
		t.Errorf("unexpected message: %q", result.Err)
	}
}

func TestGetDocumentChunksHitsCorrectPath(t *testing.T) {
	executor := newBackendExecutor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/documents/d7/chunks" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"chunks":[]}`))
	}))

	result := executor.Execute(t.Context(), "get_document_chunks", `{"document_id":"d7"}`)
	if !result.OK() {
		t.Fatalf("unexpected failure: %q", result.Err)
	}
}

func TestBackendFailureBecomesErrorResult(t *testing.T) {
	executor := newBackendExecutor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))

	result := executor.Execute(t.Context(), "get_vector_stats", "{}")
	if result.OK() {
		t.Fatal("expected failure when backend returns 503")
	}
	if result.Err == "" {
		t.Error("expected error description in result")
	}
}

func TestSearchDocumentsToolDegradesToEmpty(t *testing.T) {
	executor := newBackendExecutor(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	// Search degrades to an empty list rather than failing.
	result := executor.Execute(t.Context(), "search_documents", `{"query":"reports"}`)
	if !result.OK() {
		t.Fatalf("expected degrade-to-empty success, got %q", result.Err)
	}
	var chunks []docmgr.Chunk
	if err := json.Unmarshal(result.Payload, &chunks); err != nil {
		t.Fatalf("payload is not a chunk list: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected empty chunk list, got %d", len(chunks))
	}
}

func TestSearchDocumentsToolRequiresQuery(t *testing.T) {
	executor := newBackendExecutor(t, http.NotFoundHandler())

	result := executor.Execute(t.Context(), "search_documents", "{}")
	if result.OK() {
		t.Fatal("expected failure for missing query")
	}
	if result.Err != "query is required" {
		t.Errorf("unexpected message: %q", result.Err)
	}
}
