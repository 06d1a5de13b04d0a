package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docmgr/docchat/chat"
	"github.com/docmgr/docchat/docmgr"
	"github.com/docmgr/docchat/tools"
)

type fakeStreamer struct {
	events []chat.Event
	got    string
}

func (f *fakeStreamer) Stream(ctx context.Context, message string) <-chan chat.Event {
	f.got = message
	out := make(chan chat.Event)
	go func() {
		defer close(out)
		for _, ev := range f.events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

type fakeResponder struct {
	response string
	chunks   []docmgr.Chunk
	got      string
}

func (f *fakeResponder) Respond(ctx context.Context, message string) (string, []docmgr.Chunk) {
	f.got = message
	return f.response, f.chunks
}

type fakeSearch struct {
	chunks   []docmgr.Chunk
	gotQuery string
	gotN     int
}

func (f *fakeSearch) Search(ctx context.Context, query string, nResults int) []docmgr.Chunk {
	f.gotQuery = query
	f.gotN = nResults
	return f.chunks
}

func (f *fakeSearch) BaseURL() string { return "http://localhost:8000" }

type fixtureTool struct {
	tools.BaseTool
}

func (fixtureTool) Metadata() tools.ToolMetadata {
	return tools.ToolMetadata{
		Name:        "search_documents",
		Description: "Search documents",
		Parameters:  map[string]any{"type": "object"},
	}
}

func (fixtureTool) Execute(ctx context.Context, args json.RawMessage) tools.ToolResult {
	return tools.OkResult(json.RawMessage(`{}`))
}

type serverFixture struct {
	server    *Server
	streamer  *fakeStreamer
	responder *fakeResponder
	search    *fakeSearch
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	registry := tools.NewRegistry()
	require.NoError(t, registry.Register(fixtureTool{}))

	streamer := &fakeStreamer{}
	responder := &fakeResponder{}
	search := &fakeSearch{}
	srv := New(Options{
		Streamer:  streamer,
		Responder: responder,
		Search:    search,
		Registry:  registry,
		Logger:    zerolog.Nop(),
	})
	return &serverFixture{server: srv, streamer: streamer, responder: responder, search: search}
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func getPath(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// decodeSSE parses `data: {json}` frames back into events.
func decodeSSE(t *testing.T, body string) []chat.Event {
	t.Helper()
	var events []chat.Event
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev chat.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		events = append(events, ev)
	}
	return events
}

func TestChatStreaming(t *testing.T) {
	fx := newServerFixture(t)
	fx.streamer.events = []chat.Event{
		chat.TypingEvent(),
		chat.StartEvent(),
		chat.ContentEvent("Hello "),
		chat.ContentEvent("world."),
		chat.EndEvent(),
	}

	rec := postJSON(t, fx.server.Handler(), "/api/chat", `{"message":"hi"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "hi", fx.streamer.got)

	events := decodeSSE(t, rec.Body.String())
	require.Len(t, events, 5)
	assert.Equal(t, chat.EventTyping, events[0].Type)
	assert.Equal(t, chat.EventStart, events[1].Type)
	assert.Equal(t, "Hello ", events[2].Content)
	assert.Equal(t, "world.", events[3].Content)
	assert.Equal(t, chat.EventEnd, events[4].Type)
}

func TestChatStreamDefaultsToTrue(t *testing.T) {
	fx := newServerFixture(t)
	fx.streamer.events = []chat.Event{chat.EndEvent()}

	rec := postJSON(t, fx.server.Handler(), "/api/chat", `{"message":"hi"}`)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Empty(t, fx.responder.got, "non-streaming path must not run")
}

func TestChatNonStreaming(t *testing.T) {
	fx := newServerFixture(t)
	fx.responder.response = "The answer."
	fx.responder.chunks = []docmgr.Chunk{
		{Content: "ctx", Metadata: docmgr.ChunkMetadata{OriginalFilename: "a.txt"}},
	}

	rec := postJSON(t, fx.server.Handler(), "/api/chat", `{"message":"hi","stream":false}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Response string         `json:"response"`
		Context  []docmgr.Chunk `json:"context"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "The answer.", body.Response)
	require.Len(t, body.Context, 1)
	assert.Equal(t, "a.txt", body.Context[0].Metadata.OriginalFilename)
}

func TestChatEmptyMessage(t *testing.T) {
	fx := newServerFixture(t)

	rec := postJSON(t, fx.server.Handler(), "/api/chat", `{"message":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Message is required"}`, rec.Body.String())
}

func TestChatMalformedBody(t *testing.T) {
	fx := newServerFixture(t)

	rec := postJSON(t, fx.server.Handler(), "/api/chat", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch(t *testing.T) {
	fx := newServerFixture(t)
	fx.search.chunks = []docmgr.Chunk{{Content: "found"}}

	rec := postJSON(t, fx.server.Handler(), "/api/search", `{"query":"topic","n_results":7}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "topic", fx.search.gotQuery)
	assert.Equal(t, 7, fx.search.gotN)

	var body struct {
		Results []docmgr.Chunk `json:"results"`
		Query   string         `json:"query"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "topic", body.Query)
	require.Len(t, body.Results, 1)
}

func TestSearchClampsRequestedCount(t *testing.T) {
	fx := newServerFixture(t)

	postJSON(t, fx.server.Handler(), "/api/search", `{"query":"q","n_results":500}`)
	assert.Equal(t, 20, fx.search.gotN)

	postJSON(t, fx.server.Handler(), "/api/search", `{"query":"q"}`)
	assert.Equal(t, 5, fx.search.gotN, "absent n_results falls back to the default")
}

func TestSearchEmptyQuery(t *testing.T) {
	fx := newServerFixture(t)

	rec := postJSON(t, fx.server.Handler(), "/api/search", `{"query":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Query is required"}`, rec.Body.String())
}

func TestSearchEmptyBackendResultIsArray(t *testing.T) {
	fx := newServerFixture(t)
	fx.search.chunks = nil

	rec := postJSON(t, fx.server.Handler(), "/api/search", `{"query":"nothing"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestFunctions(t *testing.T) {
	fx := newServerFixture(t)

	rec := getPath(t, fx.server.Handler(), "/api/functions")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Functions map[string]struct {
			Description string         `json:"description"`
			Parameters  map[string]any `json:"parameters"`
		} `json:"functions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body.Functions, "search_documents")
	assert.Equal(t, "Search documents", body.Functions["search_documents"].Description)
}

func TestHealth(t *testing.T) {
	fx := newServerFixture(t)

	rec := getPath(t, fx.server.Handler(), "/api/health")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","docmgr_url":"http://localhost:8000"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	fx := newServerFixture(t)

	rec := getPath(t, fx.server.Handler(), "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
