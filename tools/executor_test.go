package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// argTool requires a "document_id" argument.
type argTool struct {
	name string
}

func (t *argTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:        t.name,
		Description: "requires document_id",
		Parameters: objectSchema(map[string]any{
			"document_id": map[string]any{"type": "string"},
		}, "document_id"),
	}
}

func (t *argTool) Validate(args json.RawMessage) error {
	_, err := requireString(args, "document_id")
	return err
}

func (t *argTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	id, _ := requireString(args, "document_id")
	return OkResult(json.RawMessage(`{"id":"` + id + `"}`))
}

// failingTool always reports a backend failure.
type failingTool struct {
	BaseTool
}

func (t *failingTool) Metadata() ToolMetadata {
	return ToolMetadata{Name: "failing", Description: "always fails", Parameters: objectSchema(map[string]any{})}
}

func (t *failingTool) Execute(ctx context.Context, args json.RawMessage) ToolResult {
	return ErrorResult(errors.New("backend returned status 503").Error())
}

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	registry := NewRegistry()
	if err := registry.Register(&argTool{name: "get_document_info"}); err != nil {
		t.Fatal(err)
	}
	if err := registry.Register(&failingTool{}); err != nil {
		t.Fatal(err)
	}
	return NewExecutor(registry)
}

func TestExecuteUnknownTool(t *testing.T) {
	executor := newTestExecutor(t)

	result := executor.Execute(t.Context(), "does_not_exist", "{}")
	if result.OK() {
		t.Fatal("expected error result for unknown tool")
	}
	if result.Err != "unknown tool: does_not_exist" {
		t.Errorf("unexpected error message: %q", result.Err)
	}
}

func TestExecuteMissingRequiredArgument(t *testing.T) {
	executor := newTestExecutor(t)

	result := executor.Execute(t.Context(), "get_document_info", "{}")
	if result.OK() {
		t.Fatal("expected error result for missing argument")
	}
	if result.Err != "document_id is required" {
		t.Errorf("expected argument-specific message, got %q", result.Err)
	}
}

func TestExecuteMalformedArguments(t *testing.T) {
	executor := newTestExecutor(t)

	result := executor.Execute(t.Context(), "get_document_info", "this is not json")
	if result.OK() {
		t.Fatal("expected error result for malformed arguments")
	}
	if !strings.Contains(result.Err, "invalid tool arguments") {
		t.Errorf("unexpected error message: %q", result.Err)
	}
}

func TestExecuteEmptyArgumentsTreatedAsEmptyObject(t *testing.T) {
	executor := newTestExecutor(t)

	// The failing tool takes no arguments; an empty raw string must not
	// be rejected before execution.
	result := executor.Execute(t.Context(), "failing", "")
	if result.OK() {
		t.Fatal("expected the tool's own failure, not a parse failure")
	}
	if !strings.Contains(result.Err, "503") {
		t.Errorf("expected backend failure to surface, got %q", result.Err)
	}
}

func TestExecuteSuccess(t *testing.T) {
	executor := newTestExecutor(t)

	result := executor.Execute(t.Context(), "get_document_info", `{"document_id":"d42"}`)
	if !result.OK() {
		t.Fatalf("unexpected failure: %q", result.Err)
	}
	if string(result.Payload) != `{"id":"d42"}` {
		t.Errorf("unexpected payload: %s", result.Payload)
	}
}

func TestExecuteNeverPanics(t *testing.T) {
	executor := newTestExecutor(t)

	// A sweep of hostile inputs; every call must return a value.
	inputs := []struct{ name, args string }{
		{"", ""},
		{"get_document_info", `{"document_id": 7}`},
		{"get_document_info", `[]`},
		{"failing", "```json\n{}\n```"},
	}
	for _, in := range inputs {
		result := executor.Execute(t.Context(), in.name, in.args)
		if result.OK() && in.name != "failing" {
			continue
		}
		if result.Err == "" && !result.OK() {
			t.Errorf("Execute(%q, %q) returned failure with empty message", in.name, in.args)
		}
	}
}
