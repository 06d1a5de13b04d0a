// Package tools provides the tool system exposed to the model.
//
// Information Hiding:
// - Tool execution details hidden behind interface
// - Tool parameter schemas hidden in implementations
// - Registry implementation details hidden from consumers
// - Error handling internalized per tool
package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// ToolMetadata describes what a tool does and how to call it.
// Parameters is a JSON Schema object.
type ToolMetadata struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// String returns a string representation of the tool metadata.
func (m ToolMetadata) String() string {
	return fmt.Sprintf("%s: %s", m.Name, m.Description)
}

// ToolResult represents the outcome of a tool execution as a value.
// Failures never cross the orchestration boundary as errors; they are
// serialized back into the conversation so the model can react to them.
type ToolResult struct {
	Payload json.RawMessage `json:"-"` // backend payload, passed through unchanged
	Err     string          `json:"-"` // non-empty means failure
}

// OK reports whether the execution succeeded.
func (r ToolResult) OK() bool {
	return r.Err == ""
}

// MarshalJSON serializes the result in the shape fed back to the model.
func (r ToolResult) MarshalJSON() ([]byte, error) {
	if !r.OK() {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{Success: false, Error: r.Err})
	}
	return json.Marshal(struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}{Success: true, Data: r.Payload})
}

// Serialize returns the result as the content of a tool message.
func (r ToolResult) Serialize() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":%q}`, err.Error())
	}
	return string(b)
}

// OkResult creates a successful tool result.
func OkResult(payload json.RawMessage) ToolResult {
	return ToolResult{Payload: payload}
}

// ErrorResult creates a failed tool result.
func ErrorResult(msg string) ToolResult {
	return ToolResult{Err: msg}
}

// ErrorResultf creates a failed tool result with a formatted message.
func ErrorResultf(format string, args ...any) ToolResult {
	return ToolResult{Err: fmt.Sprintf(format, args...)}
}

// Tool is the interface that all tools must implement.
//
// Execute must be total with respect to its arguments: every failure
// mode is returned as a ToolResult, never raised.
type Tool interface {
	// Metadata returns tool metadata (name, description, schema).
	Metadata() ToolMetadata

	// Validate checks arguments before execution.
	Validate(args json.RawMessage) error

	// Execute runs the tool with validated arguments.
	Execute(ctx context.Context, args json.RawMessage) ToolResult
}

// BaseTool provides a default no-op Validate for argument-free tools.
type BaseTool struct{}

// Validate provides a default no-op validation.
func (BaseTool) Validate(args json.RawMessage) error {
	return nil
}

// objectSchema builds a JSON Schema object with the given properties.
func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// requireString extracts a mandatory string argument, returning an
// argument-specific error when it is missing or empty.
func requireString(args json.RawMessage, field string) (string, error) {
	var parsed map[string]any
	if err := json.Unmarshal(args, &parsed); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	value, ok := parsed[field].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	return value, nil
}
