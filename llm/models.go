// Package llm provides shared data models for LLM providers.
package llm

import "encoding/json"

// Message roles. The message sequence sent to a provider always starts
// with exactly one system message; a tool message only ever follows the
// assistant message that declared its tool call.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatMessage represents a chat message with role and content.
// Once appended to a conversation a message is never edited;
// corrections are made by appending new messages.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // for assistant messages declaring tool calls
	ToolCallID string     `json:"tool_call_id,omitempty"` // for tool result messages
	Name       string     `json:"name,omitempty"`         // tool name on tool result messages
}

// ToolCall represents a complete tool call requested by the model.
// Arguments are untrusted text emitted by the model and must be parsed
// before use.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition defines a tool exposed to the model as part of its
// function-calling catalog.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// SystemMessage creates a system message.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}

// ToolMessage creates a tool result message tied to a prior tool call.
func ToolMessage(toolCallID, toolName, content string) ChatMessage {
	return ChatMessage{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: toolCallID,
		Name:       toolName,
	}
}

// Response represents a complete (non-streaming) provider response.
type Response struct {
	Content   string
	ToolCalls []ToolCall // tool calls requested by the model, if any
}

// CallOptions carry per-call parameters. Attaching Tools exposes the
// catalog with automatic tool choice; a nil Tools slice forces a plain
// natural-language completion.
type CallOptions struct {
	MaxTokens   int
	Temperature float32
	Tools       []ToolDefinition
}

// StreamDelta is one unit of incremental provider output: either a
// fragment of answer text or a fragment of a tool call. Tool-call
// argument text may arrive split across many deltas and must be
// concatenated per call before execution.
type StreamDelta struct {
	Content  string
	ToolCall *ToolCallDelta
}

// ToolCallDelta is an incremental tool-call fragment. Index identifies
// the call within the assistant turn; ID and Name arrive on the first
// fragment, Arguments accumulate across fragments.
type ToolCallDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}
