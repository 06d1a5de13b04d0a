// Prompt assembly: the system prompt built from retrieved context and
// the tool catalog, plus the message-sequence manipulation helpers.
//
// All functions here are deterministic given their inputs and have no
// side effects. Message sequences are never edited in place; every
// change appends.

package chat

import (
	"fmt"
	"strings"

	"github.com/docmgr/docchat/docmgr"
	"github.com/docmgr/docchat/llm"
	"github.com/docmgr/docchat/tools"
)

// BuildSystemPrompt assembles the system prompt from retrieved chunks,
// labeled by originating file, and the list of callable tools.
func BuildSystemPrompt(chunks []docmgr.Chunk, toolNames []string) string {
	var context strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "Document: %s\nContent: %s", chunk.Metadata.OriginalFilename, chunk.Content)
	}

	return fmt.Sprintf(`You are a helpful assistant that answers questions based on the provided document context.
Use only the information from the documents to answer questions. If you need data that is not
present in the context, call one of the available tools to fetch it from the document manager.
If the question cannot be answered at all, say so clearly. Be concise and accurate in your responses.

Available tools: %s

Document Context:
%s`, strings.Join(toolNames, ", "), context.String())
}

// InitialMessages builds the opening conversation: exactly one system
// message followed by the user message.
func InitialMessages(systemPrompt, userMessage string) []llm.ChatMessage {
	return []llm.ChatMessage{
		llm.SystemMessage(systemPrompt),
		llm.UserMessage(userMessage),
	}
}

// AppendToolRound appends one assistant message declaring the tool
// calls, then one tool message per call carrying its serialized result.
// The assistant message must precede the tool messages: the provider
// protocol requires a tool message to be causally preceded by the
// assistant turn that requested it.
//
// assistantContent is the model's own text from the turn, if any; when
// empty a short narration is substituted.
func AppendToolRound(messages []llm.ChatMessage, assistantContent string, calls []llm.ToolCall, results []tools.ToolResult) []llm.ChatMessage {
	if assistantContent == "" {
		assistantContent = fmt.Sprintf("Invoking tools: %s", strings.Join(callNames(calls), ", "))
	}

	messages = append(messages, llm.ChatMessage{
		Role:      llm.RoleAssistant,
		Content:   assistantContent,
		ToolCalls: calls,
	})
	for i, call := range calls {
		messages = append(messages, llm.ToolMessage(call.ID, call.Name, results[i].Serialize()))
	}
	return messages
}

// Definitions converts the registry's catalog into provider tool
// definitions.
func Definitions(registry *tools.Registry) []llm.ToolDefinition {
	metadata := registry.List()
	defs := make([]llm.ToolDefinition, len(metadata))
	for i, meta := range metadata {
		defs[i] = llm.ToolDefinition{
			Name:        meta.Name,
			Description: meta.Description,
			Parameters:  meta.Parameters,
		}
	}
	return defs
}

func callNames(calls []llm.ToolCall) []string {
	names := make([]string, len(calls))
	for i, call := range calls {
		names[i] = call.Name
	}
	return names
}
