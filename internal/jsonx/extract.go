// Package jsonx provides tolerant JSON extraction for LLM-produced text.
//
// Models sometimes wrap tool-call arguments in markdown fences or
// surround them with commentary. This package recovers the JSON object
// from such text so malformed framing does not abort a tool call.
package jsonx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseArguments parses a tool-call argument string into a JSON object.
// An empty or whitespace-only string is treated as an empty argument
// object, matching how providers encode no-argument tool calls.
func ParseArguments(raw string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return json.RawMessage(`{}`), nil
	}

	extracted, err := extractObject(trimmed)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(extracted), nil
}

// extractObject finds and returns the JSON object portion of a string.
// It handles common LLM output patterns:
// 1. Pure JSON - returned as-is
// 2. JSON wrapped in markdown code blocks (```json ... ```)
// 3. JSON object embedded in text - first '{' to last '}'
func extractObject(s string) (string, error) {
	s = stripMarkdownCodeBlocks(s)

	var test map[string]any
	if err := json.Unmarshal([]byte(s), &test); err == nil {
		return s, nil
	}

	start := strings.Index(s, "{")
	if start != -1 {
		end := strings.LastIndex(s, "}")
		if end != -1 && end > start {
			candidate := s[start : end+1]
			if err := json.Unmarshal([]byte(candidate), &test); err == nil {
				return candidate, nil
			}
		}
	}

	preview := s
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return "", fmt.Errorf("no valid JSON object in %q", preview)
}

// stripMarkdownCodeBlocks removes code fence markers from a string.
// Handles ```json\n...\n``` and ```\n...\n```.
func stripMarkdownCodeBlocks(s string) string {
	trimmed := strings.TrimSpace(s)

	if strings.HasPrefix(trimmed, "```json") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```json"))
	} else if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
	}

	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
	}

	return trimmed
}
