package jsonx

import (
	"encoding/json"
	"testing"
)

func TestParseArgumentsPureJSON(t *testing.T) {
	raw, err := ParseArguments(`{"document_id": "d1"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if args["document_id"] != "d1" {
		t.Errorf("expected document_id 'd1', got %v", args["document_id"])
	}
}

func TestParseArgumentsEmptyString(t *testing.T) {
	for _, input := range []string{"", "   ", "\n"} {
		raw, err := ParseArguments(input)
		if err != nil {
			t.Errorf("ParseArguments(%q) returned error: %v", input, err)
			continue
		}
		if string(raw) != "{}" {
			t.Errorf("ParseArguments(%q) = %s, want {}", input, raw)
		}
	}
}

func TestParseArgumentsMarkdownFenced(t *testing.T) {
	raw, err := ParseArguments("```json\n{\"query\": \"reports\"}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if args["query"] != "reports" {
		t.Errorf("expected query 'reports', got %v", args["query"])
	}
}

func TestParseArgumentsEmbeddedInText(t *testing.T) {
	raw, err := ParseArguments(`Here are the arguments: {"n_results": 5} as requested.`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if args["n_results"] != float64(5) {
		t.Errorf("expected n_results 5, got %v", args["n_results"])
	}
}

func TestParseArgumentsMalformed(t *testing.T) {
	for _, input := range []string{"not json at all", `{"broken":`, "[1,2,3]"} {
		if _, err := ParseArguments(input); err == nil {
			t.Errorf("ParseArguments(%q) succeeded, want error", input)
		}
	}
}
