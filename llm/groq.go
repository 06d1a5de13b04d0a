// Groq Provider implementation using go-openai library.
//
// Information Hiding:
// - Uses Groq's OpenAI-compatible API with a different base URL
// - Streaming and tool calling via go-openai library

package llm

const groqBaseURL = "https://api.groq.com/openai/v1"

// NewGroqProvider creates a provider against Groq's OpenAI-compatible API.
func NewGroqProvider(apiKey, model string) *OpenAIProvider {
	return newCompatProvider("groq", groqBaseURL, apiKey, model)
}
