// Non-streaming orchestrator - the single-shot fallback transport.
// Same pipeline as the streaming orchestrator collapsed into
// synchronous calls; every fault yields a fallback string, never an
// error, to the caller.

package chat

import (
	"context"
	"time"

	"github.com/docmgr/docchat/docmgr"
	"github.com/docmgr/docchat/llm"
	"github.com/docmgr/docchat/observability"
	"github.com/docmgr/docchat/tools"
)

// Responder answers one chat request with a single aggregated string.
type Responder struct {
	opts Options
}

// NewResponder creates a non-streaming orchestrator. The typing delay
// in Options is ignored; there is no incremental output to pace.
func NewResponder(opts Options) *Responder {
	opts.applyDefaults()
	return &Responder{opts: opts}
}

// Respond runs retrieval, one provider call, tool execution if the
// model requested it, and a continuation call. It returns the answer
// text and the context chunks it was grounded on; the chunk slice is
// empty when no relevant context was found.
func (r *Responder) Respond(ctx context.Context, userMessage string) (string, []docmgr.Chunk) {
	log := observability.RequestLogger(r.opts.Logger)
	start := time.Now()
	ok := true
	defer func() {
		observability.RecordChatRequest("simple", ok)
		observability.ObserveChatDuration("simple", time.Since(start))
	}()

	if r.opts.Provider == nil {
		log.Warn().Msg("chat request refused: provider credential not configured")
		ok = false
		return credentialMessage(r.opts.CredentialEnv), []docmgr.Chunk{}
	}

	chunks := r.opts.Retriever.Search(ctx, userMessage, r.opts.SearchResults)
	if len(chunks) == 0 {
		log.Info().Msg("no relevant context found, skipping provider call")
		return msgNoContext, []docmgr.Chunk{}
	}

	systemPrompt := BuildSystemPrompt(chunks, r.opts.Registry.Names())
	messages := InitialMessages(systemPrompt, userMessage)

	firstCall := llm.CallOptions{
		MaxTokens:   toolCallMaxTokens,
		Temperature: chatTemperature,
		Tools:       Definitions(r.opts.Registry),
	}
	response, err := r.opts.Provider.Chat(ctx, messages, firstCall)
	if err != nil {
		log.Error().Err(err).Msg("provider call failed")
		observability.RecordProviderCall(r.opts.Provider.Name(), false)
		ok = false
		return msgGenericError, chunks
	}
	observability.RecordProviderCall(r.opts.Provider.Name(), true)

	if len(response.ToolCalls) == 0 {
		return response.Content, chunks
	}

	results := make([]tools.ToolResult, len(response.ToolCalls))
	for i, call := range response.ToolCalls {
		log.Info().Str("tool", call.Name).Msg("executing tool call")
		results[i] = r.opts.Executor.Execute(ctx, call.Name, string(call.Arguments))
	}
	messages = AppendToolRound(messages, response.Content, response.ToolCalls, results)

	continuation := llm.CallOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: chatTemperature,
	}
	final, err := r.opts.Provider.Chat(ctx, messages, continuation)
	if err != nil {
		log.Error().Err(err).Msg("continuation call failed")
		observability.RecordProviderCall(r.opts.Provider.Name(), false)
		ok = false
		return msgGenericError, chunks
	}
	observability.RecordProviderCall(r.opts.Provider.Name(), true)

	return final.Content, chunks
}
