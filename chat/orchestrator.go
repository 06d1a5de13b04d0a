// Streaming orchestrator - the state machine that drives one or two
// provider calls, executes tool calls the model requests, and emits a
// normalized, totally ordered output-event sequence.
//
// Information Hiding:
// - Provider re-entry after tool execution hidden
// - Tool-call fragment accumulation hidden
// - Fault-to-event conversion hidden

package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/docmgr/docchat/docmgr"
	"github.com/docmgr/docchat/llm"
	"github.com/docmgr/docchat/observability"
	"github.com/docmgr/docchat/tools"
)

// Tuning constants for provider calls and stream pacing.
const (
	// toolCallMaxTokens caps the initial, tool-enabled call.
	toolCallMaxTokens = 1000
	// answerMaxTokens caps plain and continuation calls.
	answerMaxTokens = 500
	// chatTemperature applies to every provider call.
	chatTemperature = 0.7
	// defaultTypingDelay lets the client render a typing indicator
	// before the first token arrives. UX pacing only.
	defaultTypingDelay = 500 * time.Millisecond
	// defaultSearchResults is the number of chunks retrieved per request.
	defaultSearchResults = 3
)

// User-visible strings. Internal diagnostics never leak into these.
const (
	msgNoContext = "I don't have any relevant documents to answer your question. " +
		"Please try rephrasing or ask about something else."
	msgGenericError = "Sorry, I encountered an error while processing your request."
	// continuationPrefix introduces the natural-language continuation
	// produced after tool results are fed back to the model.
	continuationPrefix = "Here's what I found:\n\n"
)

// Retriever fetches ranked context chunks for a query. An empty result
// means "no relevant context", never a fault.
type Retriever interface {
	Search(ctx context.Context, query string, nResults int) []docmgr.Chunk
}

// Options configure an orchestrator. Provider may be nil when the
// credential is absent; every request then terminates with a
// configuration error before any network call is made.
type Options struct {
	Provider      llm.Provider
	CredentialEnv string // env var named in the configuration-error message
	Retriever     Retriever
	Registry      *tools.Registry
	Executor      *tools.Executor
	Logger        zerolog.Logger
	SearchResults int           // default 3
	TypingDelay   time.Duration // default 500ms
}

func (o *Options) applyDefaults() {
	if o.SearchResults == 0 {
		o.SearchResults = defaultSearchResults
	}
	if o.TypingDelay == 0 {
		o.TypingDelay = defaultTypingDelay
	}
}

// Orchestrator produces the output-event stream for one chat request.
// It holds no per-request state; a single instance serves concurrent
// requests.
type Orchestrator struct {
	opts Options
}

// NewOrchestrator creates a streaming orchestrator.
func NewOrchestrator(opts Options) *Orchestrator {
	opts.applyDefaults()
	return &Orchestrator{opts: opts}
}

// Stream runs the full orchestration for one user message. The
// returned channel carries events in strict emission order and is
// closed after the terminal event; cancelling the context stops
// emission and aborts any in-flight provider call.
func (o *Orchestrator) Stream(ctx context.Context, userMessage string) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		observability.StreamOpened()
		defer observability.StreamClosed()
		start := time.Now()

		ok := o.run(ctx, userMessage, &emitter{ctx: ctx, out: out})

		observability.RecordChatRequest("stream", ok)
		observability.ObserveChatDuration("stream", time.Since(start))
	}()
	return out
}

// run drives the state machine. It returns false when the request
// ended with a fault (as opposed to a normal answer or a benign
// no-context notice).
func (o *Orchestrator) run(ctx context.Context, userMessage string, em *emitter) bool {
	log := observability.RequestLogger(o.opts.Logger)

	if o.opts.Provider == nil {
		log.Warn().Msg("chat request refused: provider credential not configured")
		em.emit(ErrorEvent(credentialMessage(o.opts.CredentialEnv)))
		return false
	}

	chunks := o.opts.Retriever.Search(ctx, userMessage, o.opts.SearchResults)
	if len(chunks) == 0 {
		// Deliberate short-circuit: no provider call when retrieval
		// yields nothing. This is a notice, not a fault.
		log.Info().Msg("no relevant context found, skipping provider call")
		em.emit(ErrorEvent(msgNoContext))
		return true
	}

	systemPrompt := BuildSystemPrompt(chunks, o.opts.Registry.Names())
	messages := InitialMessages(systemPrompt, userMessage)

	if !em.emit(TypingEvent()) {
		return false
	}
	select {
	case <-time.After(o.opts.TypingDelay):
	case <-ctx.Done():
		return false
	}
	if !em.emit(StartEvent()) {
		return false
	}

	firstCall := llm.CallOptions{
		MaxTokens:   toolCallMaxTokens,
		Temperature: chatTemperature,
		Tools:       Definitions(o.opts.Registry),
	}
	calls, err := o.relayStream(ctx, em, messages, firstCall)
	if err != nil {
		log.Error().Err(err).Msg("provider stream failed")
		em.emit(ErrorEvent(msgGenericError))
		return false
	}

	if len(calls) == 0 {
		em.emit(EndEvent())
		return true
	}

	if !em.emit(FunctionCallEvent(functionCallNotice(calls))) {
		return false
	}

	// All tool results from the turn are batched into one continuation
	// call rather than one provider round-trip per call.
	results := make([]tools.ToolResult, len(calls))
	for i, call := range calls {
		log.Info().Str("tool", call.Name).Msg("executing tool call")
		results[i] = o.opts.Executor.Execute(ctx, call.Name, string(call.Arguments))
	}
	messages = AppendToolRound(messages, "", calls, results)

	if !em.emit(ContentEvent(continuationPrefix)) {
		return false
	}
	continuation := llm.CallOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: chatTemperature,
		// No tool catalog: force a natural-language continuation.
	}
	if _, err := o.relayStream(ctx, em, messages, continuation); err != nil {
		log.Error().Err(err).Msg("continuation stream failed")
		em.emit(ErrorEvent(msgGenericError))
		return false
	}

	em.emit(EndEvent())
	return true
}

// relayStream opens one streaming provider call, relaying answer text
// as content events the moment each delta arrives and accumulating
// tool-call fragments per call. It returns the complete tool calls
// once the provider signals turn completion.
func (o *Orchestrator) relayStream(ctx context.Context, em *emitter, messages []llm.ChatMessage, opts llm.CallOptions) ([]llm.ToolCall, error) {
	deltas := make(chan llm.StreamDelta)
	errCh := make(chan error, 1)
	go func() {
		errCh <- o.opts.Provider.StreamChat(ctx, messages, opts, deltas)
		close(deltas)
	}()

	acc := newToolCallAccumulator()
	for delta := range deltas {
		if delta.Content != "" {
			if !em.emit(ContentEvent(delta.Content)) {
				for range deltas {
					// drain so the provider goroutine can finish
				}
				<-errCh
				return nil, ctx.Err()
			}
		}
		if delta.ToolCall != nil {
			acc.add(delta.ToolCall)
		}
	}

	if err := <-errCh; err != nil {
		observability.RecordProviderCall(o.opts.Provider.Name(), false)
		return nil, err
	}
	observability.RecordProviderCall(o.opts.Provider.Name(), true)
	return acc.drain(), nil
}

// emitter serializes events onto the output channel and enforces the
// terminal invariant: after an end or error event nothing is emitted.
type emitter struct {
	ctx        context.Context
	out        chan<- Event
	terminated bool
}

// emit sends one event unless the stream already terminated or the
// consumer went away. It reports whether emission may continue.
func (e *emitter) emit(ev Event) bool {
	if e.terminated {
		return false
	}
	select {
	case e.out <- ev:
		if ev.Terminal() {
			e.terminated = true
		}
		return !e.terminated
	case <-e.ctx.Done():
		e.terminated = true
		return false
	}
}

// toolCallAccumulator collects tool-call fragments keyed by the call's
// index within the assistant turn. Argument text may arrive split
// across many deltas in arbitrary interleavings; fragments are flushed
// to complete calls only when the provider stream ends.
type toolCallAccumulator struct {
	order []int
	calls map[int]*pendingToolCall
}

type pendingToolCall struct {
	id   string
	name string
	args strings.Builder
}

func newToolCallAccumulator() *toolCallAccumulator {
	return &toolCallAccumulator{calls: make(map[int]*pendingToolCall)}
}

func (a *toolCallAccumulator) add(delta *llm.ToolCallDelta) {
	pending, ok := a.calls[delta.Index]
	if !ok {
		pending = &pendingToolCall{}
		a.calls[delta.Index] = pending
		a.order = append(a.order, delta.Index)
	}
	if delta.ID != "" {
		pending.id = delta.ID
	}
	if delta.Name != "" {
		pending.name = delta.Name
	}
	pending.args.WriteString(delta.Arguments)
}

// drain flushes the accumulated fragments into complete tool calls in
// arrival order. Calls missing an id get a synthetic one so the tool
// round can still be correlated.
func (a *toolCallAccumulator) drain() []llm.ToolCall {
	var calls []llm.ToolCall
	for _, index := range a.order {
		pending := a.calls[index]
		id := pending.id
		if id == "" {
			id = fmt.Sprintf("call_%d", index)
		}
		calls = append(calls, llm.ToolCall{
			ID:        id,
			Name:      pending.name,
			Arguments: json.RawMessage(pending.args.String()),
		})
	}
	return calls
}

func credentialMessage(env string) string {
	if env == "" {
		env = "the provider API key"
	}
	return fmt.Sprintf("LLM API key not configured. Please set the %s environment variable.", env)
}

func functionCallNotice(calls []llm.ToolCall) string {
	return fmt.Sprintf("Fetching data from the document manager: %s", strings.Join(callNames(calls), ", "))
}
