// Package chat contains the orchestration core: it turns one user
// message into provider calls, executes tool calls the model requests,
// and produces either an ordered output-event stream or a single
// aggregated answer.
package chat

// EventType tags one unit of the output stream.
type EventType string

// Output event types, in the order they can appear. Exactly one End or
// Error terminates a request's stream, and nothing follows it.
const (
	EventTyping       EventType = "typing"
	EventStart        EventType = "start"
	EventContent      EventType = "content"
	EventFunctionCall EventType = "function_call"
	EventEnd          EventType = "end"
	EventError        EventType = "error"
)

// Event is the wire contract of the streaming orchestrator: a
// type-tagged object serialized as a single line.
type Event struct {
	Type    EventType `json:"type"`
	Content string    `json:"content"`
}

// Terminal reports whether the event ends the stream.
func (e Event) Terminal() bool {
	return e.Type == EventEnd || e.Type == EventError
}

// TypingEvent signals the client to show a typing indicator.
func TypingEvent() Event { return Event{Type: EventTyping, Content: "typing"} }

// StartEvent marks the beginning of answer content.
func StartEvent() Event { return Event{Type: EventStart} }

// ContentEvent carries one fragment of answer text.
func ContentEvent(text string) Event { return Event{Type: EventContent, Content: text} }

// FunctionCallEvent tells the client a tool is being invoked.
func FunctionCallEvent(notice string) Event { return Event{Type: EventFunctionCall, Content: notice} }

// EndEvent terminates a successful stream.
func EndEvent() Event { return Event{Type: EventEnd} }

// ErrorEvent terminates a stream with a message. It doubles as the
// carrier for benign terminal notices such as "no relevant documents".
func ErrorEvent(message string) Event { return Event{Type: EventError, Content: message} }
