package events

// EventType identifies the kind of protocol event.
type EventType string

// Run lifecycle events
const (
	// EventTypeRunStarted fires when an agent run begins.
	EventTypeRunStarted EventType = "RUN_STARTED"

	// EventTypeRunFinished fires when an agent run completes successfully.
	EventTypeRunFinished EventType = "RUN_FINISHED"

	// EventTypeRunError fires when an agent run terminates with an error.
	EventTypeRunError EventType = "RUN_ERROR"

	// EventTypeStepStarted fires when an individual step begins.
	EventTypeStepStarted EventType = "STEP_STARTED"

	// EventTypeStepFinished fires when an individual step completes.
	EventTypeStepFinished EventType = "STEP_FINISHED"
)

// Text message events
const (
	// EventTypeTextMessageStart opens a streamed text message.
	EventTypeTextMessageStart EventType = "TEXT_MESSAGE_START"

	// EventTypeTextMessageContent carries a streamed content delta.
	EventTypeTextMessageContent EventType = "TEXT_MESSAGE_CONTENT"

	// EventTypeTextMessageEnd closes a streamed text message.
	EventTypeTextMessageEnd EventType = "TEXT_MESSAGE_END"

	// EventTypeTextMessageChunk is an authoring convenience that aggregates
	// start/content/end. It must be expanded before state application.
	EventTypeTextMessageChunk EventType = "TEXT_MESSAGE_CHUNK"
)

// Reasoning events
const (
	// EventTypeReasoningStart opens a reasoning phase.
	EventTypeReasoningStart EventType = "REASONING_START"

	// EventTypeReasoningEnd closes a reasoning phase.
	EventTypeReasoningEnd EventType = "REASONING_END"

	// EventTypeReasoningMessageStart opens a streamed reasoning message.
	EventTypeReasoningMessageStart EventType = "REASONING_MESSAGE_START"

	// EventTypeReasoningMessageContent carries a reasoning content delta.
	EventTypeReasoningMessageContent EventType = "REASONING_MESSAGE_CONTENT"

	// EventTypeReasoningMessageEnd closes a streamed reasoning message.
	EventTypeReasoningMessageEnd EventType = "REASONING_MESSAGE_END"

	// EventTypeReasoningMessageChunk aggregates reasoning start/content/end.
	// It must be expanded before state application.
	EventTypeReasoningMessageChunk EventType = "REASONING_MESSAGE_CHUNK"

	// EventTypeReasoningEncryptedValue attaches an opaque provider signature
	// to a message or tool call.
	EventTypeReasoningEncryptedValue EventType = "REASONING_ENCRYPTED_VALUE"
)

// Deprecated thinking events, rewritten into reasoning events by the
// pipeline package before they reach the state machine.
const (
	// EventTypeThinkingStart opens a thinking phase.
	//
	// Deprecated: use EventTypeReasoningStart.
	EventTypeThinkingStart EventType = "THINKING_START"

	// EventTypeThinkingEnd closes a thinking phase.
	//
	// Deprecated: use EventTypeReasoningEnd.
	EventTypeThinkingEnd EventType = "THINKING_END"

	// EventTypeThinkingTextMessageStart opens a thinking message.
	//
	// Deprecated: use EventTypeReasoningMessageStart.
	EventTypeThinkingTextMessageStart EventType = "THINKING_TEXT_MESSAGE_START"

	// EventTypeThinkingTextMessageContent carries a thinking content delta.
	//
	// Deprecated: use EventTypeReasoningMessageContent.
	EventTypeThinkingTextMessageContent EventType = "THINKING_TEXT_MESSAGE_CONTENT"

	// EventTypeThinkingTextMessageEnd closes a thinking message.
	//
	// Deprecated: use EventTypeReasoningMessageEnd.
	EventTypeThinkingTextMessageEnd EventType = "THINKING_TEXT_MESSAGE_END"
)

// Tool call events
const (
	// EventTypeToolCallStart opens a streamed tool call.
	EventTypeToolCallStart EventType = "TOOL_CALL_START"

	// EventTypeToolCallArgs carries a tool call arguments delta.
	EventTypeToolCallArgs EventType = "TOOL_CALL_ARGS"

	// EventTypeToolCallEnd closes a streamed tool call.
	EventTypeToolCallEnd EventType = "TOOL_CALL_END"

	// EventTypeToolCallChunk aggregates tool call start/args/end.
	// It must be expanded before state application.
	EventTypeToolCallChunk EventType = "TOOL_CALL_CHUNK"

	// EventTypeToolCallResult carries the result of a tool execution.
	EventTypeToolCallResult EventType = "TOOL_CALL_RESULT"
)

// State events
const (
	// EventTypeStateSnapshot wholesale-replaces the shared state.
	EventTypeStateSnapshot EventType = "STATE_SNAPSHOT"

	// EventTypeStateDelta mutates the shared state with a JSON Patch
	// (RFC 6902) operation sequence.
	EventTypeStateDelta EventType = "STATE_DELTA"

	// EventTypeMessagesSnapshot wholesale-replaces the message history.
	EventTypeMessagesSnapshot EventType = "MESSAGES_SNAPSHOT"

	// EventTypeActivitySnapshot creates or replaces an activity message's
	// structured content.
	EventTypeActivitySnapshot EventType = "ACTIVITY_SNAPSHOT"

	// EventTypeActivityDelta patches an activity message's structured
	// content with a JSON Patch operation sequence.
	EventTypeActivityDelta EventType = "ACTIVITY_DELTA"
)

// Escape hatch events
const (
	// EventTypeRaw passes a foreign event through the protocol unchanged.
	EventTypeRaw EventType = "RAW"

	// EventTypeCustom carries a named, application-defined payload.
	EventTypeCustom EventType = "CUSTOM"
)

// Event is one immutable, typed unit on the protocol wire.
// All concrete event types embed [BaseEvent].
type Event interface {
	// Type returns the discriminating event type.
	Type() EventType

	// Timestamp returns the event timestamp in milliseconds since the Unix
	// epoch, or nil if the producer did not assign one.
	Timestamp() *int64

	// Raw returns the opaque passthrough payload attached to the event,
	// or nil.
	Raw() any

	// Validate reports whether the event satisfies the protocol's
	// per-type field requirements.
	Validate() error
}

// BaseEvent carries the fields shared by every protocol event.
type BaseEvent struct {
	EventType   EventType `json:"type"`
	TimestampMs *int64    `json:"timestamp,omitempty"`
	RawEvent    any       `json:"rawEvent,omitempty"`
}

// Type returns the discriminating event type.
func (b *BaseEvent) Type() EventType { return b.EventType }

// Timestamp returns the event timestamp in epoch milliseconds, or nil.
func (b *BaseEvent) Timestamp() *int64 { return b.TimestampMs }

// SetTimestamp assigns the event timestamp in epoch milliseconds.
func (b *BaseEvent) SetTimestamp(ms int64) { b.TimestampMs = &ms }

// Raw returns the opaque passthrough payload, or nil.
func (b *BaseEvent) Raw() any { return b.RawEvent }

func newBase(t EventType) BaseEvent {
	return BaseEvent{EventType: t}
}

// IsChunk reports whether t is one of the chunk convenience types that must
// be expanded into start/content/end sequences before state application.
func IsChunk(t EventType) bool {
	switch t {
	case EventTypeTextMessageChunk, EventTypeReasoningMessageChunk, EventTypeToolCallChunk:
		return true
	}
	return false
}
