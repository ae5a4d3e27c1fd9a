package events

import "errors"

// TextMessageStartEvent opens a streamed text message. The message ID is the
// join key between the text and tool call sub-protocols: a start referencing
// an ID already created by a tool call start reuses that message rather than
// creating a second one.
type TextMessageStartEvent struct {
	BaseEvent
	MessageID string `json:"messageId"`
	Role      Role   `json:"role,omitempty"`
}

// TextMessageStartOption configures a TextMessageStartEvent.
type TextMessageStartOption func(*TextMessageStartEvent)

// WithRole sets the message role. Defaults to assistant.
func WithRole(role Role) TextMessageStartOption {
	return func(e *TextMessageStartEvent) { e.Role = role }
}

// NewTextMessageStartEvent creates a TEXT_MESSAGE_START event.
func NewTextMessageStartEvent(messageID string, opts ...TextMessageStartOption) *TextMessageStartEvent {
	e := &TextMessageStartEvent{
		BaseEvent: newBase(EventTypeTextMessageStart),
		MessageID: messageID,
		Role:      RoleAssistant,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks the event's required fields.
func (e *TextMessageStartEvent) Validate() error {
	if e.MessageID == "" {
		return errors.New("TEXT_MESSAGE_START: messageId is required")
	}
	return nil
}

// TextMessageContentEvent carries one streamed content delta. Deltas are
// concatenated in arrival order by the state machine.
type TextMessageContentEvent struct {
	BaseEvent
	MessageID string `json:"messageId"`
	Delta     string `json:"delta"`
}

// NewTextMessageContentEvent creates a TEXT_MESSAGE_CONTENT event.
func NewTextMessageContentEvent(messageID, delta string) *TextMessageContentEvent {
	return &TextMessageContentEvent{
		BaseEvent: newBase(EventTypeTextMessageContent),
		MessageID: messageID,
		Delta:     delta,
	}
}

// Validate checks the event's required fields. Text message deltas must be
// non-empty; an empty delta indicates a malformed producer.
func (e *TextMessageContentEvent) Validate() error {
	if e.MessageID == "" {
		return errors.New("TEXT_MESSAGE_CONTENT: messageId is required")
	}
	if e.Delta == "" {
		return errors.New("TEXT_MESSAGE_CONTENT: delta must not be empty")
	}
	return nil
}

// TextMessageEndEvent closes a streamed text message.
type TextMessageEndEvent struct {
	BaseEvent
	MessageID string `json:"messageId"`
}

// NewTextMessageEndEvent creates a TEXT_MESSAGE_END event.
func NewTextMessageEndEvent(messageID string) *TextMessageEndEvent {
	return &TextMessageEndEvent{
		BaseEvent: newBase(EventTypeTextMessageEnd),
		MessageID: messageID,
	}
}

// Validate checks the event's required fields.
func (e *TextMessageEndEvent) Validate() error {
	if e.MessageID == "" {
		return errors.New("TEXT_MESSAGE_END: messageId is required")
	}
	return nil
}

// TextMessageChunkEvent is an authoring convenience that aggregates
// start/content/end. The pipeline package expands chunks before state
// application; the state machine rejects them outright.
type TextMessageChunkEvent struct {
	BaseEvent
	MessageID string `json:"messageId,omitempty"`
	Role      Role   `json:"role,omitempty"`
	Delta     string `json:"delta,omitempty"`
}

// NewTextMessageChunkEvent creates a TEXT_MESSAGE_CHUNK event. An empty
// messageID lets the chunk expander assign one.
func NewTextMessageChunkEvent(messageID, delta string) *TextMessageChunkEvent {
	return &TextMessageChunkEvent{
		BaseEvent: newBase(EventTypeTextMessageChunk),
		MessageID: messageID,
		Delta:     delta,
	}
}

// Validate checks the event's required fields. Chunks carry no required
// fields; the expander supplies missing identifiers.
func (e *TextMessageChunkEvent) Validate() error { return nil }
