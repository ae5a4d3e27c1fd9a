package events

import (
	"errors"
	"fmt"
)

// ReasoningStartEvent opens a reasoning phase. A phase may span several
// reasoning messages.
type ReasoningStartEvent struct {
	BaseEvent
	ReasoningID string `json:"reasoningId"`
}

// NewReasoningStartEvent creates a REASONING_START event.
func NewReasoningStartEvent(reasoningID string) *ReasoningStartEvent {
	return &ReasoningStartEvent{
		BaseEvent:   newBase(EventTypeReasoningStart),
		ReasoningID: reasoningID,
	}
}

// Validate checks the event's required fields.
func (e *ReasoningStartEvent) Validate() error {
	if e.ReasoningID == "" {
		return errors.New("REASONING_START: reasoningId is required")
	}
	return nil
}

// ReasoningEndEvent closes a reasoning phase.
type ReasoningEndEvent struct {
	BaseEvent
	ReasoningID string `json:"reasoningId"`
}

// NewReasoningEndEvent creates a REASONING_END event.
func NewReasoningEndEvent(reasoningID string) *ReasoningEndEvent {
	return &ReasoningEndEvent{
		BaseEvent:   newBase(EventTypeReasoningEnd),
		ReasoningID: reasoningID,
	}
}

// Validate checks the event's required fields.
func (e *ReasoningEndEvent) Validate() error {
	if e.ReasoningID == "" {
		return errors.New("REASONING_END: reasoningId is required")
	}
	return nil
}

// ReasoningMessageStartEvent opens a streamed reasoning message. The state
// machine materializes it as a message with role "reasoning".
type ReasoningMessageStartEvent struct {
	BaseEvent
	MessageID string `json:"messageId"`
	Role      Role   `json:"role,omitempty"`
}

// NewReasoningMessageStartEvent creates a REASONING_MESSAGE_START event.
// The role is fixed to assistant on the wire.
func NewReasoningMessageStartEvent(messageID string) *ReasoningMessageStartEvent {
	return &ReasoningMessageStartEvent{
		BaseEvent: newBase(EventTypeReasoningMessageStart),
		MessageID: messageID,
		Role:      RoleAssistant,
	}
}

// Validate checks the event's required fields.
func (e *ReasoningMessageStartEvent) Validate() error {
	if e.MessageID == "" {
		return errors.New("REASONING_MESSAGE_START: messageId is required")
	}
	return nil
}

// ReasoningMessageContentEvent carries one streamed reasoning delta. Unlike
// text message deltas, reasoning deltas may be empty or whitespace-only;
// providers emit such deltas between reasoning blocks.
type ReasoningMessageContentEvent struct {
	BaseEvent
	MessageID string `json:"messageId"`
	Delta     string `json:"delta"`
}

// NewReasoningMessageContentEvent creates a REASONING_MESSAGE_CONTENT event.
func NewReasoningMessageContentEvent(messageID, delta string) *ReasoningMessageContentEvent {
	return &ReasoningMessageContentEvent{
		BaseEvent: newBase(EventTypeReasoningMessageContent),
		MessageID: messageID,
		Delta:     delta,
	}
}

// Validate checks the event's required fields.
func (e *ReasoningMessageContentEvent) Validate() error {
	if e.MessageID == "" {
		return errors.New("REASONING_MESSAGE_CONTENT: messageId is required")
	}
	return nil
}

// ReasoningMessageEndEvent closes a streamed reasoning message.
type ReasoningMessageEndEvent struct {
	BaseEvent
	MessageID string `json:"messageId"`
}

// NewReasoningMessageEndEvent creates a REASONING_MESSAGE_END event.
func NewReasoningMessageEndEvent(messageID string) *ReasoningMessageEndEvent {
	return &ReasoningMessageEndEvent{
		BaseEvent: newBase(EventTypeReasoningMessageEnd),
		MessageID: messageID,
	}
}

// Validate checks the event's required fields.
func (e *ReasoningMessageEndEvent) Validate() error {
	if e.MessageID == "" {
		return errors.New("REASONING_MESSAGE_END: messageId is required")
	}
	return nil
}

// ReasoningMessageChunkEvent aggregates reasoning start/content/end. The
// pipeline package expands chunks before state application.
type ReasoningMessageChunkEvent struct {
	BaseEvent
	MessageID string `json:"messageId,omitempty"`
	Delta     string `json:"delta,omitempty"`
}

// NewReasoningMessageChunkEvent creates a REASONING_MESSAGE_CHUNK event.
func NewReasoningMessageChunkEvent(messageID, delta string) *ReasoningMessageChunkEvent {
	return &ReasoningMessageChunkEvent{
		BaseEvent: newBase(EventTypeReasoningMessageChunk),
		MessageID: messageID,
		Delta:     delta,
	}
}

// Validate checks the event's required fields.
func (e *ReasoningMessageChunkEvent) Validate() error { return nil }

// EncryptedValueSubtype selects the entity kind an encrypted value
// attaches to.
type EncryptedValueSubtype string

const (
	// EncryptedValueMessage attaches the value to a message.
	EncryptedValueMessage EncryptedValueSubtype = "message"

	// EncryptedValueToolCall attaches the value to a tool call.
	EncryptedValueToolCall EncryptedValueSubtype = "tool-call"
)

// ReasoningEncryptedValueEvent attaches an opaque provider signature to a
// message or tool call, preserving provider-specific reasoning continuity
// across turns. The payload is never interpreted by the protocol.
type ReasoningEncryptedValueEvent struct {
	BaseEvent
	Subtype        EncryptedValueSubtype `json:"subtype"`
	EntityID       string                `json:"entityId"`
	EncryptedValue string                `json:"encryptedValue"`
}

// NewReasoningEncryptedValueEvent creates a REASONING_ENCRYPTED_VALUE event.
func NewReasoningEncryptedValueEvent(subtype EncryptedValueSubtype, entityID, value string) *ReasoningEncryptedValueEvent {
	return &ReasoningEncryptedValueEvent{
		BaseEvent:      newBase(EventTypeReasoningEncryptedValue),
		Subtype:        subtype,
		EntityID:       entityID,
		EncryptedValue: value,
	}
}

// Validate checks the event's required fields.
func (e *ReasoningEncryptedValueEvent) Validate() error {
	switch e.Subtype {
	case EncryptedValueMessage, EncryptedValueToolCall:
	default:
		return fmt.Errorf("REASONING_ENCRYPTED_VALUE: unknown subtype %q", e.Subtype)
	}
	if e.EntityID == "" {
		return errors.New("REASONING_ENCRYPTED_VALUE: entityId is required")
	}
	return nil
}

// ThinkingStartEvent opens a thinking phase.
//
// Deprecated: producers should emit [ReasoningStartEvent]. The pipeline
// package translates thinking events for existing producers.
type ThinkingStartEvent struct {
	BaseEvent
	Title string `json:"title,omitempty"`
}

// NewThinkingStartEvent creates a THINKING_START event.
//
// Deprecated: use NewReasoningStartEvent.
func NewThinkingStartEvent(title string) *ThinkingStartEvent {
	return &ThinkingStartEvent{
		BaseEvent: newBase(EventTypeThinkingStart),
		Title:     title,
	}
}

// Validate checks the event's required fields.
func (e *ThinkingStartEvent) Validate() error { return nil }

// ThinkingEndEvent closes a thinking phase.
//
// Deprecated: use [ReasoningEndEvent].
type ThinkingEndEvent struct {
	BaseEvent
}

// NewThinkingEndEvent creates a THINKING_END event.
//
// Deprecated: use NewReasoningEndEvent.
func NewThinkingEndEvent() *ThinkingEndEvent {
	return &ThinkingEndEvent{BaseEvent: newBase(EventTypeThinkingEnd)}
}

// Validate checks the event's required fields.
func (e *ThinkingEndEvent) Validate() error { return nil }

// ThinkingTextMessageStartEvent opens a thinking message.
//
// Deprecated: use [ReasoningMessageStartEvent].
type ThinkingTextMessageStartEvent struct {
	BaseEvent
}

// NewThinkingTextMessageStartEvent creates a THINKING_TEXT_MESSAGE_START event.
//
// Deprecated: use NewReasoningMessageStartEvent.
func NewThinkingTextMessageStartEvent() *ThinkingTextMessageStartEvent {
	return &ThinkingTextMessageStartEvent{BaseEvent: newBase(EventTypeThinkingTextMessageStart)}
}

// Validate checks the event's required fields.
func (e *ThinkingTextMessageStartEvent) Validate() error { return nil }

// ThinkingTextMessageContentEvent carries one thinking content delta.
//
// Deprecated: use [ReasoningMessageContentEvent].
type ThinkingTextMessageContentEvent struct {
	BaseEvent
	Delta string `json:"delta"`
}

// NewThinkingTextMessageContentEvent creates a THINKING_TEXT_MESSAGE_CONTENT event.
//
// Deprecated: use NewReasoningMessageContentEvent.
func NewThinkingTextMessageContentEvent(delta string) *ThinkingTextMessageContentEvent {
	return &ThinkingTextMessageContentEvent{
		BaseEvent: newBase(EventTypeThinkingTextMessageContent),
		Delta:     delta,
	}
}

// Validate checks the event's required fields. Thinking deltas must be
// non-empty.
func (e *ThinkingTextMessageContentEvent) Validate() error {
	if e.Delta == "" {
		return errors.New("THINKING_TEXT_MESSAGE_CONTENT: delta must not be empty")
	}
	return nil
}

// ThinkingTextMessageEndEvent closes a thinking message.
//
// Deprecated: use [ReasoningMessageEndEvent].
type ThinkingTextMessageEndEvent struct {
	BaseEvent
}

// NewThinkingTextMessageEndEvent creates a THINKING_TEXT_MESSAGE_END event.
//
// Deprecated: use NewReasoningMessageEndEvent.
func NewThinkingTextMessageEndEvent() *ThinkingTextMessageEndEvent {
	return &ThinkingTextMessageEndEvent{BaseEvent: newBase(EventTypeThinkingTextMessageEnd)}
}

// Validate checks the event's required fields.
func (e *ThinkingTextMessageEndEvent) Validate() error { return nil }
