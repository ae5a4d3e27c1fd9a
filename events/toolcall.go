package events

import "errors"

// ToolCallStartEvent opens a streamed tool call. ParentMessageID names the
// assistant message the call belongs to; when absent, the state machine
// creates a fresh assistant message to hold it.
type ToolCallStartEvent struct {
	BaseEvent
	ToolCallID      string `json:"toolCallId"`
	ToolCallName    string `json:"toolCallName"`
	ParentMessageID string `json:"parentMessageId,omitempty"`
}

// ToolCallStartOption configures a ToolCallStartEvent.
type ToolCallStartOption func(*ToolCallStartEvent)

// WithParentMessageID names the assistant message that owns the tool call.
func WithParentMessageID(id string) ToolCallStartOption {
	return func(e *ToolCallStartEvent) { e.ParentMessageID = id }
}

// NewToolCallStartEvent creates a TOOL_CALL_START event.
func NewToolCallStartEvent(toolCallID, toolCallName string, opts ...ToolCallStartOption) *ToolCallStartEvent {
	e := &ToolCallStartEvent{
		BaseEvent:    newBase(EventTypeToolCallStart),
		ToolCallID:   toolCallID,
		ToolCallName: toolCallName,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks the event's required fields.
func (e *ToolCallStartEvent) Validate() error {
	if e.ToolCallID == "" {
		return errors.New("TOOL_CALL_START: toolCallId is required")
	}
	if e.ToolCallName == "" {
		return errors.New("TOOL_CALL_START: toolCallName is required")
	}
	return nil
}

// ToolCallArgsEvent carries one streamed arguments delta. Deltas concatenate
// in arrival order into the tool call's arguments string.
type ToolCallArgsEvent struct {
	BaseEvent
	ToolCallID string `json:"toolCallId"`
	Delta      string `json:"delta"`
}

// NewToolCallArgsEvent creates a TOOL_CALL_ARGS event.
func NewToolCallArgsEvent(toolCallID, delta string) *ToolCallArgsEvent {
	return &ToolCallArgsEvent{
		BaseEvent:  newBase(EventTypeToolCallArgs),
		ToolCallID: toolCallID,
		Delta:      delta,
	}
}

// Validate checks the event's required fields.
func (e *ToolCallArgsEvent) Validate() error {
	if e.ToolCallID == "" {
		return errors.New("TOOL_CALL_ARGS: toolCallId is required")
	}
	return nil
}

// ToolCallEndEvent closes a streamed tool call.
type ToolCallEndEvent struct {
	BaseEvent
	ToolCallID string `json:"toolCallId"`
}

// NewToolCallEndEvent creates a TOOL_CALL_END event.
func NewToolCallEndEvent(toolCallID string) *ToolCallEndEvent {
	return &ToolCallEndEvent{
		BaseEvent:  newBase(EventTypeToolCallEnd),
		ToolCallID: toolCallID,
	}
}

// Validate checks the event's required fields.
func (e *ToolCallEndEvent) Validate() error {
	if e.ToolCallID == "" {
		return errors.New("TOOL_CALL_END: toolCallId is required")
	}
	return nil
}

// ToolCallChunkEvent aggregates tool call start/args/end. The pipeline
// package expands chunks before state application.
type ToolCallChunkEvent struct {
	BaseEvent
	ToolCallID      string `json:"toolCallId,omitempty"`
	ToolCallName    string `json:"toolCallName,omitempty"`
	ParentMessageID string `json:"parentMessageId,omitempty"`
	Delta           string `json:"delta,omitempty"`
}

// NewToolCallChunkEvent creates a TOOL_CALL_CHUNK event.
func NewToolCallChunkEvent(toolCallID, toolCallName, delta string) *ToolCallChunkEvent {
	return &ToolCallChunkEvent{
		BaseEvent:    newBase(EventTypeToolCallChunk),
		ToolCallID:   toolCallID,
		ToolCallName: toolCallName,
		Delta:        delta,
	}
}

// Validate checks the event's required fields.
func (e *ToolCallChunkEvent) Validate() error { return nil }

// ToolCallResultEvent carries the result of a tool execution. The state
// machine appends it as a standalone tool message correlated by toolCallId.
type ToolCallResultEvent struct {
	BaseEvent
	MessageID  string `json:"messageId"`
	ToolCallID string `json:"toolCallId"`
	Content    string `json:"content"`
	Role       Role   `json:"role,omitempty"`
}

// NewToolCallResultEvent creates a TOOL_CALL_RESULT event.
func NewToolCallResultEvent(messageID, toolCallID, content string) *ToolCallResultEvent {
	return &ToolCallResultEvent{
		BaseEvent:  newBase(EventTypeToolCallResult),
		MessageID:  messageID,
		ToolCallID: toolCallID,
		Content:    content,
		Role:       RoleTool,
	}
}

// Validate checks the event's required fields.
func (e *ToolCallResultEvent) Validate() error {
	if e.MessageID == "" {
		return errors.New("TOOL_CALL_RESULT: messageId is required")
	}
	if e.ToolCallID == "" {
		return errors.New("TOOL_CALL_RESULT: toolCallId is required")
	}
	return nil
}
