package events

import (
	"encoding/json"
	"fmt"
)

var decoders = map[EventType]func() Event{
	EventTypeRunStarted:                 func() Event { return &RunStartedEvent{} },
	EventTypeRunFinished:                func() Event { return &RunFinishedEvent{} },
	EventTypeRunError:                   func() Event { return &RunErrorEvent{} },
	EventTypeStepStarted:                func() Event { return &StepStartedEvent{} },
	EventTypeStepFinished:               func() Event { return &StepFinishedEvent{} },
	EventTypeTextMessageStart:           func() Event { return &TextMessageStartEvent{} },
	EventTypeTextMessageContent:         func() Event { return &TextMessageContentEvent{} },
	EventTypeTextMessageEnd:             func() Event { return &TextMessageEndEvent{} },
	EventTypeTextMessageChunk:           func() Event { return &TextMessageChunkEvent{} },
	EventTypeReasoningStart:             func() Event { return &ReasoningStartEvent{} },
	EventTypeReasoningEnd:               func() Event { return &ReasoningEndEvent{} },
	EventTypeReasoningMessageStart:      func() Event { return &ReasoningMessageStartEvent{} },
	EventTypeReasoningMessageContent:    func() Event { return &ReasoningMessageContentEvent{} },
	EventTypeReasoningMessageEnd:        func() Event { return &ReasoningMessageEndEvent{} },
	EventTypeReasoningMessageChunk:      func() Event { return &ReasoningMessageChunkEvent{} },
	EventTypeReasoningEncryptedValue:    func() Event { return &ReasoningEncryptedValueEvent{} },
	EventTypeThinkingStart:              func() Event { return &ThinkingStartEvent{} },
	EventTypeThinkingEnd:                func() Event { return &ThinkingEndEvent{} },
	EventTypeThinkingTextMessageStart:   func() Event { return &ThinkingTextMessageStartEvent{} },
	EventTypeThinkingTextMessageContent: func() Event { return &ThinkingTextMessageContentEvent{} },
	EventTypeThinkingTextMessageEnd:     func() Event { return &ThinkingTextMessageEndEvent{} },
	EventTypeToolCallStart:              func() Event { return &ToolCallStartEvent{} },
	EventTypeToolCallArgs:               func() Event { return &ToolCallArgsEvent{} },
	EventTypeToolCallEnd:                func() Event { return &ToolCallEndEvent{} },
	EventTypeToolCallChunk:              func() Event { return &ToolCallChunkEvent{} },
	EventTypeToolCallResult:             func() Event { return &ToolCallResultEvent{} },
	EventTypeStateSnapshot:              func() Event { return &StateSnapshotEvent{} },
	EventTypeStateDelta:                 func() Event { return &StateDeltaEvent{} },
	EventTypeMessagesSnapshot:           func() Event { return &MessagesSnapshotEvent{} },
	EventTypeActivitySnapshot:           func() Event { return &ActivitySnapshotEvent{} },
	EventTypeActivityDelta:              func() Event { return &ActivityDeltaEvent{} },
	EventTypeRaw:                        func() Event { return &RawEvent{} },
	EventTypeCustom:                     func() Event { return &CustomEvent{} },
}

// ParseEvent decodes one JSON-encoded protocol event, dispatching on its
// "type" field. Unknown event types and per-type field violations are
// rejected here, before an event can reach the state machine.
func ParseEvent(data []byte) (Event, error) {
	var head struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse event: %w", err)
	}
	if head.Type == "" {
		return nil, fmt.Errorf("parse event: missing type field")
	}

	factory, ok := decoders[head.Type]
	if !ok {
		return nil, fmt.Errorf("parse event: unknown event type %q", head.Type)
	}

	ev := factory()
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("parse %s: %w", head.Type, err)
	}
	if err := ev.Validate(); err != nil {
		return nil, fmt.Errorf("parse event: %w", err)
	}
	return ev, nil
}
