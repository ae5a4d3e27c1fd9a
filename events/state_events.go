package events

import (
	"errors"
	"fmt"
)

// JSONPatchOperation is one RFC 6902 operation. A STATE_DELTA or
// ACTIVITY_DELTA event carries an ordered sequence of these.
type JSONPatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
	From  string `json:"from,omitempty"`
}

func validatePatch(ops []JSONPatchOperation) error {
	if len(ops) == 0 {
		return errors.New("delta requires at least one operation")
	}
	for i, op := range ops {
		switch op.Op {
		case "add", "remove", "replace", "move", "copy", "test":
		default:
			return fmt.Errorf("delta[%d]: unknown op %q", i, op.Op)
		}
	}
	return nil
}

// StateSnapshotEvent wholesale-replaces the shared run state.
type StateSnapshotEvent struct {
	BaseEvent
	Snapshot any `json:"snapshot"`
}

// NewStateSnapshotEvent creates a STATE_SNAPSHOT event.
func NewStateSnapshotEvent(snapshot any) *StateSnapshotEvent {
	return &StateSnapshotEvent{
		BaseEvent: newBase(EventTypeStateSnapshot),
		Snapshot:  snapshot,
	}
}

// Validate checks the event's required fields.
func (e *StateSnapshotEvent) Validate() error { return nil }

// StateDeltaEvent mutates the shared run state with a JSON Patch (RFC 6902)
// operation sequence, applied in order. An invalid patch fails the run; no
// partial application is attempted.
type StateDeltaEvent struct {
	BaseEvent
	Delta []JSONPatchOperation `json:"delta"`
}

// NewStateDeltaEvent creates a STATE_DELTA event.
func NewStateDeltaEvent(ops ...JSONPatchOperation) *StateDeltaEvent {
	return &StateDeltaEvent{
		BaseEvent: newBase(EventTypeStateDelta),
		Delta:     ops,
	}
}

// Validate checks the event's required fields.
func (e *StateDeltaEvent) Validate() error {
	if err := validatePatch(e.Delta); err != nil {
		return fmt.Errorf("STATE_DELTA: %w", err)
	}
	return nil
}

// MessagesSnapshotEvent wholesale-replaces the conversation's message
// history with a pre-validated list.
type MessagesSnapshotEvent struct {
	BaseEvent
	Messages []Message `json:"messages"`
}

// NewMessagesSnapshotEvent creates a MESSAGES_SNAPSHOT event.
func NewMessagesSnapshotEvent(messages []Message) *MessagesSnapshotEvent {
	return &MessagesSnapshotEvent{
		BaseEvent: newBase(EventTypeMessagesSnapshot),
		Messages:  messages,
	}
}

// Validate checks every message in the snapshot.
func (e *MessagesSnapshotEvent) Validate() error {
	for i, msg := range e.Messages {
		if err := validateMessage(msg); err != nil {
			return fmt.Errorf("MESSAGES_SNAPSHOT: messages[%d]: %w", i, err)
		}
	}
	return nil
}

// ActivitySnapshotEvent creates or replaces the structured content of the
// activity message named by MessageID. With Replace set to false an event
// targeting an existing message is ignored, giving idempotent replays
// first-writer-wins semantics.
type ActivitySnapshotEvent struct {
	BaseEvent
	MessageID    string         `json:"messageId"`
	ActivityType string         `json:"activityType"`
	Content      map[string]any `json:"content"`
	Replace      *bool          `json:"replace,omitempty"`
}

// ActivitySnapshotOption configures an ActivitySnapshotEvent.
type ActivitySnapshotOption func(*ActivitySnapshotEvent)

// WithReplace controls whether an existing activity message is overwritten.
// Defaults to true.
func WithReplace(replace bool) ActivitySnapshotOption {
	return func(e *ActivitySnapshotEvent) { e.Replace = &replace }
}

// NewActivitySnapshotEvent creates an ACTIVITY_SNAPSHOT event.
func NewActivitySnapshotEvent(messageID, activityType string, content map[string]any, opts ...ActivitySnapshotOption) *ActivitySnapshotEvent {
	e := &ActivitySnapshotEvent{
		BaseEvent:    newBase(EventTypeActivitySnapshot),
		MessageID:    messageID,
		ActivityType: activityType,
		Content:      content,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ShouldReplace reports whether the snapshot overwrites an existing
// activity message. Unset defaults to true.
func (e *ActivitySnapshotEvent) ShouldReplace() bool {
	return e.Replace == nil || *e.Replace
}

// Validate checks the event's required fields.
func (e *ActivitySnapshotEvent) Validate() error {
	if e.MessageID == "" {
		return errors.New("ACTIVITY_SNAPSHOT: messageId is required")
	}
	if e.ActivityType == "" {
		return errors.New("ACTIVITY_SNAPSHOT: activityType is required")
	}
	if e.Content == nil {
		return errors.New("ACTIVITY_SNAPSHOT: content is required")
	}
	return nil
}

// ActivityDeltaEvent patches the structured content of the activity message
// named by MessageID. The target must already exist: snapshots are required
// to precede deltas end to end.
type ActivityDeltaEvent struct {
	BaseEvent
	MessageID string               `json:"messageId"`
	Delta     []JSONPatchOperation `json:"delta"`
}

// NewActivityDeltaEvent creates an ACTIVITY_DELTA event.
func NewActivityDeltaEvent(messageID string, ops ...JSONPatchOperation) *ActivityDeltaEvent {
	return &ActivityDeltaEvent{
		BaseEvent: newBase(EventTypeActivityDelta),
		MessageID: messageID,
		Delta:     ops,
	}
}

// Validate checks the event's required fields.
func (e *ActivityDeltaEvent) Validate() error {
	if e.MessageID == "" {
		return errors.New("ACTIVITY_DELTA: messageId is required")
	}
	if err := validatePatch(e.Delta); err != nil {
		return fmt.Errorf("ACTIVITY_DELTA: %w", err)
	}
	return nil
}
