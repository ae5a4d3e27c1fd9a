package state

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spetersoncode/agui/events"
)

// ErrUnexpandedChunk is returned when a chunk convenience event reaches the
// machine without being expanded by the pipeline package. Guessing chunk
// boundaries here would be unsound, so the machine refuses.
var ErrUnexpandedChunk = errors.New("chunk event must be expanded into start/content/end before state application")

// ErrDeprecatedEvent is returned when a deprecated thinking event reaches
// the machine without being translated by the pipeline package.
var ErrDeprecatedEvent = errors.New("deprecated thinking event must be translated to reasoning events before state application")

// Machine folds a single run's normalized event stream into a conversation.
// It is a synchronous reducer: Apply never blocks, and events must arrive in
// stream order. One machine owns one conversation; concurrent runs each need
// their own machine.
type Machine struct {
	conv   Conversation
	subs   []*Subscriber
	logger *slog.Logger

	// Per-run tracking, reset on RUN_STARTED.
	activeMessages  map[string]struct{}
	activeToolCalls map[string]struct{}
	activeSteps     map[string]struct{}
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for dangling-reference warnings and
// subscriber panic reports.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) { m.logger = logger }
}

// WithSubscriber registers a subscriber at construction time.
func WithSubscriber(sub *Subscriber) Option {
	return func(m *Machine) { m.subs = append(m.subs, sub) }
}

// NewMachine creates a machine with an empty conversation.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		logger:          slog.Default(),
		activeMessages:  make(map[string]struct{}),
		activeToolCalls: make(map[string]struct{}),
		activeSteps:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadInput seeds the conversation from a run's input: prior message
// history and caller state. Message ids must be unique.
func (m *Machine) LoadInput(in events.RunAgentInput) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("load input: %w", err)
	}
	m.conv = Conversation{
		Messages: in.Messages,
		State:    in.State,
	}
	m.conv = m.conv.clone()
	return nil
}

// Subscribe registers a subscriber. Subscribers are notified in
// registration order.
func (m *Machine) Subscribe(sub *Subscriber) {
	m.subs = append(m.subs, sub)
}

// Conversation returns a snapshot of the current conversation.
func (m *Machine) Conversation() Conversation {
	return m.conv.clone()
}

// Apply folds one event into the conversation. It returns a snapshot of the
// new conversation when the event mutated it, nil when the event was a
// no-op, and an error on protocol contract violations (unexpanded chunks,
// malformed events, invalid patches). An error means the run can no longer
// guarantee state integrity and should be treated as failed.
func (m *Machine) Apply(ev events.Event) (*Conversation, error) {
	if events.IsChunk(ev.Type()) {
		return nil, fmt.Errorf("%s: %w", ev.Type(), ErrUnexpandedChunk)
	}

	switch e := ev.(type) {
	case *events.RunStartedEvent:
		return m.applyRunStarted(e)
	case *events.RunFinishedEvent:
		return m.applyRunFinished(e)
	case *events.RunErrorEvent:
		return m.applyRunError(e)
	case *events.StepStartedEvent:
		return m.applyStepStarted(e)
	case *events.StepFinishedEvent:
		return m.applyStepFinished(e)

	case *events.TextMessageStartEvent:
		return m.applyTextMessageStart(e)
	case *events.TextMessageContentEvent:
		return m.applyTextMessageContent(e)
	case *events.TextMessageEndEvent:
		return m.applyTextMessageEnd(e)

	case *events.ReasoningStartEvent:
		return m.applyReasoningStart(e)
	case *events.ReasoningEndEvent:
		return m.applyReasoningEnd(e)
	case *events.ReasoningMessageStartEvent:
		return m.applyReasoningMessageStart(e)
	case *events.ReasoningMessageContentEvent:
		return m.applyReasoningMessageContent(e)
	case *events.ReasoningMessageEndEvent:
		return m.applyReasoningMessageEnd(e)
	case *events.ReasoningEncryptedValueEvent:
		return m.applyEncryptedValue(e)

	case *events.ToolCallStartEvent:
		return m.applyToolCallStart(e)
	case *events.ToolCallArgsEvent:
		return m.applyToolCallArgs(e)
	case *events.ToolCallEndEvent:
		return m.applyToolCallEnd(e)
	case *events.ToolCallResultEvent:
		return m.applyToolCallResult(e)

	case *events.StateSnapshotEvent:
		return m.applyStateSnapshot(e)
	case *events.StateDeltaEvent:
		return m.applyStateDelta(e)
	case *events.MessagesSnapshotEvent:
		return m.applyMessagesSnapshot(e)
	case *events.ActivitySnapshotEvent:
		return m.applyActivitySnapshot(e)
	case *events.ActivityDeltaEvent:
		return m.applyActivityDelta(e)

	case *events.RawEvent:
		m.notify(func(s *Subscriber) bool { return s.OnRaw != nil && s.OnRaw(e) })
		return nil, nil
	case *events.CustomEvent:
		m.notify(func(s *Subscriber) bool { return s.OnCustom != nil && s.OnCustom(e) })
		return nil, nil

	case *events.ThinkingStartEvent, *events.ThinkingEndEvent,
		*events.ThinkingTextMessageStartEvent,
		*events.ThinkingTextMessageContentEvent,
		*events.ThinkingTextMessageEndEvent:
		return nil, fmt.Errorf("%s: %w", ev.Type(), ErrDeprecatedEvent)
	}

	return nil, fmt.Errorf("apply event: unsupported event type %q", ev.Type())
}

func (m *Machine) snapshot() *Conversation {
	snap := m.conv.clone()
	return &snap
}

// Run lifecycle

func (m *Machine) applyRunStarted(e *events.RunStartedEvent) (*Conversation, error) {
	if m.notify(func(s *Subscriber) bool { return s.OnRunStarted != nil && s.OnRunStarted(e) }) {
		return nil, nil
	}
	// A new run resets per-run tracking but keeps the messages and state
	// accumulated by earlier runs on the same thread.
	m.activeMessages = make(map[string]struct{})
	m.activeToolCalls = make(map[string]struct{})
	m.activeSteps = make(map[string]struct{})
	return nil, nil
}

func (m *Machine) applyRunFinished(e *events.RunFinishedEvent) (*Conversation, error) {
	if m.notify(func(s *Subscriber) bool { return s.OnRunFinished != nil && s.OnRunFinished(e) }) {
		return nil, nil
	}
	m.closeRun()
	return nil, nil
}

func (m *Machine) applyRunError(e *events.RunErrorEvent) (*Conversation, error) {
	if m.notify(func(s *Subscriber) bool { return s.OnRunError != nil && s.OnRunError(e) }) {
		return nil, nil
	}
	m.closeRun()
	return nil, nil
}

// closeRun drops per-run tracking without retroactively mutating messages
// that already finalized. A partially streamed message stays as accumulated.
func (m *Machine) closeRun() {
	for id := range m.activeMessages {
		m.logger.Debug("run ended with message still open", "message_id", id)
	}
	for id := range m.activeToolCalls {
		m.logger.Debug("run ended with tool call still open", "tool_call_id", id)
	}
	m.activeMessages = make(map[string]struct{})
	m.activeToolCalls = make(map[string]struct{})
	m.activeSteps = make(map[string]struct{})
}

func (m *Machine) applyStepStarted(e *events.StepStartedEvent) (*Conversation, error) {
	if m.notify(func(s *Subscriber) bool { return s.OnStepStarted != nil && s.OnStepStarted(e) }) {
		return nil, nil
	}
	m.activeSteps[e.StepName] = struct{}{}
	return nil, nil
}

func (m *Machine) applyStepFinished(e *events.StepFinishedEvent) (*Conversation, error) {
	if m.notify(func(s *Subscriber) bool { return s.OnStepFinished != nil && s.OnStepFinished(e) }) {
		return nil, nil
	}
	delete(m.activeSteps, e.StepName)
	return nil, nil
}

// Message lifecycle, shared by text and reasoning messages.

// startMessage creates the message or joins an existing one with the same
// id (for example the placeholder an earlier tool call start created). On a
// join the existing role wins; creation takes the event's role.
func (m *Machine) startMessage(id string, role events.Role) bool {
	m.activeMessages[id] = struct{}{}
	if i := m.conv.indexOf(id); i >= 0 {
		if m.conv.Messages[i].Content == nil {
			m.conv.Messages[i].Content = ""
			return true
		}
		return false
	}
	m.conv.Messages = append(m.conv.Messages, events.Message{
		ID:      id,
		Role:    role,
		Content: "",
	})
	return true
}

// appendContent appends a delta to the message's content buffer. Unknown
// ids and non-textual targets warn and no-op.
func (m *Machine) appendContent(kind events.EventType, id, delta string) bool {
	i := m.conv.indexOf(id)
	if i < 0 {
		m.logger.Warn("ignoring content for unknown message", "event", string(kind), "message_id", id)
		return false
	}
	buffer, ok := m.conv.Messages[i].ContentString()
	if !ok && m.conv.Messages[i].Content != nil {
		m.logger.Warn("ignoring content for non-text message", "event", string(kind), "message_id", id)
		return false
	}
	m.conv.Messages[i].Content = buffer + delta
	return true
}

func (m *Machine) contentBuffer(id string) string {
	if i := m.conv.indexOf(id); i >= 0 {
		if s, ok := m.conv.Messages[i].ContentString(); ok {
			return s
		}
	}
	return ""
}

func (m *Machine) applyTextMessageStart(e *events.TextMessageStartEvent) (*Conversation, error) {
	if m.notify(func(s *Subscriber) bool { return s.OnTextMessageStart != nil && s.OnTextMessageStart(e) }) {
		return nil, nil
	}
	role := e.Role
	if role == "" {
		role = events.RoleAssistant
	}
	if !m.startMessage(e.MessageID, role) {
		return nil, nil
	}
	return m.snapshot(), nil
}

func (m *Machine) applyTextMessageContent(e *events.TextMessageContentEvent) (*Conversation, error) {
	if e.Delta == "" {
		return nil, errors.New("TEXT_MESSAGE_CONTENT: delta must not be empty")
	}
	buffer := m.contentBuffer(e.MessageID)
	if m.notify(func(s *Subscriber) bool {
		return s.OnTextMessageContent != nil && s.OnTextMessageContent(e, buffer)
	}) {
		return nil, nil
	}
	if !m.appendContent(e.EventType, e.MessageID, e.Delta) {
		return nil, nil
	}
	return m.snapshot(), nil
}

func (m *Machine) applyTextMessageEnd(e *events.TextMessageEndEvent) (*Conversation, error) {
	i := m.conv.indexOf(e.MessageID)
	if i < 0 {
		m.logger.Warn("ignoring end for unknown message", "event", "TEXT_MESSAGE_END", "message_id", e.MessageID)
		return nil, nil
	}
	content, _ := m.conv.Messages[i].ContentString()
	if m.notify(func(s *Subscriber) bool {
		return s.OnTextMessageEnd != nil && s.OnTextMessageEnd(e, content)
	}) {
		return nil, nil
	}
	delete(m.activeMessages, e.MessageID)
	m.notifyNewMessage(m.conv.Messages[i])
	// Finalization mutates nothing; no snapshot.
	return nil, nil
}

// Reasoning

func (m *Machine) applyReasoningStart(e *events.ReasoningStartEvent) (*Conversation, error) {
	m.notify(func(s *Subscriber) bool { return s.OnReasoningStart != nil && s.OnReasoningStart(e) })
	return nil, nil
}

func (m *Machine) applyReasoningEnd(e *events.ReasoningEndEvent) (*Conversation, error) {
	m.notify(func(s *Subscriber) bool { return s.OnReasoningEnd != nil && s.OnReasoningEnd(e) })
	return nil, nil
}

func (m *Machine) applyReasoningMessageStart(e *events.ReasoningMessageStartEvent) (*Conversation, error) {
	if m.notify(func(s *Subscriber) bool {
		return s.OnReasoningMessageStart != nil && s.OnReasoningMessageStart(e)
	}) {
		return nil, nil
	}
	// Reasoning messages materialize with the synthetic reasoning role
	// regardless of the wire role.
	if !m.startMessage(e.MessageID, events.RoleReasoning) {
		return nil, nil
	}
	return m.snapshot(), nil
}

func (m *Machine) applyReasoningMessageContent(e *events.ReasoningMessageContentEvent) (*Conversation, error) {
	// Unlike text deltas, reasoning deltas may be empty.
	buffer := m.contentBuffer(e.MessageID)
	if m.notify(func(s *Subscriber) bool {
		return s.OnReasoningMessageContent != nil && s.OnReasoningMessageContent(e, buffer)
	}) {
		return nil, nil
	}
	if !m.appendContent(e.EventType, e.MessageID, e.Delta) {
		return nil, nil
	}
	return m.snapshot(), nil
}

func (m *Machine) applyReasoningMessageEnd(e *events.ReasoningMessageEndEvent) (*Conversation, error) {
	i := m.conv.indexOf(e.MessageID)
	if i < 0 {
		m.logger.Warn("ignoring end for unknown message", "event", "REASONING_MESSAGE_END", "message_id", e.MessageID)
		return nil, nil
	}
	content, _ := m.conv.Messages[i].ContentString()
	if m.notify(func(s *Subscriber) bool {
		return s.OnReasoningMessageEnd != nil && s.OnReasoningMessageEnd(e, content)
	}) {
		return nil, nil
	}
	delete(m.activeMessages, e.MessageID)
	m.notifyNewMessage(m.conv.Messages[i])
	return nil, nil
}

func (m *Machine) applyEncryptedValue(e *events.ReasoningEncryptedValueEvent) (*Conversation, error) {
	if m.notify(func(s *Subscriber) bool { return s.OnEncryptedValue != nil && s.OnEncryptedValue(e) }) {
		return nil, nil
	}

	switch e.Subtype {
	case events.EncryptedValueToolCall:
		if i, j := m.conv.findToolCall(e.EntityID); i >= 0 {
			m.conv.Messages[i].ToolCalls[j].EncryptedValue = e.EncryptedValue
			return m.snapshot(), nil
		}
	case events.EncryptedValueMessage:
		if i := m.conv.indexOf(e.EntityID); i >= 0 {
			// Activity messages never carry encrypted values.
			if m.conv.Messages[i].Role == events.RoleActivity {
				break
			}
			m.conv.Messages[i].EncryptedValue = e.EncryptedValue
			return m.snapshot(), nil
		}
	}

	// Stale or late attachment; absorb it.
	m.logger.Warn("ignoring encrypted value for unknown entity",
		"subtype", string(e.Subtype), "entity_id", e.EntityID)
	return nil, nil
}

// Tool calls

func (m *Machine) applyToolCallStart(e *events.ToolCallStartEvent) (*Conversation, error) {
	if m.notify(func(s *Subscriber) bool { return s.OnToolCallStart != nil && s.OnToolCallStart(e) }) {
		return nil, nil
	}

	parentID := e.ParentMessageID
	if parentID == "" {
		parentID = events.GenerateMessageID()
	}
	i := m.conv.indexOf(parentID)
	if i < 0 {
		m.conv.Messages = append(m.conv.Messages, events.Message{
			ID:   parentID,
			Role: events.RoleAssistant,
		})
		i = len(m.conv.Messages) - 1
		m.activeMessages[parentID] = struct{}{}
	}

	m.conv.Messages[i].ToolCalls = append(m.conv.Messages[i].ToolCalls, events.ToolCall{
		ID:   e.ToolCallID,
		Type: "function",
		Function: events.Function{
			Name:      e.ToolCallName,
			Arguments: "",
		},
	})
	m.activeToolCalls[e.ToolCallID] = struct{}{}
	return m.snapshot(), nil
}

func (m *Machine) applyToolCallArgs(e *events.ToolCallArgsEvent) (*Conversation, error) {
	i, j := m.conv.findToolCall(e.ToolCallID)
	var buffer string
	if i >= 0 {
		buffer = m.conv.Messages[i].ToolCalls[j].Function.Arguments
	}
	if m.notify(func(s *Subscriber) bool {
		return s.OnToolCallArgs != nil && s.OnToolCallArgs(e, buffer)
	}) {
		return nil, nil
	}
	if i < 0 {
		m.logger.Warn("ignoring args for unknown tool call", "tool_call_id", e.ToolCallID)
		return nil, nil
	}
	m.conv.Messages[i].ToolCalls[j].Function.Arguments = buffer + e.Delta
	return m.snapshot(), nil
}

func (m *Machine) applyToolCallEnd(e *events.ToolCallEndEvent) (*Conversation, error) {
	i, j := m.conv.findToolCall(e.ToolCallID)
	if i < 0 {
		m.logger.Warn("ignoring end for unknown tool call", "tool_call_id", e.ToolCallID)
		return nil, nil
	}
	call := m.conv.Messages[i].ToolCalls[j]
	if m.notify(func(s *Subscriber) bool {
		return s.OnToolCallEnd != nil && s.OnToolCallEnd(e, call)
	}) {
		return nil, nil
	}
	delete(m.activeToolCalls, e.ToolCallID)
	return nil, nil
}

func (m *Machine) applyToolCallResult(e *events.ToolCallResultEvent) (*Conversation, error) {
	if m.notify(func(s *Subscriber) bool { return s.OnToolCallResult != nil && s.OnToolCallResult(e) }) {
		return nil, nil
	}
	m.conv.Messages = append(m.conv.Messages, events.Message{
		ID:         e.MessageID,
		Role:       events.RoleTool,
		Content:    e.Content,
		ToolCallID: e.ToolCallID,
	})
	return m.snapshot(), nil
}

// State and activity

func (m *Machine) applyStateSnapshot(e *events.StateSnapshotEvent) (*Conversation, error) {
	if m.notify(func(s *Subscriber) bool { return s.OnStateSnapshot != nil && s.OnStateSnapshot(e) }) {
		return nil, nil
	}
	m.conv.State = e.Snapshot
	return m.snapshot(), nil
}

func (m *Machine) applyStateDelta(e *events.StateDeltaEvent) (*Conversation, error) {
	if m.notify(func(s *Subscriber) bool { return s.OnStateDelta != nil && s.OnStateDelta(e) }) {
		return nil, nil
	}
	patched, err := applyJSONPatch(m.conv.State, e.Delta)
	if err != nil {
		return nil, fmt.Errorf("STATE_DELTA: %w", err)
	}
	m.conv.State = patched
	return m.snapshot(), nil
}

func (m *Machine) applyMessagesSnapshot(e *events.MessagesSnapshotEvent) (*Conversation, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if m.notify(func(s *Subscriber) bool { return s.OnMessagesSnapshot != nil && s.OnMessagesSnapshot(e) }) {
		return nil, nil
	}
	replaced := make([]events.Message, len(e.Messages))
	copy(replaced, e.Messages)
	m.conv.Messages = replaced
	return m.snapshot(), nil
}

func (m *Machine) applyActivitySnapshot(e *events.ActivitySnapshotEvent) (*Conversation, error) {
	i := m.conv.indexOf(e.MessageID)
	if i >= 0 && !e.ShouldReplace() {
		// First writer wins on idempotent replays.
		return nil, nil
	}
	if i >= 0 && m.conv.Messages[i].Role != events.RoleActivity {
		m.logger.Warn("ignoring activity snapshot targeting non-activity message", "message_id", e.MessageID)
		return nil, nil
	}
	if m.notify(func(s *Subscriber) bool {
		return s.OnActivitySnapshot != nil && s.OnActivitySnapshot(e)
	}) {
		return nil, nil
	}

	if i < 0 {
		m.conv.Messages = append(m.conv.Messages, events.Message{
			ID:           e.MessageID,
			Role:         events.RoleActivity,
			ActivityType: e.ActivityType,
			Content:      e.Content,
		})
	} else {
		m.conv.Messages[i].ActivityType = e.ActivityType
		m.conv.Messages[i].Content = e.Content
	}
	return m.snapshot(), nil
}

func (m *Machine) applyActivityDelta(e *events.ActivityDeltaEvent) (*Conversation, error) {
	i := m.conv.indexOf(e.MessageID)
	if i < 0 || m.conv.Messages[i].Role != events.RoleActivity {
		m.logger.Warn("ignoring activity delta for unknown activity message", "message_id", e.MessageID)
		return nil, nil
	}
	if m.notify(func(s *Subscriber) bool {
		return s.OnActivityDelta != nil && s.OnActivityDelta(e)
	}) {
		return nil, nil
	}

	content, _ := m.conv.Messages[i].ContentActivity()
	patched, err := applyJSONPatch(content, e.Delta)
	if err != nil {
		return nil, fmt.Errorf("ACTIVITY_DELTA: %w", err)
	}
	obj, ok := patched.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("ACTIVITY_DELTA: patch replaced activity content with a non-object value")
	}
	m.conv.Messages[i].Content = obj
	return m.snapshot(), nil
}
