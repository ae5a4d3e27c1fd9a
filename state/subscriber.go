package state

import "github.com/spetersoncode/agui/events"

// Subscriber observes state machine transitions. Every field is optional;
// nil hooks are skipped. Hooks run in subscriber registration order, before
// the transition mutates the conversation, and receive the data accumulated
// so far (content hooks get the buffer as it stood before the incoming
// delta, so they can diff).
//
// A hook returning true stops propagation of that single event: the state
// mutation is suppressed and the event is dropped, but the stream keeps
// running. All registered subscribers are notified regardless of earlier
// stop signals; stopping suppresses the mutation, not the fan-out. A panic
// inside a hook is recovered, logged, and isolated to that subscriber.
type Subscriber struct {
	OnRunStarted   func(ev *events.RunStartedEvent) bool
	OnRunFinished  func(ev *events.RunFinishedEvent) bool
	OnRunError     func(ev *events.RunErrorEvent) bool
	OnStepStarted  func(ev *events.StepStartedEvent) bool
	OnStepFinished func(ev *events.StepFinishedEvent) bool

	OnTextMessageStart   func(ev *events.TextMessageStartEvent) bool
	OnTextMessageContent func(ev *events.TextMessageContentEvent, buffer string) bool
	OnTextMessageEnd     func(ev *events.TextMessageEndEvent, content string) bool

	OnReasoningStart          func(ev *events.ReasoningStartEvent) bool
	OnReasoningEnd            func(ev *events.ReasoningEndEvent) bool
	OnReasoningMessageStart   func(ev *events.ReasoningMessageStartEvent) bool
	OnReasoningMessageContent func(ev *events.ReasoningMessageContentEvent, buffer string) bool
	OnReasoningMessageEnd     func(ev *events.ReasoningMessageEndEvent, content string) bool

	OnToolCallStart  func(ev *events.ToolCallStartEvent) bool
	OnToolCallArgs   func(ev *events.ToolCallArgsEvent, buffer string) bool
	OnToolCallEnd    func(ev *events.ToolCallEndEvent, call events.ToolCall) bool
	OnToolCallResult func(ev *events.ToolCallResultEvent) bool

	OnEncryptedValue func(ev *events.ReasoningEncryptedValueEvent) bool

	OnStateSnapshot    func(ev *events.StateSnapshotEvent) bool
	OnStateDelta       func(ev *events.StateDeltaEvent) bool
	OnMessagesSnapshot func(ev *events.MessagesSnapshotEvent) bool
	OnActivitySnapshot func(ev *events.ActivitySnapshotEvent) bool
	OnActivityDelta    func(ev *events.ActivityDeltaEvent) bool

	OnRaw    func(ev *events.RawEvent) bool
	OnCustom func(ev *events.CustomEvent) bool

	// OnNewMessage fires once per streamed message, at its end event, with
	// the fully accumulated message. Finalization cannot be vetoed.
	OnNewMessage func(msg events.Message)
}

// notify invokes hook for every registered subscriber in order, isolating
// panics, and reports whether any subscriber stopped propagation.
func (m *Machine) notify(hook func(s *Subscriber) bool) bool {
	stopped := false
	for _, s := range m.subs {
		if m.invoke(s, hook) {
			stopped = true
		}
	}
	return stopped
}

func (m *Machine) invoke(s *Subscriber, hook func(s *Subscriber) bool) (stop bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("subscriber panicked", "panic", r)
			stop = false
		}
	}()
	return hook(s)
}

func (m *Machine) notifyNewMessage(msg events.Message) {
	for _, s := range m.subs {
		if s.OnNewMessage == nil {
			continue
		}
		m.invoke(s, func(s *Subscriber) bool {
			s.OnNewMessage(msg)
			return false
		})
	}
}
