package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/agui/events"
)

func TestSubscriber_StopPropagationSuppressesMutation(t *testing.T) {
	var laterNotified bool

	m := NewMachine(
		WithSubscriber(&Subscriber{
			OnTextMessageStart: func(ev *events.TextMessageStartEvent) bool {
				return true // veto
			},
		}),
		WithSubscriber(&Subscriber{
			OnTextMessageStart: func(ev *events.TextMessageStartEvent) bool {
				laterNotified = true
				return false
			},
		}),
	)

	snap, err := m.Apply(events.NewTextMessageStartEvent("m1"))
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Empty(t, m.Conversation().Messages, "vetoed start must not create a message")
	assert.True(t, laterNotified, "a veto suppresses the mutation, not the fan-out")
}

func TestSubscriber_StopOnReasoningMessageStart(t *testing.T) {
	m := NewMachine(WithSubscriber(&Subscriber{
		OnReasoningMessageStart: func(ev *events.ReasoningMessageStartEvent) bool { return true },
	}))

	snap, err := m.Apply(events.NewReasoningMessageStartEvent("m1"))
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Empty(t, m.Conversation().Messages)
}

func TestSubscriber_DanglingEventsStillNotified(t *testing.T) {
	var contentSeen, argsSeen bool
	m := NewMachine(WithSubscriber(&Subscriber{
		OnTextMessageContent: func(ev *events.TextMessageContentEvent, buffer string) bool {
			contentSeen = true
			assert.Equal(t, "", buffer)
			return false
		},
		OnToolCallArgs: func(ev *events.ToolCallArgsEvent, buffer string) bool {
			argsSeen = true
			assert.Equal(t, "", buffer)
			return false
		},
	}))

	// Neither target exists; both events warn and mutate nothing, but the
	// fan-out sees them regardless.
	snap, err := m.Apply(events.NewTextMessageContentEvent("ghost", "delta"))
	require.NoError(t, err)
	assert.Nil(t, snap)
	snap, err = m.Apply(events.NewToolCallArgsEvent("ghost_call", `{"a":1}`))
	require.NoError(t, err)
	assert.Nil(t, snap)

	assert.True(t, contentSeen)
	assert.True(t, argsSeen)
	assert.Empty(t, m.Conversation().Messages)
}

func TestSubscriber_ContentHookSeesBufferBeforeDelta(t *testing.T) {
	var buffers []string
	m := NewMachine(WithSubscriber(&Subscriber{
		OnTextMessageContent: func(ev *events.TextMessageContentEvent, buffer string) bool {
			buffers = append(buffers, buffer)
			return false
		},
	}))

	apply(t, m,
		events.NewTextMessageStartEvent("m1"),
		events.NewTextMessageContentEvent("m1", "Hello "),
		events.NewTextMessageContentEvent("m1", "world!"),
	)

	assert.Equal(t, []string{"", "Hello "}, buffers)
}

func TestSubscriber_NewMessageFiresAtEndOnly(t *testing.T) {
	var completed []string
	m := NewMachine(WithSubscriber(&Subscriber{
		OnNewMessage: func(msg events.Message) {
			content, _ := msg.ContentString()
			completed = append(completed, msg.ID+":"+content)
		},
	}))

	apply(t, m,
		events.NewTextMessageStartEvent("m1"),
		events.NewTextMessageContentEvent("m1", "hi"),
	)
	assert.Empty(t, completed, "new-message fires at end, not at start or content")

	apply(t, m, events.NewTextMessageEndEvent("m1"))
	assert.Equal(t, []string{"m1:hi"}, completed)
}

func TestSubscriber_PanicIsolated(t *testing.T) {
	var survivorCalled, mutationApplied bool

	m := NewMachine(
		WithSubscriber(&Subscriber{
			OnTextMessageStart: func(ev *events.TextMessageStartEvent) bool {
				panic("subscriber bug")
			},
		}),
		WithSubscriber(&Subscriber{
			OnTextMessageStart: func(ev *events.TextMessageStartEvent) bool {
				survivorCalled = true
				return false
			},
		}),
	)

	snap, err := m.Apply(events.NewTextMessageStartEvent("m1"))
	require.NoError(t, err)
	mutationApplied = snap != nil

	assert.True(t, survivorCalled, "a panic in one subscriber must not starve the others")
	assert.True(t, mutationApplied, "a panic must not suppress the mutation")
	assert.Len(t, m.Conversation().Messages, 1)
}

func TestSubscriber_ToolCallEndReceivesCall(t *testing.T) {
	var got events.ToolCall
	m := NewMachine(WithSubscriber(&Subscriber{
		OnToolCallEnd: func(ev *events.ToolCallEndEvent, call events.ToolCall) bool {
			got = call
			return false
		},
	}))

	apply(t, m,
		events.NewToolCallStartEvent("call-1", "search"),
		events.NewToolCallArgsEvent("call-1", `{"q":"go"}`),
		events.NewToolCallEndEvent("call-1"),
	)

	assert.Equal(t, "call-1", got.ID)
	assert.Equal(t, `{"q":"go"}`, got.Function.Arguments)
}

func TestSubscriber_RegistrationOrder(t *testing.T) {
	var order []int
	m := NewMachine()
	for i := 1; i <= 3; i++ {
		m.Subscribe(&Subscriber{
			OnRunStarted: func(ev *events.RunStartedEvent) bool {
				order = append(order, i)
				return false
			},
		})
	}

	apply(t, m, events.NewRunStartedEvent("t-1", "r-1"))
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestSubscriber_StopOnStateSnapshot(t *testing.T) {
	m := NewMachine(WithSubscriber(&Subscriber{
		OnStateSnapshot: func(ev *events.StateSnapshotEvent) bool { return true },
	}))

	snap, err := m.Apply(events.NewStateSnapshotEvent(map[string]any{"k": "v"}))
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Nil(t, m.Conversation().State)
}
