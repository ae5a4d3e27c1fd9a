package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/agui/events"
)

func TestChunkExpander_TextSequence(t *testing.T) {
	x := NewChunkExpander()

	out := transformAll(t, x,
		events.NewTextMessageChunkEvent("msg-1", "Hello "),
		events.NewTextMessageChunkEvent("msg-1", "world!"),
	)
	tail, err := x.Flush()
	require.NoError(t, err)
	out = append(out, tail...)

	require.Len(t, out, 4)
	assert.Equal(t, events.EventTypeTextMessageStart, out[0].Type())
	assert.Equal(t, "Hello ", out[1].(*events.TextMessageContentEvent).Delta)
	assert.Equal(t, "world!", out[2].(*events.TextMessageContentEvent).Delta)
	assert.Equal(t, events.EventTypeTextMessageEnd, out[3].Type())
	assert.Equal(t, "msg-1", out[3].(*events.TextMessageEndEvent).MessageID)
}

func TestChunkExpander_GeneratesMissingID(t *testing.T) {
	x := NewChunkExpander()

	out := transformAll(t, x,
		events.NewTextMessageChunkEvent("", "a"),
		events.NewTextMessageChunkEvent("", "b"),
	)

	require.Len(t, out, 3)
	id := out[0].(*events.TextMessageStartEvent).MessageID
	require.NotEmpty(t, id)
	assert.Equal(t, id, out[1].(*events.TextMessageContentEvent).MessageID)
	assert.Equal(t, id, out[2].(*events.TextMessageContentEvent).MessageID)
}

func TestChunkExpander_NewIDClosesPreviousStream(t *testing.T) {
	x := NewChunkExpander()

	out := transformAll(t, x,
		events.NewTextMessageChunkEvent("msg-1", "a"),
		events.NewTextMessageChunkEvent("msg-2", "b"),
	)

	require.Len(t, out, 5)
	assert.Equal(t, events.EventTypeTextMessageEnd, out[2].Type())
	assert.Equal(t, "msg-1", out[2].(*events.TextMessageEndEvent).MessageID)
	assert.Equal(t, "msg-2", out[3].(*events.TextMessageStartEvent).MessageID)
}

func TestChunkExpander_NonChunkEventInterrupts(t *testing.T) {
	x := NewChunkExpander()

	out := transformAll(t, x,
		events.NewTextMessageChunkEvent("msg-1", "a"),
		events.NewStateSnapshotEvent(map[string]any{"k": "v"}),
	)

	require.Len(t, out, 4)
	assert.Equal(t, events.EventTypeTextMessageEnd, out[2].Type())
	assert.Equal(t, events.EventTypeStateSnapshot, out[3].Type())
}

func TestChunkExpander_ToolCallSequence(t *testing.T) {
	x := NewChunkExpander()

	first := events.NewToolCallChunkEvent("call-1", "get_weather", `{"loc`)
	first.ParentMessageID = "msg-1"
	out := transformAll(t, x,
		first,
		events.NewToolCallChunkEvent("call-1", "", `ation":"SF"}`),
	)
	tail, err := x.Flush()
	require.NoError(t, err)
	out = append(out, tail...)

	require.Len(t, out, 4)
	start := out[0].(*events.ToolCallStartEvent)
	assert.Equal(t, "call-1", start.ToolCallID)
	assert.Equal(t, "get_weather", start.ToolCallName)
	assert.Equal(t, "msg-1", start.ParentMessageID)
	assert.Equal(t, `{"loc`, out[1].(*events.ToolCallArgsEvent).Delta)
	assert.Equal(t, `ation":"SF"}`, out[2].(*events.ToolCallArgsEvent).Delta)
	assert.Equal(t, events.EventTypeToolCallEnd, out[3].Type())
}

func TestChunkExpander_ToolCallChunkWithoutNameRejected(t *testing.T) {
	x := NewChunkExpander()

	_, err := x.Transform(events.NewToolCallChunkEvent("call-1", "", "{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toolCallName")
}

func TestChunkExpander_ReasoningSequence(t *testing.T) {
	x := NewChunkExpander()

	out := transformAll(t, x,
		events.NewReasoningMessageChunkEvent("msg-1", "thinking..."),
	)
	tail, err := x.Flush()
	require.NoError(t, err)
	out = append(out, tail...)

	require.Len(t, out, 3)
	assert.Equal(t, events.EventTypeReasoningMessageStart, out[0].Type())
	assert.Equal(t, events.EventTypeReasoningMessageContent, out[1].Type())
	assert.Equal(t, events.EventTypeReasoningMessageEnd, out[2].Type())
}

func TestChain_FlushFeedsLaterStages(t *testing.T) {
	chain := Normalize(WithoutDeprecationWarning())

	out, err := chain.Transform(events.NewTextMessageChunkEvent("msg-1", "hi"))
	require.NoError(t, err)
	require.Len(t, out, 2)

	tail, err := chain.Flush()
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, events.EventTypeTextMessageEnd, tail[0].Type())
}

func TestChain_ThinkingThenChunks(t *testing.T) {
	chain := Normalize(WithoutDeprecationWarning())

	var out []events.Event
	for _, ev := range []events.Event{
		events.NewThinkingStartEvent(""),
		events.NewThinkingTextMessageStartEvent(),
		events.NewThinkingTextMessageContentEvent("because"),
		events.NewThinkingTextMessageEndEvent(),
		events.NewThinkingEndEvent(),
		events.NewTextMessageChunkEvent("msg-1", "answer"),
	} {
		translated, err := chain.Transform(ev)
		require.NoError(t, err)
		out = append(out, translated...)
	}
	tail, err := chain.Flush()
	require.NoError(t, err)
	out = append(out, tail...)

	types := make([]events.EventType, len(out))
	for i, ev := range out {
		types[i] = ev.Type()
	}
	assert.Equal(t, []events.EventType{
		events.EventTypeReasoningStart,
		events.EventTypeReasoningMessageStart,
		events.EventTypeReasoningMessageContent,
		events.EventTypeReasoningMessageEnd,
		events.EventTypeReasoningEnd,
		events.EventTypeTextMessageStart,
		events.EventTypeTextMessageContent,
		events.EventTypeTextMessageEnd,
	}, types)
}
