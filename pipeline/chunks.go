package pipeline

import (
	"errors"

	"github.com/spetersoncode/agui/events"
)

// ChunkExpander expands the chunk convenience events into their canonical
// start/content/end (or start/args/end) sequences. Consecutive chunks
// sharing an id produce a single start and a single end; the end is emitted
// when a chunk for a different id arrives, when any non-chunk event
// interrupts the sequence, or at Flush.
type ChunkExpander struct {
	openKind events.EventType
	openID   string
}

// NewChunkExpander creates an expander for one run.
func NewChunkExpander() *ChunkExpander {
	return &ChunkExpander{}
}

// Transform expands chunk events and passes everything else through,
// closing any open chunk sequence first.
func (x *ChunkExpander) Transform(ev events.Event) ([]events.Event, error) {
	switch src := ev.(type) {
	case *events.TextMessageChunkEvent:
		return x.expandText(src)
	case *events.ReasoningMessageChunkEvent:
		return x.expandReasoning(src)
	case *events.ToolCallChunkEvent:
		return x.expandToolCall(src)
	}

	out := x.closeOpen()
	return append(out, ev), nil
}

// Flush closes any chunk sequence still open at end of stream.
func (x *ChunkExpander) Flush() ([]events.Event, error) {
	return x.closeOpen(), nil
}

func (x *ChunkExpander) expandText(src *events.TextMessageChunkEvent) ([]events.Event, error) {
	id := src.MessageID
	if id == "" {
		if x.openKind == events.EventTypeTextMessageChunk {
			id = x.openID
		} else {
			id = events.GenerateMessageID()
		}
	}

	var out []events.Event
	if x.openKind != events.EventTypeTextMessageChunk || x.openID != id {
		out = x.closeOpen()
		start := events.NewTextMessageStartEvent(id)
		if src.Role != "" {
			start.Role = src.Role
		}
		out = append(out, start)
		x.openKind = events.EventTypeTextMessageChunk
		x.openID = id
	}
	if src.Delta != "" {
		out = append(out, events.NewTextMessageContentEvent(id, src.Delta))
	}
	return out, nil
}

func (x *ChunkExpander) expandReasoning(src *events.ReasoningMessageChunkEvent) ([]events.Event, error) {
	id := src.MessageID
	if id == "" {
		if x.openKind == events.EventTypeReasoningMessageChunk {
			id = x.openID
		} else {
			id = events.GenerateMessageID()
		}
	}

	var out []events.Event
	if x.openKind != events.EventTypeReasoningMessageChunk || x.openID != id {
		out = x.closeOpen()
		out = append(out, events.NewReasoningMessageStartEvent(id))
		x.openKind = events.EventTypeReasoningMessageChunk
		x.openID = id
	}
	if src.Delta != "" {
		out = append(out, events.NewReasoningMessageContentEvent(id, src.Delta))
	}
	return out, nil
}

func (x *ChunkExpander) expandToolCall(src *events.ToolCallChunkEvent) ([]events.Event, error) {
	id := src.ToolCallID
	if id == "" {
		if x.openKind == events.EventTypeToolCallChunk {
			id = x.openID
		} else {
			id = events.GenerateToolCallID()
		}
	}

	var out []events.Event
	if x.openKind != events.EventTypeToolCallChunk || x.openID != id {
		if src.ToolCallName == "" {
			return nil, errors.New("TOOL_CALL_CHUNK: toolCallName is required to start a tool call")
		}
		out = x.closeOpen()
		var opts []events.ToolCallStartOption
		if src.ParentMessageID != "" {
			opts = append(opts, events.WithParentMessageID(src.ParentMessageID))
		}
		out = append(out, events.NewToolCallStartEvent(id, src.ToolCallName, opts...))
		x.openKind = events.EventTypeToolCallChunk
		x.openID = id
	}
	if src.Delta != "" {
		out = append(out, events.NewToolCallArgsEvent(id, src.Delta))
	}
	return out, nil
}

func (x *ChunkExpander) closeOpen() []events.Event {
	if x.openKind == "" {
		return nil
	}
	var end events.Event
	switch x.openKind {
	case events.EventTypeTextMessageChunk:
		end = events.NewTextMessageEndEvent(x.openID)
	case events.EventTypeReasoningMessageChunk:
		end = events.NewReasoningMessageEndEvent(x.openID)
	case events.EventTypeToolCallChunk:
		end = events.NewToolCallEndEvent(x.openID)
	}
	x.openKind = ""
	x.openID = ""
	return []events.Event{end}
}
