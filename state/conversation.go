package state

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/spetersoncode/agui/events"
)

// Conversation is the aggregate the state machine folds events into: the
// ordered message history and the opaque shared state.
//
// Snapshots returned by [Machine.Apply] and [Machine.Conversation] copy the
// message list and tool call lists, so later events never mutate an already
// returned snapshot. Structured content values (activity objects, State) are
// shared but never modified in place by the machine; treat them as read-only.
type Conversation struct {
	Messages []events.Message `json:"messages"`
	State    any              `json:"state,omitempty"`
}

func (c Conversation) clone() Conversation {
	out := Conversation{State: c.State}
	if c.Messages != nil {
		out.Messages = make([]events.Message, len(c.Messages))
		copy(out.Messages, c.Messages)
		for i := range out.Messages {
			if calls := out.Messages[i].ToolCalls; calls != nil {
				copied := make([]events.ToolCall, len(calls))
				copy(copied, calls)
				out.Messages[i].ToolCalls = copied
			}
		}
	}
	return out
}

// indexOf returns the position of the message with the given id, or -1.
func (c Conversation) indexOf(messageID string) int {
	for i := range c.Messages {
		if c.Messages[i].ID == messageID {
			return i
		}
	}
	return -1
}

// findToolCall locates a tool call by id across all messages, returning the
// message index and tool call index, or (-1, -1).
func (c Conversation) findToolCall(toolCallID string) (int, int) {
	for i := range c.Messages {
		for j := range c.Messages[i].ToolCalls {
			if c.Messages[i].ToolCalls[j].ID == toolCallID {
				return i, j
			}
		}
	}
	return -1, -1
}

// applyJSONPatch applies an RFC 6902 operation sequence to doc, returning
// the patched value. A nil doc patches as an empty object. Any operation
// failure (bad path, type mismatch, failed test) returns an error with the
// document untouched; partial application is never surfaced.
func applyJSONPatch(doc any, ops []events.JSONPatchOperation) (any, error) {
	docBytes := []byte("{}")
	if doc != nil {
		var err error
		docBytes, err = json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
	}

	opsBytes, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	patch, err := jsonpatch.DecodePatch(opsBytes)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}

	patched, err := patch.Apply(docBytes)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}

	var result any
	if err := json.Unmarshal(patched, &result); err != nil {
		return nil, fmt.Errorf("decode patched document: %w", err)
	}
	return result, nil
}
