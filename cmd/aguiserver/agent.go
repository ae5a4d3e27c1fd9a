package main

import (
	"context"

	"github.com/spetersoncode/agui/events"
)

// ChatAgent streams the model's output for one run as protocol events.
// Implementations emit message and tool call events; the handler owns the
// run lifecycle events.
type ChatAgent interface {
	Run(ctx context.Context, input events.RunAgentInput, emit func(events.Event) error) error
}

// promptMessage is the provider-neutral form of a conversation turn.
type promptMessage struct {
	Role    events.Role
	Content string
}

// promptFromInput flattens the run input into text turns the provider SDKs
// accept. Activity and reasoning messages are UI state, not prompt
// material, and are skipped along with non-text content.
func promptFromInput(input events.RunAgentInput) []promptMessage {
	var prompt []promptMessage
	for _, msg := range input.Messages {
		switch msg.Role {
		case events.RoleActivity, events.RoleReasoning:
			continue
		}
		content, ok := msg.ContentString()
		if !ok || content == "" {
			continue
		}
		prompt = append(prompt, promptMessage{Role: msg.Role, Content: content})
	}
	return prompt
}

// emitToolCall streams one completed tool call as a start/args/end triple
// parented on messageID.
func emitToolCall(emit func(events.Event) error, messageID, callID, name, args string) error {
	start := events.NewToolCallStartEvent(callID, name, events.WithParentMessageID(messageID))
	if err := emit(start); err != nil {
		return err
	}
	if args != "" {
		if err := emit(events.NewToolCallArgsEvent(callID, args)); err != nil {
			return err
		}
	}
	return emit(events.NewToolCallEndEvent(callID))
}
