package events

import (
	"encoding/json"
	"fmt"
)

// Tool is a tool schema offered to the agent for the duration of a run.
// Frontend applications send these to declare client-side capabilities.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Context is one key/value hint forwarded to the agent alongside the run.
type Context struct {
	Description string `json:"description"`
	Value       string `json:"value"`
}

// RunAgentInput is the run-scoped request context: conversation identity,
// prior history, available tools, and opaque caller state. It initializes
// the conversation state machine at run start.
type RunAgentInput struct {
	ThreadID       string    `json:"threadId"`
	RunID          string    `json:"runId"`
	ParentRunID    string    `json:"parentRunId,omitempty"`
	State          any       `json:"state,omitempty"`
	Messages       []Message `json:"messages"`
	Tools          []Tool    `json:"tools,omitempty"`
	Context        []Context `json:"context,omitempty"`
	ForwardedProps any       `json:"forwardedProps,omitempty"`
}

// Validate checks the input's identifiers and prior messages.
func (in RunAgentInput) Validate() error {
	if in.ThreadID == "" {
		return fmt.Errorf("runAgentInput requires threadId")
	}
	if in.RunID == "" {
		return fmt.Errorf("runAgentInput requires runId")
	}
	seen := make(map[string]struct{}, len(in.Messages))
	for i, msg := range in.Messages {
		if err := validateMessage(msg); err != nil {
			return fmt.Errorf("messages[%d]: %w", i, err)
		}
		if _, dup := seen[msg.ID]; dup {
			return fmt.Errorf("messages[%d]: duplicate message id %q", i, msg.ID)
		}
		seen[msg.ID] = struct{}{}
	}
	return nil
}
