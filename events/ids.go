package events

import "github.com/google/uuid"

// GenerateRunID returns a unique run identifier.
func GenerateRunID() string { return "run_" + uuid.NewString() }

// GenerateThreadID returns a unique thread identifier.
func GenerateThreadID() string { return "thread_" + uuid.NewString() }

// GenerateMessageID returns a unique message identifier.
func GenerateMessageID() string { return "msg_" + uuid.NewString() }

// GenerateToolCallID returns a unique tool call identifier.
func GenerateToolCallID() string { return "call_" + uuid.NewString() }

// GenerateReasoningID returns a unique reasoning phase identifier.
func GenerateReasoningID() string { return "reasoning_" + uuid.NewString() }

// GenerateStepID returns a unique step identifier.
func GenerateStepID() string { return "step_" + uuid.NewString() }
