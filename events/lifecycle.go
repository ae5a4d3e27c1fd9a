package events

import "errors"

// RunStartedEvent signals that an agent run has begun.
type RunStartedEvent struct {
	BaseEvent
	ThreadID    string `json:"threadId"`
	RunID       string `json:"runId"`
	ParentRunID string `json:"parentRunId,omitempty"`
}

// RunStartedOption configures a RunStartedEvent.
type RunStartedOption func(*RunStartedEvent)

// WithParentRunID records the run this run branched from, enabling
// branching and replay lineage.
func WithParentRunID(id string) RunStartedOption {
	return func(e *RunStartedEvent) { e.ParentRunID = id }
}

// NewRunStartedEvent creates a RUN_STARTED event.
func NewRunStartedEvent(threadID, runID string, opts ...RunStartedOption) *RunStartedEvent {
	e := &RunStartedEvent{
		BaseEvent: newBase(EventTypeRunStarted),
		ThreadID:  threadID,
		RunID:     runID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks the event's required fields.
func (e *RunStartedEvent) Validate() error {
	if e.ThreadID == "" {
		return errors.New("RUN_STARTED: threadId is required")
	}
	if e.RunID == "" {
		return errors.New("RUN_STARTED: runId is required")
	}
	return nil
}

// RunFinishedEvent signals that an agent run has completed successfully.
type RunFinishedEvent struct {
	BaseEvent
	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`
	Result   any    `json:"result,omitempty"`
}

// RunFinishedOption configures a RunFinishedEvent.
type RunFinishedOption func(*RunFinishedEvent)

// WithResult attaches a final result payload to the run.
func WithResult(result any) RunFinishedOption {
	return func(e *RunFinishedEvent) { e.Result = result }
}

// NewRunFinishedEvent creates a RUN_FINISHED event.
func NewRunFinishedEvent(threadID, runID string, opts ...RunFinishedOption) *RunFinishedEvent {
	e := &RunFinishedEvent{
		BaseEvent: newBase(EventTypeRunFinished),
		ThreadID:  threadID,
		RunID:     runID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks the event's required fields.
func (e *RunFinishedEvent) Validate() error {
	if e.ThreadID == "" {
		return errors.New("RUN_FINISHED: threadId is required")
	}
	if e.RunID == "" {
		return errors.New("RUN_FINISHED: runId is required")
	}
	return nil
}

// RunErrorEvent signals that an agent run terminated with an error.
type RunErrorEvent struct {
	BaseEvent
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RunErrorOption configures a RunErrorEvent.
type RunErrorOption func(*RunErrorEvent)

// WithErrorCode attaches a machine-readable error code.
func WithErrorCode(code string) RunErrorOption {
	return func(e *RunErrorEvent) { e.Code = code }
}

// NewRunErrorEvent creates a RUN_ERROR event.
func NewRunErrorEvent(message string, opts ...RunErrorOption) *RunErrorEvent {
	e := &RunErrorEvent{
		BaseEvent: newBase(EventTypeRunError),
		Message:   message,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks the event's required fields.
func (e *RunErrorEvent) Validate() error {
	if e.Message == "" {
		return errors.New("RUN_ERROR: message is required")
	}
	return nil
}

// StepStartedEvent signals that an individual step has begun.
type StepStartedEvent struct {
	BaseEvent
	StepName string `json:"stepName"`
}

// NewStepStartedEvent creates a STEP_STARTED event.
func NewStepStartedEvent(stepName string) *StepStartedEvent {
	return &StepStartedEvent{
		BaseEvent: newBase(EventTypeStepStarted),
		StepName:  stepName,
	}
}

// Validate checks the event's required fields.
func (e *StepStartedEvent) Validate() error {
	if e.StepName == "" {
		return errors.New("STEP_STARTED: stepName is required")
	}
	return nil
}

// StepFinishedEvent signals that an individual step has completed.
type StepFinishedEvent struct {
	BaseEvent
	StepName string `json:"stepName"`
}

// NewStepFinishedEvent creates a STEP_FINISHED event.
func NewStepFinishedEvent(stepName string) *StepFinishedEvent {
	return &StepFinishedEvent{
		BaseEvent: newBase(EventTypeStepFinished),
		StepName:  stepName,
	}
}

// Validate checks the event's required fields.
func (e *StepFinishedEvent) Validate() error {
	if e.StepName == "" {
		return errors.New("STEP_FINISHED: stepName is required")
	}
	return nil
}
