package events

import "errors"

// RawEvent passes a foreign event through the protocol unchanged. Consumers
// that do not understand the source ignore it.
type RawEvent struct {
	BaseEvent
	Event  any    `json:"event"`
	Source string `json:"source,omitempty"`
}

// RawOption configures a RawEvent.
type RawOption func(*RawEvent)

// WithSource names the system the foreign event originated from.
func WithSource(source string) RawOption {
	return func(e *RawEvent) { e.Source = source }
}

// NewRawEvent creates a RAW event wrapping a foreign payload.
func NewRawEvent(event any, opts ...RawOption) *RawEvent {
	e := &RawEvent{
		BaseEvent: newBase(EventTypeRaw),
		Event:     event,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks the event's required fields.
func (e *RawEvent) Validate() error {
	if e.Event == nil {
		return errors.New("RAW: event payload is required")
	}
	return nil
}

// CustomEvent carries a named, application-defined payload. The protocol
// assigns it no semantics.
type CustomEvent struct {
	BaseEvent
	Name  string `json:"name"`
	Value any    `json:"value,omitempty"`
}

// NewCustomEvent creates a CUSTOM event.
func NewCustomEvent(name string, value any) *CustomEvent {
	return &CustomEvent{
		BaseEvent: newBase(EventTypeCustom),
		Name:      name,
		Value:     value,
	}
}

// Validate checks the event's required fields.
func (e *CustomEvent) Validate() error {
	if e.Name == "" {
		return errors.New("CUSTOM: name is required")
	}
	return nil
}
