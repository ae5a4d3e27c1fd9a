package pipeline

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/spetersoncode/agui/events"
)

// thinkingWarnOnce limits the deprecation warning to once per process.
var thinkingWarnOnce sync.Once

// ThinkingCompat rewrites the deprecated THINKING_* event family into
// reasoning events, generating the correlation identifiers the old events
// lack. All other events pass through unchanged.
//
// The stage keeps two per-run identifiers: the id of the current reasoning
// phase and the id of the current reasoning message. Both reset on
// RUN_STARTED. Construct a fresh ThinkingCompat per run; sharing one across
// concurrent runs leaks correlation ids between them.
type ThinkingCompat struct {
	currentReasoningID string
	currentMessageID   string

	logger       *slog.Logger
	suppressWarn bool
}

// ThinkingCompatOption configures a ThinkingCompat.
type ThinkingCompatOption func(*ThinkingCompat)

// WithLogger sets the logger used for the deprecation warning.
func WithLogger(logger *slog.Logger) ThinkingCompatOption {
	return func(t *ThinkingCompat) { t.logger = logger }
}

// WithoutDeprecationWarning suppresses the one-time deprecation warning.
func WithoutDeprecationWarning() ThinkingCompatOption {
	return func(t *ThinkingCompat) { t.suppressWarn = true }
}

// NewThinkingCompat creates a translator for one run.
func NewThinkingCompat(opts ...ThinkingCompatOption) *ThinkingCompat {
	t := &ThinkingCompat{logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// MaxProtocolVersion returns the newest protocol version whose producers
// still emit thinking events.
func (t *ThinkingCompat) MaxProtocolVersion() string { return "0.8" }

// Transform rewrites deprecated thinking events into reasoning events.
func (t *ThinkingCompat) Transform(ev events.Event) ([]events.Event, error) {
	switch src := ev.(type) {
	case *events.RunStartedEvent:
		t.currentReasoningID = ""
		t.currentMessageID = ""
		return []events.Event{ev}, nil

	case *events.ThinkingStartEvent:
		t.warn()
		// The legacy title has no modern equivalent and is dropped.
		t.currentReasoningID = events.GenerateReasoningID()
		out := events.NewReasoningStartEvent(t.currentReasoningID)
		out.TimestampMs = src.TimestampMs
		return []events.Event{out}, nil

	case *events.ThinkingEndEvent:
		t.warn()
		id := t.currentReasoningID
		if id == "" {
			id = events.GenerateReasoningID()
		}
		out := events.NewReasoningEndEvent(id)
		out.TimestampMs = src.TimestampMs
		return []events.Event{out}, nil

	case *events.ThinkingTextMessageStartEvent:
		t.warn()
		t.currentMessageID = events.GenerateMessageID()
		out := events.NewReasoningMessageStartEvent(t.currentMessageID)
		out.TimestampMs = src.TimestampMs
		return []events.Event{out}, nil

	case *events.ThinkingTextMessageContentEvent:
		t.warn()
		if src.Delta == "" {
			return nil, errors.New("THINKING_TEXT_MESSAGE_CONTENT: delta must not be empty")
		}
		id := t.currentMessageID
		if id == "" {
			// Malformed stream sent content before start; synthesize an id
			// so the event is still routable.
			id = events.GenerateMessageID()
		}
		out := events.NewReasoningMessageContentEvent(id, src.Delta)
		out.TimestampMs = src.TimestampMs
		return []events.Event{out}, nil

	case *events.ThinkingTextMessageEndEvent:
		t.warn()
		id := t.currentMessageID
		if id == "" {
			id = events.GenerateMessageID()
		}
		out := events.NewReasoningMessageEndEvent(id)
		out.TimestampMs = src.TimestampMs
		return []events.Event{out}, nil
	}

	return []events.Event{ev}, nil
}

// Flush implements Stage. The translator holds no open sequences.
func (t *ThinkingCompat) Flush() ([]events.Event, error) { return nil, nil }

func (t *ThinkingCompat) warn() {
	if t.suppressWarn {
		return
	}
	thinkingWarnOnce.Do(func() {
		t.logger.Warn("THINKING_* events are deprecated; producers should emit REASONING_* events instead")
	})
}
