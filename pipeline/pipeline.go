package pipeline

import "github.com/spetersoncode/agui/events"

// Stage rewrites one incoming event into zero or more outgoing events.
// Stages hold per-run state and are not safe for concurrent use; construct a
// fresh stage per run.
type Stage interface {
	// Transform rewrites ev. Returning an empty slice drops the event.
	Transform(ev events.Event) ([]events.Event, error)

	// Flush emits any events needed to close sequences the stage is still
	// holding open when the stream ends.
	Flush() ([]events.Event, error)
}

// Versioned is implemented by compatibility stages. MaxProtocolVersion
// returns the newest protocol version whose producers still emit the
// deprecated forms the stage translates; streams from newer producers can
// skip the stage entirely.
type Versioned interface {
	MaxProtocolVersion() string
}

// Chain composes stages so that each stage consumes the previous stage's
// output, in registration order.
type Chain struct {
	stages []Stage
}

// NewChain creates a chain over the given stages.
func NewChain(stages ...Stage) *Chain {
	return &Chain{stages: stages}
}

// Normalize returns the standard normalization chain: thinking-event
// translation followed by chunk expansion. The result produces only events
// the state machine accepts.
func Normalize(opts ...ThinkingCompatOption) *Chain {
	return NewChain(NewThinkingCompat(opts...), NewChunkExpander())
}

// Transform feeds ev through every stage in order, flattening intermediate
// results. The first stage error aborts the chain.
func (c *Chain) Transform(ev events.Event) ([]events.Event, error) {
	in := []events.Event{ev}
	for _, stage := range c.stages {
		var out []events.Event
		for _, e := range in {
			transformed, err := stage.Transform(e)
			if err != nil {
				return nil, err
			}
			out = append(out, transformed...)
		}
		in = out
	}
	return in, nil
}

// Flush flushes every stage in order, feeding each stage's flushed events
// through the stages after it.
func (c *Chain) Flush() ([]events.Event, error) {
	var out []events.Event
	for i, stage := range c.stages {
		flushed, err := stage.Flush()
		if err != nil {
			return nil, err
		}
		for _, ev := range flushed {
			in := []events.Event{ev}
			for _, later := range c.stages[i+1:] {
				var next []events.Event
				for _, e := range in {
					transformed, err := later.Transform(e)
					if err != nil {
						return nil, err
					}
					next = append(next, transformed...)
				}
				in = next
			}
			out = append(out, in...)
		}
	}
	return out, nil
}
