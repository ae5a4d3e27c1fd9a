// Package pipeline normalizes a raw protocol event stream before state
// application.
//
// Producers are allowed two shorthands the state machine refuses to
// interpret: chunk events (TEXT_MESSAGE_CHUNK, REASONING_MESSAGE_CHUNK,
// TOOL_CALL_CHUNK), which aggregate a start/content/end triple, and the
// deprecated THINKING_* event family, which predates reasoning events. A
// [Chain] of [Stage] values rewrites both into their canonical forms, in
// order, one event in and zero or more events out:
//
//	chain := pipeline.Normalize()
//	for ev := range incoming {
//	    expanded, err := chain.Transform(ev)
//	    ...
//	}
//	tail, err := chain.Flush() // close any still-open chunk streams
//
// Stages are stateful for the duration of one run and must not be reused
// across runs. Compatibility stages additionally implement [Versioned],
// declaring the newest protocol version whose streams they still translate,
// so callers can skip stages their producers no longer need.
package pipeline
