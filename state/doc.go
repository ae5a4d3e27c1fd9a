// Package state applies a normalized AG-UI event stream to an in-memory
// conversation, one event at a time.
//
// A [Machine] owns one conversation: the ordered message history plus the
// opaque shared state. Each call to [Machine.Apply] folds a single event into
// the conversation and returns a defensive-copy [Conversation] snapshot when
// the event mutated anything, or nil when it was a no-op. Events are applied
// strictly in arrival order; the machine never reorders, buffers, or blocks.
//
// The machine enforces the protocol's lifecycle rules:
//
//   - Streamed messages follow start/content/end. A start whose message id
//     already exists joins the existing message instead of duplicating it;
//     the message id is the join key between the text and tool call
//     sub-protocols.
//   - Content and end events naming an unknown message id are logged and
//     ignored. Streaming agents legitimately race and retry, so dangling
//     references are absorbed rather than failed.
//   - Chunk events and deprecated thinking events must be rewritten by the
//     pipeline package first; the machine fails fast if one reaches it.
//   - STATE_DELTA and ACTIVITY_DELTA apply RFC 6902 JSON Patches. An invalid
//     patch fails the run with no partial application.
//
// Registered [Subscriber] hooks observe each transition before it mutates the
// conversation and may veto the mutation of a single event. One machine
// serves one logical stream; concurrent runs each need their own machine.
package state
