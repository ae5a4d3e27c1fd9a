// Package events defines the AG-UI protocol event vocabulary and message types.
//
// AG-UI (Agent-User Interface) is an open, lightweight, event-based protocol
// that standardizes how AI agents connect to user-facing applications. An
// agent run is expressed as an ordered stream of typed events: run lifecycle,
// streaming text messages, reasoning traces, tool calls, and state
// synchronization.
//
// # Event Types
//
// Every event carries a discriminating [EventType], an optional timestamp, and
// an optional raw passthrough payload. The set of event types is closed:
//
// Run lifecycle:
//   - RUN_STARTED, RUN_FINISHED, RUN_ERROR
//   - STEP_STARTED, STEP_FINISHED
//
// Text messages (streamed as start/content/end triples):
//   - TEXT_MESSAGE_START, TEXT_MESSAGE_CONTENT, TEXT_MESSAGE_END
//   - TEXT_MESSAGE_CHUNK (authoring convenience, expanded before application)
//
// Reasoning traces:
//   - REASONING_START, REASONING_END
//   - REASONING_MESSAGE_START, REASONING_MESSAGE_CONTENT, REASONING_MESSAGE_END
//   - REASONING_MESSAGE_CHUNK, REASONING_ENCRYPTED_VALUE
//
// Deprecated thinking events (translated by the pipeline package):
//   - THINKING_START, THINKING_END
//   - THINKING_TEXT_MESSAGE_START, THINKING_TEXT_MESSAGE_CONTENT, THINKING_TEXT_MESSAGE_END
//
// Tool calls:
//   - TOOL_CALL_START, TOOL_CALL_ARGS, TOOL_CALL_END
//   - TOOL_CALL_CHUNK, TOOL_CALL_RESULT
//
// State synchronization:
//   - STATE_SNAPSHOT, STATE_DELTA (JSON Patch, RFC 6902), MESSAGES_SNAPSHOT
//   - ACTIVITY_SNAPSHOT, ACTIVITY_DELTA
//
// Escape hatches:
//   - RAW, CUSTOM
//
// # Basic Usage
//
// Events are created through constructors and serialized as single JSON
// objects with camelCase keys:
//
//	start := events.NewTextMessageStartEvent("msg-1", events.WithRole("assistant"))
//	content := events.NewTextMessageContentEvent("msg-1", "Hello, ")
//	end := events.NewTextMessageEndEvent("msg-1")
//
// Wire payloads are decoded with [ParseEvent], which rejects unknown event
// types. Identifier helpers ([GenerateRunID], [GenerateMessageID], ...) produce
// prefixed unique IDs for correlation.
//
// This package contains data definitions only. Event application lives in the
// state package; normalization of deprecated and chunked streams lives in the
// pipeline package.
package events
