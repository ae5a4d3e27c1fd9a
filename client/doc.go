// Package client connects to AG-UI agent endpoints over HTTP and turns
// their event streams into conversation state.
//
// A Client posts a RunAgentInput to the agent endpoint, decodes the SSE
// response, normalizes deprecated and chunked events, and feeds the result
// through a state machine. Subscribers registered on the client observe
// every event as it is applied; RunAgent returns the final conversation
// once the run reaches a terminal event.
//
// Connection establishment is retried on transient failures (rate limits,
// server errors, network timeouts). An open stream is never retried: a
// mid-stream failure terminates the run with a synthesized RUN_ERROR,
// keeping whatever state the run accumulated before the failure.
package client
