package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/spetersoncode/agui/events"
	"github.com/spetersoncode/agui/sse"
)

// AgentHandler handles AG-UI agent requests over SSE.
type AgentHandler struct {
	agent  ChatAgent
	config *Config
}

// NewAgentHandler creates a new handler for the given agent.
func NewAgentHandler(a ChatAgent, cfg *Config) *AgentHandler {
	return &AgentHandler{agent: a, config: cfg}
}

// ServeHTTP handles POST requests to run the agent and stream events via SSE.
func (h *AgentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		slog.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input events.RunAgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		slog.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	log := slog.With(
		"run_id", input.RunID,
		"thread_id", input.ThreadID,
	)

	if err := input.Validate(); err != nil {
		log.Warn("invalid input", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Info("request started", "message_count", len(input.Messages))

	if _, ok := w.(http.Flusher); !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	writer := sse.PrepareResponse(w)

	var eventCount int
	emit := func(ev events.Event) error {
		eventCount++
		log.Debug("sending SSE event", "event_type", ev.Type(), "event_num", eventCount)
		return writer.WriteEvent(ev)
	}

	ctx := r.Context()
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	if err := emit(events.NewRunStartedEvent(input.ThreadID, input.RunID)); err != nil {
		log.Error("failed to write SSE event", "error", err)
		return
	}

	runErr := h.agent.Run(ctx, input, emit)

	if runErr != nil {
		log.Error("run failed",
			"duration_ms", time.Since(start).Milliseconds(),
			"events_sent", eventCount,
			"error", runErr,
		)
		emit(events.NewRunErrorEvent(runErr.Error(), events.WithErrorCode("AGENT_ERROR")))
		return
	}

	if err := emit(events.NewRunFinishedEvent(input.ThreadID, input.RunID)); err != nil {
		log.Error("failed to write SSE event", "error", err)
		return
	}

	log.Info("request completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", eventCount,
	)
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
