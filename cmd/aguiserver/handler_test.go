package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/agui/events"
	"github.com/spetersoncode/agui/sse"
)

// stubAgent emits a fixed script, or fails.
type stubAgent struct {
	script []events.Event
	err    error
}

func (s *stubAgent) Run(ctx context.Context, input events.RunAgentInput, emit func(events.Event) error) error {
	for _, ev := range s.script {
		if err := emit(ev); err != nil {
			return err
		}
	}
	return s.err
}

func runRequest(t *testing.T, agent ChatAgent, input events.RunAgentInput) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(input)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/agent", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	NewAgentHandler(agent, &Config{}).ServeHTTP(rec, req)
	return rec
}

func decodeTypes(t *testing.T, r io.Reader) []events.EventType {
	t.Helper()
	dec := sse.NewDecoder(r)
	var types []events.EventType
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		types = append(types, ev.Type())
	}
	return types
}

func TestHandlerWrapsRunInLifecycle(t *testing.T) {
	agent := &stubAgent{script: []events.Event{
		events.NewTextMessageStartEvent("msg_1"),
		events.NewTextMessageContentEvent("msg_1", "hello"),
		events.NewTextMessageEndEvent("msg_1"),
	}}
	rec := runRequest(t, agent, events.RunAgentInput{ThreadID: "t", RunID: "r"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sse.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, []events.EventType{
		events.EventTypeRunStarted,
		events.EventTypeTextMessageStart,
		events.EventTypeTextMessageContent,
		events.EventTypeTextMessageEnd,
		events.EventTypeRunFinished,
	}, decodeTypes(t, rec.Body))
}

func TestHandlerAgentErrorBecomesRunError(t *testing.T) {
	agent := &stubAgent{err: errors.New("model overloaded")}
	rec := runRequest(t, agent, events.RunAgentInput{ThreadID: "t", RunID: "r"})

	types := decodeTypes(t, rec.Body)
	require.NotEmpty(t, types)
	assert.Equal(t, events.EventTypeRunStarted, types[0])
	assert.Equal(t, events.EventTypeRunError, types[len(types)-1])
}

func TestHandlerRejectsInvalidInput(t *testing.T) {
	rec := runRequest(t, &stubAgent{}, events.RunAgentInput{RunID: "r"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerRejectsNonPost(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/agent", nil)
	rec := httptest.NewRecorder()
	NewAgentHandler(&stubAgent{}, &Config{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
