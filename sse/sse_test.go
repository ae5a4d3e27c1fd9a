package sse

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/agui/events"
)

func TestWriterFraming(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteEvent(events.NewRunStartedEvent("thread_1", "run_1")))
	require.NoError(t, w.WriteEvent(events.NewTextMessageContentEvent("msg_1", "Hello")))

	out := buf.String()
	frames := strings.Split(strings.TrimSuffix(out, "\n\n"), "\n\n")
	require.Len(t, frames, 2)
	assert.True(t, strings.HasPrefix(frames[0], "data: "))
	assert.Contains(t, frames[0], `"type":"RUN_STARTED"`)
	assert.Contains(t, frames[1], `"delta":"Hello"`)
}

func TestWriterFlushesResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	w := PrepareResponse(rec)

	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	require.NoError(t, w.WriteEvent(events.NewRunFinishedEvent("thread_1", "run_1")))
	assert.True(t, rec.Flushed)
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	sent := []events.Event{
		events.NewRunStartedEvent("thread_1", "run_1"),
		events.NewTextMessageStartEvent("msg_1"),
		events.NewTextMessageContentEvent("msg_1", "Hello, world"),
		events.NewTextMessageEndEvent("msg_1"),
		events.NewRunFinishedEvent("thread_1", "run_1"),
	}
	for _, ev := range sent {
		require.NoError(t, w.WriteEvent(ev))
	}

	d := NewDecoder(&buf)
	var got []events.EventType
	for {
		ev, err := d.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, ev.Type())
	}
	want := []events.EventType{
		events.EventTypeRunStarted,
		events.EventTypeTextMessageStart,
		events.EventTypeTextMessageContent,
		events.EventTypeTextMessageEnd,
		events.EventTypeRunFinished,
	}
	assert.Equal(t, want, got)
}

func TestDecoderSkipsCommentsAndFields(t *testing.T) {
	stream := ": keep-alive\n" +
		"event: RUN_STARTED\n" +
		"id: 7\n" +
		"data: {\"type\":\"RUN_STARTED\",\"threadId\":\"t\",\"runId\":\"r\"}\n" +
		"\n"
	d := NewDecoder(strings.NewReader(stream))

	ev, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, events.EventTypeRunStarted, ev.Type())

	_, err = d.Next()
	assert.Equal(t, io.EOF, err)
}

func TestDecoderMultiLineData(t *testing.T) {
	stream := "data: {\"type\":\"CUSTOM\",\n" +
		"data: \"name\":\"metric\"}\n" +
		"\n"
	d := NewDecoder(strings.NewReader(stream))

	ev, err := d.Next()
	require.NoError(t, err)
	custom, ok := ev.(*events.CustomEvent)
	require.True(t, ok)
	assert.Equal(t, "metric", custom.Name)
}

func TestDecoderInvalidEvent(t *testing.T) {
	d := NewDecoder(strings.NewReader("data: {\"type\":\"NOT_A_THING\"}\n\n"))
	_, err := d.Next()
	require.Error(t, err)
	// Error is sticky.
	_, err2 := d.Next()
	assert.Equal(t, err, err2)
}

func TestDecoderUnterminatedFinalFrame(t *testing.T) {
	d := NewDecoder(strings.NewReader("data: {\"type\":\"RUN_FINISHED\",\"threadId\":\"t\",\"runId\":\"r\"}\n"))
	ev, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, events.EventTypeRunFinished, ev.Type())
	_, err = d.Next()
	assert.Equal(t, io.EOF, err)
}
