// Package sse frames AG-UI protocol events for Server-Sent Events
// transports. Each event is serialized to one JSON object and framed as
// "data: <json>\n\n"; the [Decoder] reads such a stream back into typed
// events. The state machine's input contract is identical regardless of
// which framing produced the decoded event.
package sse

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spetersoncode/agui/events"
)

// Content types negotiated by AG-UI transports.
const (
	// ContentType is the canonical SSE content type.
	ContentType = "text/event-stream"

	// ContentTypeProto is the binary alternative: length-prefixed protocol
	// buffer frames. This package does not implement it; the constant is
	// exposed for content negotiation.
	ContentTypeProto = "application/vnd.ag-ui.event+proto"
)

// Writer frames protocol events onto an SSE stream, flushing after each
// event when the underlying writer supports it.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter creates a Writer over w. When w is an http.ResponseWriter the
// caller should set the Content-Type header to [ContentType] first; use
// [PrepareResponse] for the standard header set.
func NewWriter(w io.Writer) *Writer {
	sw := &Writer{w: w}
	if f, ok := w.(http.Flusher); ok {
		sw.flusher = f
	}
	return sw
}

// PrepareResponse sets the response headers an SSE event stream needs and
// returns a Writer over it.
func PrepareResponse(w http.ResponseWriter) *Writer {
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return NewWriter(w)
}

// WriteEvent frames one event as "data: <json>\n\n" and flushes.
func (w *Writer) WriteEvent(ev events.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("sse: serialize %s: %w", ev.Type(), err)
	}
	if _, err := fmt.Fprintf(w.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("sse: write %s: %w", ev.Type(), err)
	}
	if w.flusher != nil {
		w.flusher.Flush()
	}
	return nil
}

// Decoder reads protocol events off an SSE stream. It understands
// multi-line data fields and skips comments and non-data fields.
type Decoder struct {
	scanner *bufio.Scanner
	err     error
}

// NewDecoder creates a Decoder over r.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Decoder{scanner: scanner}
}

// Next returns the next event on the stream. It returns io.EOF when the
// stream ends cleanly, and a decode error when a frame carries an invalid
// or unknown event.
func (d *Decoder) Next() (events.Event, error) {
	if d.err != nil {
		return nil, d.err
	}

	var data []string
	for d.scanner.Scan() {
		line := d.scanner.Text()
		switch {
		case line == "":
			if len(data) == 0 {
				continue // empty frame, keep reading
			}
			ev, err := events.ParseEvent([]byte(strings.Join(data, "\n")))
			if err != nil {
				d.err = err
				return nil, err
			}
			return ev, nil
		case strings.HasPrefix(line, ":"):
			// comment / keep-alive
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// event:, id:, retry: fields carry no payload for this protocol
		}
	}

	if err := d.scanner.Err(); err != nil {
		d.err = err
		return nil, err
	}
	if len(data) > 0 {
		// Stream ended mid-frame; parse what we have.
		ev, err := events.ParseEvent([]byte(strings.Join(data, "\n")))
		if err != nil {
			d.err = err
			return nil, err
		}
		d.err = io.EOF
		return ev, nil
	}
	d.err = io.EOF
	return nil, io.EOF
}
