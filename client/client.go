package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/spetersoncode/agui/events"
	"github.com/spetersoncode/agui/pipeline"
	"github.com/spetersoncode/agui/retry"
	"github.com/spetersoncode/agui/sse"
	"github.com/spetersoncode/agui/state"
)

// RunError is returned when the agent terminates a run with RUN_ERROR.
type RunError struct {
	Message string
	Code    string
}

func (e *RunError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("run failed (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("run failed: %s", e.Message)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for agent requests.
// The default has no timeout; agent streams are long-lived.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRetryConfig configures connection retry behavior.
// The default retries transient connection failures three times.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) {
		c.retryCfg = cfg
	}
}

// WithSubscriber registers a subscriber on the underlying state machine.
func WithSubscriber(sub *state.Subscriber) Option {
	return func(c *Client) {
		c.subs = append(c.subs, sub)
	}
}

// WithHeader adds a header to every agent request, e.g. for bearer auth.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Add(key, value)
	}
}

// Client runs agents at a single HTTP endpoint and accumulates the
// resulting conversation across runs. It is not safe for concurrent use;
// one Client serves one thread of conversation.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
	retryCfg retry.Config
	headers  http.Header
	subs     []*state.Subscriber

	machine *state.Machine
}

// New creates a Client for the agent at endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{},
		logger:   slog.Default(),
		retryCfg: retry.DefaultConfig(),
		headers:  make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}

	machineOpts := []state.Option{state.WithLogger(c.logger)}
	for _, sub := range c.subs {
		machineOpts = append(machineOpts, state.WithSubscriber(sub))
	}
	c.machine = state.NewMachine(machineOpts...)
	return c
}

// Subscribe registers a subscriber for all subsequent runs.
func (c *Client) Subscribe(sub *state.Subscriber) {
	c.machine.Subscribe(sub)
}

// Conversation returns a copy of the accumulated conversation state.
func (c *Client) Conversation() state.Conversation {
	return c.machine.Conversation()
}

// RunAgent posts input to the agent endpoint and applies the streamed
// events until the run terminates. It returns the conversation as of the
// terminal event. A RUN_ERROR termination is returned as *RunError; state
// accumulated before a failure is kept, never rolled back.
func (c *Client) RunAgent(ctx context.Context, input events.RunAgentInput) (state.Conversation, error) {
	if err := input.Validate(); err != nil {
		return c.machine.Conversation(), fmt.Errorf("invalid run input: %w", err)
	}

	// Seed the machine when the caller supplies history or initial state.
	// A bare input continues the conversation accumulated so far.
	if input.Messages != nil || input.State != nil {
		if err := c.machine.LoadInput(input); err != nil {
			return c.machine.Conversation(), err
		}
	}

	body, err := json.Marshal(input)
	if err != nil {
		return c.machine.Conversation(), fmt.Errorf("encode run input: %w", err)
	}

	logger := c.logger.With("thread_id", input.ThreadID, "run_id", input.RunID)
	logger.Debug("starting agent run", "endpoint", c.endpoint)

	resp, err := retry.Do(ctx, c.retryCfg, func() (*http.Response, error) {
		return c.connect(ctx, body)
	})
	if err != nil {
		return c.failRun(logger, "connecting to agent", err)
	}
	defer resp.Body.Close()

	return c.consume(logger, resp.Body)
}

// connect issues one POST attempt. Non-200 responses become
// retry.StatusError so the retry layer can classify them.
func (c *Client) connect(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", sse.ContentType)
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &retry.StatusError{
			Code:       resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return resp, nil
}

// consume decodes the SSE stream and applies each event until a terminal
// event or a transport failure.
func (c *Client) consume(logger *slog.Logger, r io.Reader) (state.Conversation, error) {
	dec := sse.NewDecoder(r)
	chain := pipeline.Normalize(pipeline.WithLogger(logger))

	var runErr *RunError
	finished := false
	for !finished && runErr == nil {
		ev, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return c.failRun(logger, "reading agent stream", err)
		}

		out, err := chain.Transform(ev)
		if err != nil {
			return c.failRun(logger, "normalizing event", err)
		}
		for _, ev := range out {
			if _, err := c.machine.Apply(ev); err != nil {
				return c.failRun(logger, "applying event", err)
			}
			switch e := ev.(type) {
			case *events.RunFinishedEvent:
				finished = true
			case *events.RunErrorEvent:
				runErr = &RunError{Message: e.Message, Code: e.Code}
			}
		}
	}

	// Close any stream the agent left open.
	out, flushErr := chain.Flush()
	if flushErr == nil {
		for _, ev := range out {
			if _, err := c.machine.Apply(ev); err != nil {
				flushErr = err
				break
			}
		}
	}

	conv := c.machine.Conversation()
	if runErr != nil {
		if flushErr != nil {
			logger.Warn("discarding events at stream end", "error", flushErr)
		}
		logger.Warn("run terminated with error", "code", runErr.Code, "message", runErr.Message)
		return conv, runErr
	}
	if flushErr != nil {
		return c.failRun(logger, "finalizing event stream", flushErr)
	}
	if !finished {
		// Stream ended without a terminal event.
		return c.failRun(logger, "reading agent stream", io.ErrUnexpectedEOF)
	}
	logger.Debug("run finished", "messages", len(conv.Messages))
	return conv, nil
}

// failRun synthesizes a terminal RUN_ERROR so subscribers observe the
// failure, then returns the conversation as it stood.
func (c *Client) failRun(logger *slog.Logger, op string, cause error) (state.Conversation, error) {
	err := fmt.Errorf("%s: %w", op, cause)
	logger.Error("run failed", "error", err)
	synthetic := events.NewRunErrorEvent(err.Error(), events.WithErrorCode("TRANSPORT_ERROR"))
	if _, applyErr := c.machine.Apply(synthetic); applyErr != nil {
		logger.Error("failed to record run error", "error", applyErr)
	}
	return c.machine.Conversation(), err
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
