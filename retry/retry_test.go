package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(3), func() (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransient(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(3), func() (string, error) {
		calls++
		if calls < 3 {
			return "", &StatusError{Code: 503}
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanent(t *testing.T) {
	calls := 0
	permanent := &StatusError{Code: 401}
	_, err := Do(context.Background(), fastConfig(3), func() (string, error) {
		calls++
		return "", permanent
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 401, se.Code)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(3), func() (int, error) {
		calls++
		return 0, &StatusError{Code: 500}
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoRespectsContextDuringBackoff(t *testing.T) {
	cfg := Config{MaxAttempts: 5, InitialDelay: time.Minute, Multiplier: 2.0}
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := Do(ctx, cfg, func() (int, error) {
		calls++
		return 0, &StatusError{Code: 503}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDisabledSingleAttempt(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Disabled(), func() (int, error) {
		calls++
		return 0, &StatusError{Code: 503}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDelayGrowth(t *testing.T) {
	cfg := Config{InitialDelay: time.Second, MaxDelay: 10 * time.Second, Multiplier: 2.0}
	assert.Equal(t, time.Second, cfg.Delay(0))
	assert.Equal(t, 2*time.Second, cfg.Delay(1))
	assert.Equal(t, 4*time.Second, cfg.Delay(2))
	// Capped at MaxDelay.
	assert.Equal(t, 10*time.Second, cfg.Delay(10))
}

func TestDelayUncappedWithoutMaxDelay(t *testing.T) {
	cfg := Config{InitialDelay: time.Second, Multiplier: 2.0}
	assert.Equal(t, time.Second, cfg.Delay(0))
	assert.Equal(t, 8*time.Second, cfg.Delay(3))
}

func TestDelayJitterBounds(t *testing.T) {
	cfg := Config{InitialDelay: time.Second, MaxDelay: time.Minute, Multiplier: 2.0, Jitter: 0.1}
	for i := 0; i < 50; i++ {
		d := cfg.Delay(0)
		assert.GreaterOrEqual(t, d, 900*time.Millisecond)
		assert.LessOrEqual(t, d, 1100*time.Millisecond)
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "deadline exceeded" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", &StatusError{Code: 429}, true},
		{"server error", &StatusError{Code: 502}, true},
		{"unauthorized", &StatusError{Code: 401}, false},
		{"not found", &StatusError{Code: 404}, false},
		{"wrapped status", fmt.Errorf("connect: %w", &StatusError{Code: 503}), true},
		{"net timeout", timeoutError{}, true},
		{"url timeout", &url.Error{Op: "Post", URL: "http://agent", Err: timeoutError{}}, true},
		{"dns temporary", &net.DNSError{IsTemporary: true}, true},
		{"dns permanent", &net.DNSError{IsNotFound: true}, false},
		{"conn refused", syscall.ECONNREFUSED, true},
		{"conn reset", syscall.ECONNRESET, true},
		{"plain error", errors.New("boom"), false},
		{"message pattern", errors.New("read tcp: connection reset by peer"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestDoHonorsRetryAfter(t *testing.T) {
	cfg := Config{MaxAttempts: 2, InitialDelay: time.Millisecond, Multiplier: 1.0}
	calls := 0
	start := time.Now()
	_, err := Do(context.Background(), cfg, func() (int, error) {
		calls++
		if calls == 1 {
			return 0, &StatusError{Code: 429, RetryAfter: 30 * time.Millisecond}
		}
		return 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
