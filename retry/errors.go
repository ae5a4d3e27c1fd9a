package retry

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"time"
)

// StatusError reports a non-success HTTP response from an agent endpoint.
type StatusError struct {
	Code int
	// RetryAfter carries the server's suggested delay, 0 when absent.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("agent endpoint returned HTTP %d", e.Code)
}

// StatusCode returns the HTTP status code.
func (e *StatusError) StatusCode() int {
	return e.Code
}

// statusCoder matches errors carrying an HTTP status code, including the
// error types of the provider SDKs.
type statusCoder interface {
	StatusCode() int
}

// IsTransient determines whether a connection error should be retried:
// rate limits (HTTP 429), server errors (HTTP 5xx), network timeouts,
// connection resets and temporary DNS failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		return isTransientStatusCode(sc.StatusCode())
	}

	return isTransientNetworkError(err)
}

func isTransientStatusCode(code int) bool {
	if code == 429 {
		return true
	}
	return code >= 500 && code < 600
}

func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && isTransientNetworkError(urlErr.Err) {
			return true
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary()
	}

	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		switch syscallErr {
		case syscall.ECONNRESET,
			syscall.ECONNREFUSED,
			syscall.ETIMEDOUT:
			return true
		}
	}

	// Fallback for wrapped errors that lost their type.
	errMsg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection reset",
		"connection refused",
		"timeout",
		"temporary failure",
		"service unavailable",
		"too many requests",
	}
	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}
