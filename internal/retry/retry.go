// Package retry wraps calls to rate-limited external services in a bounded retry loop.
//
// HTTP boundaries convert responses into a tagged [Failure] with [FromResponse] and [FromTransport],
// so callers decide what to retry by [Kind] instead of inspecting status codes.
package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
	maxBodySnippet     = 512
)

// ErrExhausted wraps the last failure once every attempt has been used.
var ErrExhausted = fmt.Errorf("retry attempts exhausted")

// Kind classifies a failed external call.
type Kind int

const (
	Transport Kind = iota
	RateLimited
	ServerError
	ClientError
)

func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case RateLimited:
		return "rate_limited"
	case ServerError:
		return "server_error"
	case ClientError:
		return "client_error"
	default:
		return "unknown"
	}
}

// Retryable reports whether a failure of this kind may succeed on a later attempt.
func (k Kind) Retryable() bool {
	return k != ClientError
}

// Failure is a tagged external call failure.
type Failure struct {
	Kind       Kind
	Status     int           // HTTP status, zero for transport failures
	RetryAfter time.Duration // server requested delay, zero when absent
	Err        error
}

func (f *Failure) Error() string {
	if f.Status > 0 {
		return fmt.Sprintf("%s (status %d): %v", f.Kind, f.Status, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// FromStatus classifies an HTTP status code. It returns nil for non-error statuses.
func FromStatus(status int, header http.Header, body []byte) error {
	if status < http.StatusBadRequest {
		return nil
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxBodySnippet {
		msg = msg[:maxBodySnippet]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	f := &Failure{Status: status, Err: errors.New(msg)}
	switch {
	case status == http.StatusTooManyRequests:
		f.Kind = RateLimited
		f.RetryAfter = ParseRetryAfter(header, time.Now())
	case status >= http.StatusInternalServerError:
		f.Kind = ServerError
		f.RetryAfter = ParseRetryAfter(header, time.Now())
	case status == http.StatusRequestTimeout:
		f.Kind = Transport
	default:
		f.Kind = ClientError
	}
	return f
}

// FromResponse classifies resp, reading a snippet of the body for the error message.
// It returns nil for non-error statuses and leaves closing the body to the caller.
func FromResponse(resp *http.Response) error {
	if resp == nil || resp.StatusCode < http.StatusBadRequest {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippet))
	return FromStatus(resp.StatusCode, resp.Header, body)
}

// FromTransport tags a network-level error. Context cancellation and errors that already
// carry a [Failure] are returned unchanged.
func FromTransport(err error) error {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.Is(err, context.Canceled) || errors.As(err, &f) {
		return err
	}
	return &Failure{Kind: Transport, Err: err}
}

// Retryable reports whether err is a [Failure] of a retryable kind.
func Retryable(err error) bool {
	var f *Failure
	if !errors.As(err, &f) {
		return false
	}
	return f.Kind.Retryable()
}

// KindOf returns the kind of the first [Failure] in err's chain.
func KindOf(err error) (Kind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return 0, false
}

// ParseRetryAfter reads a Retry-After header in either delta-seconds or HTTP-date form.
func ParseRetryAfter(header http.Header, now time.Time) time.Duration {
	raw := strings.TrimSpace(header.Get("Retry-After"))
	if raw == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if when, err := http.ParseTime(raw); err == nil {
		if until := when.Sub(now); until > 0 {
			return until
		}
	}

	return 0
}
