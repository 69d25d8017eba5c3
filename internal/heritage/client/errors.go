// Package client provides HTTP client functionality for the heritage API
package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// CodeInternalError is used when the server's error envelope is absent or malformed.
const CodeInternalError = "INTERNAL_ERROR"

// Sentinel errors for errors.Is() checks against *APIError.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("invalid or missing API key")
	ErrForbidden    = errors.New("forbidden for this plan")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflict")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrServer       = errors.New("server error")
)

// APIError is returned for every HTTP response whose status indicates failure.
// Transport and cancellation failures are never converted into an APIError.
type APIError struct {
	Status  int
	Code    string
	Message string
	Hint    string
	Doc     string
	TraceID string
	// RetryAfter is the server's retry hint in seconds, nil when absent or unparseable.
	RetryAfter *int64
	RateLimit  *RateLimit
	// Body is the decoded response body: json.RawMessage, string or []byte.
	Body any
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("heritage API error %d %s: %s", e.Status, e.Code, e.Message)
	if e.Hint != "" {
		msg += " (hint: " + e.Hint + ")"
	}
	if e.TraceID != "" {
		msg += " (trace_id: " + e.TraceID + ")"
	}
	return msg
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.Status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return target == ErrBadRequest
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	case http.StatusForbidden:
		return target == ErrForbidden
	case http.StatusNotFound, http.StatusGone:
		return target == ErrNotFound
	case http.StatusConflict:
		return target == ErrConflict
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	}
	if e.Status >= 500 {
		return target == ErrServer
	}
	return false
}

// RetryAfterDuration returns the retry hint as a duration and whether one was sent.
func (e *APIError) RetryAfterDuration() (time.Duration, bool) {
	if e.RetryAfter == nil {
		return 0, false
	}
	return time.Duration(*e.RetryAfter) * time.Second, true
}

// NDJSONError reports the first malformed record of a streaming export.
type NDJSONError struct {
	Line int
	Err  error
}

func (e *NDJSONError) Error() string {
	return fmt.Sprintf("invalid NDJSON record on line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *NDJSONError) Unwrap() error {
	return e.Err
}
