package coros

import (
	"errors"
	"fmt"
)

// ErrFormatUnavailable means the vendor has no file of the requested format
// for an activity's sport type. The server signals this by omitting the data
// envelope from an otherwise successful response.
var ErrFormatUnavailable = errors.New("export format not available for this sport type")

// AuthError reports a failed login. It is always fatal to the run.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return "auth: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response on a call that is not retried.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// RetryError reports that a retried call exhausted all of its attempts. The
// orchestrators treat it as a per-activity failure, never a run failure.
type RetryError struct {
	Endpoint string
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("call to %s failed after %d attempts: %v", e.Endpoint, e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error { return e.Err }
