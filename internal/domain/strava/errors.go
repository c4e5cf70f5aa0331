package strava

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates an empty or malformed caller argument; no
	// upstream call was made.
	ErrInvalidInput = errors.New("strava: invalid input")
	// ErrMisconfigured indicates the client id or secret is absent; no
	// upstream call was made.
	ErrMisconfigured = errors.New("strava: client credentials not configured")
	// ErrActivityNotFound indicates Strava has no such activity.
	ErrActivityNotFound = errors.New("strava: activity not found")
)

// UpstreamError carries the non-2xx status returned by the Strava API.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("strava: upstream rejected request: status=%d", e.Status)
}

// TransportError wraps network-level failures, including timeouts.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("strava: transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
