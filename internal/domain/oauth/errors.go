package oauth

import "errors"

var (
	// ErrInvalidState indicates the callback state is missing or does not
	// match what was issued at login.
	ErrInvalidState = errors.New("oauth: invalid state")
	// ErrMissingCode indicates the provider redirected back without an
	// authorization code.
	ErrMissingCode = errors.New("oauth: missing authorization code")
)
