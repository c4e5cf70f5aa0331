package oauth

import "time"

// LoginState captures the CSRF state persisted while the user is away at the
// Strava authorization page.
type LoginState struct {
	State       string
	RedirectURI string
	CreatedAt   time.Time
}
