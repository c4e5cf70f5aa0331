package strava

import "time"

// TokenPair models the response from the Strava OAuth token endpoint. A pair
// is either fully populated or the holder has no credential; partial pairs are
// never persisted.
type TokenPair struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresAt    int64    `json:"expires_at"`
	ExpiresIn    int64    `json:"expires_in"`
	TokenType    string   `json:"token_type"`
	Athlete      *Athlete `json:"athlete,omitempty"`
}

// Expiry converts the upstream unix-seconds expiry into a time.Time.
func (p TokenPair) Expiry() time.Time {
	return time.Unix(p.ExpiresAt, 0)
}

// Athlete is the account identifier Strava attaches to the initial exchange.
type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
}

// Activity is the fixed projection of an upstream activity record. Decoding
// through this struct is the stability boundary against upstream schema
// drift: any field Strava adds is dropped here.
type Activity struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Distance           float64  `json:"distance"`
	MovingTime         int64    `json:"moving_time"`
	TotalElevationGain float64  `json:"total_elevation_gain"`
	AverageHeartrate   *float64 `json:"average_heartrate,omitempty"`
	Type               string   `json:"type"`
	StartDate          string   `json:"start_date"`
	SportType          string   `json:"sport_type,omitempty"`
}
