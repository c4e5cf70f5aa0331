package cookies

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/javierferrersb/Roast-My-Run/internal/domain/strava"
	"github.com/javierferrersb/Roast-My-Run/internal/service/token"
)

const (
	accessTokenCookie  = "strava_access_token"
	refreshTokenCookie = "strava_refresh_token"
	expiresAtCookie    = "strava_token_expires_at"
	stateCookie        = "oauth_state"
)

// Store reads and writes the credential cookies. Cookies are the sole
// persistence layer of this system; nothing is kept in-process between
// requests.
type Store struct {
	secure     bool
	refreshTTL time.Duration
	stateTTL   time.Duration
}

// NewStore constructs a Store. secure controls the Secure cookie attribute
// and should be true outside development.
func NewStore(secure bool, refreshTTL, stateTTL time.Duration) *Store {
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	if stateTTL <= 0 {
		stateTTL = 5 * time.Minute
	}
	return &Store{secure: secure, refreshTTL: refreshTTL, stateTTL: stateTTL}
}

// Load extracts the credential triple from the request cookies. The expiry
// cookie carries epoch milliseconds; an unparsable value is treated as
// unknown, so the token will not be trusted.
func (s *Store) Load(c *gin.Context) token.Credentials {
	creds := token.Credentials{}
	if v, err := c.Cookie(accessTokenCookie); err == nil {
		creds.AccessToken = v
	}
	if v, err := c.Cookie(refreshTokenCookie); err == nil {
		creds.RefreshToken = v
	}
	if v, err := c.Cookie(expiresAtCookie); err == nil {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			creds.ExpiresAt = time.UnixMilli(ms)
		}
	}
	return creds
}

// Save replaces the credential cookies wholesale from a freshly minted pair.
func (s *Store) Save(c *gin.Context, pair domain.TokenPair) {
	maxAge := int(pair.ExpiresIn)
	s.set(c, accessTokenCookie, pair.AccessToken, maxAge)
	s.set(c, refreshTokenCookie, pair.RefreshToken, int(s.refreshTTL.Seconds()))
	s.set(c, expiresAtCookie, strconv.FormatInt(pair.Expiry().UnixMilli(), 10), maxAge)
}

// Clear deletes the credential cookies.
func (s *Store) Clear(c *gin.Context) {
	s.set(c, accessTokenCookie, "", -1)
	s.set(c, refreshTokenCookie, "", -1)
	s.set(c, expiresAtCookie, "", -1)
}

// SetState mirrors the login CSRF state into a short-lived cookie.
func (s *Store) SetState(c *gin.Context, state string) {
	s.set(c, stateCookie, state, int(s.stateTTL.Seconds()))
}

// State returns the stored CSRF state, empty when absent.
func (s *Store) State(c *gin.Context) string {
	v, err := c.Cookie(stateCookie)
	if err != nil {
		return ""
	}
	return v
}

// ClearState deletes the CSRF state cookie.
func (s *Store) ClearState(c *gin.Context) {
	s.set(c, stateCookie, "", -1)
}

func (s *Store) set(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
