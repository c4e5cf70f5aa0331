package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/javierferrersb/Roast-My-Run/internal/config"
	"github.com/javierferrersb/Roast-My-Run/internal/domain/oauth"
	domain "github.com/javierferrersb/Roast-My-Run/internal/domain/strava"
	"github.com/javierferrersb/Roast-My-Run/internal/http/cookies"
	"github.com/javierferrersb/Roast-My-Run/internal/repository"
)

const statePrefix = "oauth:state:"

// CodeExchanger is the slice of the Strava API the auth handler consumes.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*domain.TokenPair, error)
}

// AuthHandler orchestrates the Strava OAuth flow and logout.
type AuthHandler struct {
	strava  CodeExchanger
	states  repository.OAuthStateStore
	cookies *cookies.Store
	cfg     config.Config
	logger  *zap.Logger
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(stravaClient CodeExchanger, states repository.OAuthStateStore, cookieStore *cookies.Store, cfg config.Config, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &AuthHandler{
		strava:  stravaClient,
		states:  states,
		cookies: cookieStore,
		cfg:     cfg,
		logger:  logger,
	}
}

// Login issues a CSRF state and redirects the user to the Strava
// authorization page.
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := secureRandomString(32)
	if err != nil {
		h.logger.Error("generate oauth state failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	payload := oauth.LoginState{
		State:       state,
		RedirectURI: h.cfg.StravaRedirectURI,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.states.SaveState(c.Request.Context(), statePrefix+state, payload, h.cfg.OAuthStateTTL); err != nil {
		h.logger.Error("persist oauth state failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	h.cookies.SetState(c, state)

	authURL, err := url.Parse(h.cfg.StravaAuthURL)
	if err != nil {
		h.logger.Error("parse strava auth url failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	params := authURL.Query()
	params.Set("client_id", h.cfg.StravaClientID)
	params.Set("redirect_uri", h.cfg.StravaRedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", h.cfg.StravaScope)
	params.Set("state", state)
	authURL.RawQuery = params.Encode()

	c.Redirect(http.StatusFound, authURL.String())
}

// Callback exchanges the authorization code for a token pair and issues the
// credential cookies.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")

	if state != "" {
		if err := h.validateState(c, state); err != nil {
			h.logger.Warn("oauth state mismatch", zap.Error(err))
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid state parameter"})
			return
		}
	}

	if code == "" {
		h.logger.Warn("oauth callback without authorization code")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	pair, err := h.strava.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		var transport *domain.TransportError
		if errors.As(err, &transport) {
			h.logger.Error("token exchange transport failure", zap.Error(err))
			c.Redirect(http.StatusFound, "/?error=oauth_failed")
			return
		}
		h.logger.Warn("token exchange rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to exchange authorization code for access token"})
		return
	}

	h.cookies.Save(c, *pair)
	h.cookies.ClearState(c)
	if state != "" {
		if err := h.states.DeleteState(c.Request.Context(), statePrefix+state); err != nil {
			h.logger.Warn("delete oauth state failed", zap.Error(err))
		}
	}

	if pair.Athlete != nil {
		h.logger.Info("strava account connected", zap.Int64("athlete_id", pair.Athlete.ID))
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout instructs the browser to delete the credential cookies. Stateless on
// the server side.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) validateState(c *gin.Context, state string) error {
	stored := h.cookies.State(c)
	if stored == "" || stored != state {
		return oauth.ErrInvalidState
	}
	persisted, err := h.states.GetState(c.Request.Context(), statePrefix+state)
	if err != nil {
		// The cookie comparison already gates CSRF; a store outage must not
		// lock users out of the callback.
		h.logger.Warn("oauth state store lookup failed", zap.Error(err))
		return nil
	}
	if persisted == nil {
		return oauth.ErrInvalidState
	}
	return nil
}

func secureRandomString(size int) (string, error) {
	if size <= 0 {
		size = 32
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
