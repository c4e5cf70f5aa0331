package strava

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "github.com/javierferrersb/Roast-My-Run/internal/domain/strava"
)

const (
	defaultTokenURL   = "https://www.strava.com/api/v3/oauth/token"
	defaultAPIBaseURL = "https://www.strava.com/api/v3"
)

// API describes the outbound Strava surface consumed by the services.
type API interface {
	ExchangeCode(ctx context.Context, code string) (*domain.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	ListActivities(ctx context.Context, accessToken string, limit int) ([]domain.Activity, error)
	GetActivity(ctx context.Context, accessToken string, activityID int64) (*domain.Activity, error)
}

// Config carries the client credentials and endpoint overrides.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	APIBaseURL   string
}

// Client is the default HTTP implementation of the Strava API.
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     *zap.Logger
}

var _ API = (*Client)(nil)

// NewClient constructs a Client. A nil http.Client gets a bounded default so
// no upstream call can hang on transport defaults.
func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Client{httpClient: httpClient, cfg: cfg, logger: logger}
}

// ExchangeCode exchanges an authorization code for an initial token pair.
// Authorization codes are single-use and short-lived, so nothing is retried.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*domain.TokenPair, error) {
	if strings.TrimSpace(code) == "" {
		return nil, domain.ErrInvalidInput
	}
	return c.requestToken(ctx, map[string]string{
		"code":       code,
		"grant_type": "authorization_code",
	})
}

// RefreshToken exchanges a refresh token for a new token pair. A rejected
// refresh token means re-authentication, not a transient condition, so there
// is no retry here; retry policy belongs to the caller.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, domain.ErrInvalidInput
	}
	return c.requestToken(ctx, map[string]string{
		"refresh_token": refreshToken,
		"grant_type":    "refresh_token",
	})
}

func (c *Client) requestToken(ctx context.Context, grant map[string]string) (*domain.TokenPair, error) {
	if strings.TrimSpace(c.cfg.ClientID) == "" || strings.TrimSpace(c.cfg.ClientSecret) == "" {
		return nil, domain.ErrMisconfigured
	}

	payload := map[string]string{
		"client_id":     c.cfg.ClientID,
		"client_secret": c.cfg.ClientSecret,
	}
	for k, v := range grant {
		payload[k] = v
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("strava token endpoint rejected request",
			zap.Int("status", resp.StatusCode),
			zap.String("grant_type", grant["grant_type"]),
		)
		return nil, &domain.UpstreamError{Status: resp.StatusCode}
	}

	var pair domain.TokenPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &pair, nil
}

// ListActivities fetches a single page of the athlete's most recent
// activities, most-recent-first as returned by Strava.
func (c *Client) ListActivities(ctx context.Context, accessToken string, limit int) ([]domain.Activity, error) {
	if strings.TrimSpace(accessToken) == "" || limit <= 0 {
		return nil, domain.ErrInvalidInput
	}

	endpoint := fmt.Sprintf("%s/athlete/activities?per_page=%d&page=1", c.cfg.APIBaseURL, limit)
	raw, err := c.get(ctx, endpoint, accessToken)
	if err != nil {
		return nil, err
	}

	var activities []domain.Activity
	if err := json.Unmarshal(raw, &activities); err != nil {
		return nil, fmt.Errorf("decode activities response: %w", err)
	}
	return activities, nil
}

// GetActivity fetches one activity by id.
func (c *Client) GetActivity(ctx context.Context, accessToken string, activityID int64) (*domain.Activity, error) {
	if strings.TrimSpace(accessToken) == "" || activityID <= 0 {
		return nil, domain.ErrInvalidInput
	}

	endpoint := fmt.Sprintf("%s/activities/%d", c.cfg.APIBaseURL, activityID)
	raw, err := c.get(ctx, endpoint, accessToken)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, domain.ErrActivityNotFound
	}

	var activity domain.Activity
	if err := json.Unmarshal(raw, &activity); err != nil {
		return nil, fmt.Errorf("decode activity response: %w", err)
	}
	return &activity, nil
}

func (c *Client) get(ctx context.Context, endpoint, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrActivityNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("strava api rejected request",
			zap.Int("status", resp.StatusCode),
		)
		return nil, &domain.UpstreamError{Status: resp.StatusCode}
	}
	return raw, nil
}
