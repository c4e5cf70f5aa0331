package token

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domain "github.com/javierferrersb/Roast-My-Run/internal/domain/strava"
)

// DefaultExpiryBuffer is the safety margin subtracted from the nominal expiry
// so a token is refreshed slightly before it would expire mid-flight of a
// subsequent upstream call.
const DefaultExpiryBuffer = 60 * time.Second

// Credentials is the caller-supplied triple driving the resolver. A zero
// ExpiresAt means the expiry is unknown; an access token without a matching
// expiry is never trusted.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Resolution is the resolver outcome. An empty AccessToken means "not
// authenticated". Refreshed is non-nil only when a new pair was minted and
// must be persisted by the caller.
type Resolution struct {
	AccessToken string
	Refreshed   *domain.TokenPair
}

// Refresher exchanges a refresh token for a new token pair.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
}

// Resolver decides whether a stored access token can be reused, must be
// refreshed, or the caller is not authenticated. It is a total function of
// the credentials and the clock; refresh failures are recovered into the
// null-token sentinel so only the outermost handler picks an HTTP status.
type Resolver struct {
	refresher Refresher
	buffer    time.Duration
	logger    *zap.Logger
	group     singleflight.Group
	now       func() time.Time
}

// NewResolver constructs a Resolver. A non-positive buffer falls back to
// DefaultExpiryBuffer.
func NewResolver(refresher Refresher, buffer time.Duration, logger *zap.Logger) *Resolver {
	if buffer <= 0 {
		buffer = DefaultExpiryBuffer
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Resolver{
		refresher: refresher,
		buffer:    buffer,
		logger:    logger,
		now:       time.Now,
	}
}

// Resolve applies the decision procedure:
//
//  1. access token present and expiry beyond now+buffer: reuse, no upstream call
//  2. otherwise, refresh token present: refresh once
//  3. otherwise, or on refresh failure: not authenticated
//
// Concurrent resolves sharing a refresh token are coalesced so a rotating
// refresh token is minted once per stale window.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials) Resolution {
	now := r.now()
	if creds.AccessToken != "" && !creds.ExpiresAt.IsZero() && creds.ExpiresAt.After(now.Add(r.buffer)) {
		return Resolution{AccessToken: creds.AccessToken}
	}

	refreshToken := strings.TrimSpace(creds.RefreshToken)
	if refreshToken == "" {
		return Resolution{}
	}

	v, err, _ := r.group.Do(refreshToken, func() (any, error) {
		return r.refresher.RefreshToken(ctx, refreshToken)
	})
	if err != nil {
		r.logger.Warn("token refresh failed", zap.Error(err))
		return Resolution{}
	}

	pair := v.(*domain.TokenPair)
	return Resolution{AccessToken: pair.AccessToken, Refreshed: pair}
}
