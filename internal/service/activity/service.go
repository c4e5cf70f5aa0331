package activity

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/javierferrersb/Roast-My-Run/internal/domain/strava"
)

// Lister is the slice of the Strava API this service consumes.
type Lister interface {
	ListActivities(ctx context.Context, accessToken string, limit int) ([]domain.Activity, error)
}

// Service applies the listing failure policy: activity listing is a
// best-effort convenience feature, so every adapter failure degrades to an
// empty result. Authentication failures are surfaced by the token resolver,
// never by this layer.
type Service struct {
	api    Lister
	logger *zap.Logger
}

// NewService wires the activity service.
func NewService(api Lister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.L()
	}
	return &Service{api: api, logger: logger}
}

// Recent returns up to limit recent activities, most-recent-first. The
// returned slice is never nil. Swallowed errors are logged server-side.
func (s *Service) Recent(ctx context.Context, accessToken string, limit int) []domain.Activity {
	activities, err := s.api.ListActivities(ctx, accessToken, limit)
	if err != nil {
		s.logger.Warn("activity listing degraded to empty result", zap.Error(err))
		return []domain.Activity{}
	}
	if activities == nil {
		return []domain.Activity{}
	}
	return activities
}

// RunsOnly filters the list to running activities, preserving order.
func RunsOnly(activities []domain.Activity) []domain.Activity {
	runs := make([]domain.Activity, 0, len(activities))
	for _, a := range activities {
		if a.Type == "Run" {
			runs = append(runs, a)
		}
	}
	return runs
}
