package roast

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/javierferrersb/Roast-My-Run/internal/domain/strava"
)

type fakeFetcher struct {
	activity *domain.Activity
	err      error
}

func (f *fakeFetcher) GetActivity(ctx context.Context, accessToken string, activityID int64) (*domain.Activity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.activity, nil
}

type fakeGenerator struct {
	prompt string
	text   string
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func heartrate(v float64) *float64 { return &v }

func TestRoastActivity(t *testing.T) {
	// 10 km in 50 minutes is a 5:00 min/km pace.
	fetcher := &fakeFetcher{activity: &domain.Activity{
		ID:                 12345,
		Name:               "Morning Run",
		Distance:           10000,
		MovingTime:         3000,
		TotalElevationGain: 42,
		AverageHeartrate:   heartrate(150),
		Type:               "Run",
	}}
	generator := &fakeGenerator{text: "That was a warm-up, right?"}
	svc := NewService(fetcher, generator, zap.NewNop())

	result, err := svc.RoastActivity(context.Background(), "token", 12345)
	require.NoError(t, err)
	require.Equal(t, "That was a warm-up, right?", result.Roast)
	require.Equal(t, "Morning Run", result.Activity.Name)
	require.Equal(t, "10.00", result.Activity.Distance)
	require.Equal(t, "5:00", result.Activity.Pace)
	require.Equal(t, "150", result.Activity.HeartRate)
}

func TestRoastActivity_PromptContents(t *testing.T) {
	fetcher := &fakeFetcher{activity: &domain.Activity{
		Name:             "Tempo Tuesday",
		Distance:         5000,
		MovingTime:       1500,
		AverageHeartrate: heartrate(172),
	}}
	generator := &fakeGenerator{text: "ok"}
	svc := NewService(fetcher, generator, zap.NewNop())

	_, err := svc.RoastActivity(context.Background(), "token", 1)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(generator.prompt, "You are a cynical, hard-to-impress elite running coach."))
	require.Contains(t, generator.prompt, "Run data:")
	require.Contains(t, generator.prompt, "Activity: Tempo Tuesday")
	require.Contains(t, generator.prompt, "Distance: 5.00 km")
	require.Contains(t, generator.prompt, "Duration: 25 minutes")
	require.Contains(t, generator.prompt, "Pace: 5:00 min/km")
	require.Contains(t, generator.prompt, "Heart Rate: 172 bpm")
}

func TestRoastActivity_MissingHeartRate(t *testing.T) {
	fetcher := &fakeFetcher{activity: &domain.Activity{
		Name:       "No Strap",
		Distance:   8000,
		MovingTime: 2400,
	}}
	generator := &fakeGenerator{text: "ok"}
	svc := NewService(fetcher, generator, zap.NewNop())

	result, err := svc.RoastActivity(context.Background(), "token", 1)
	require.NoError(t, err)
	require.Equal(t, "N/A", result.Activity.HeartRate)
	require.Contains(t, generator.prompt, "Heart Rate: N/A")
}

func TestRoastActivity_ZeroDistance(t *testing.T) {
	fetcher := &fakeFetcher{activity: &domain.Activity{
		Name:       "Treadmill Mishap",
		Distance:   0,
		MovingTime: 600,
	}}
	generator := &fakeGenerator{text: "ok"}
	svc := NewService(fetcher, generator, zap.NewNop())

	result, err := svc.RoastActivity(context.Background(), "token", 1)
	require.NoError(t, err)
	require.Equal(t, "N/A", result.Activity.Pace)
	require.Equal(t, "0.00", result.Activity.Distance)
}

func TestRoastActivity_FetchErrorPropagates(t *testing.T) {
	fetcher := &fakeFetcher{err: domain.ErrActivityNotFound}
	svc := NewService(fetcher, &fakeGenerator{}, zap.NewNop())

	_, err := svc.RoastActivity(context.Background(), "token", 404)
	require.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestDeriveMetrics_RoundsSecondsUp(t *testing.T) {
	// 9.7 km in 48 minutes: 4.948... min/km -> 4:57.
	m := deriveMetrics(&domain.Activity{Distance: 9700, MovingTime: 2880})
	require.Equal(t, "4:57", m.pace)

	// Rounding to 60 carries into the minute.
	m = deriveMetrics(&domain.Activity{Distance: 10000, MovingTime: 2999})
	require.Equal(t, "5:00", m.pace)
}
