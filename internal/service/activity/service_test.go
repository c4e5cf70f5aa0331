package activity

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/javierferrersb/Roast-My-Run/internal/domain/strava"
)

type fakeLister struct {
	activities []domain.Activity
	err        error
	calls      int
}

func (f *fakeLister) ListActivities(ctx context.Context, accessToken string, limit int) ([]domain.Activity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.activities, nil
}

func TestRecent_PassesThrough(t *testing.T) {
	lister := &fakeLister{activities: []domain.Activity{
		{ID: 1, Type: "Run"},
		{ID: 2, Type: "Ride"},
	}}
	svc := NewService(lister, zap.NewNop())

	out := svc.Recent(context.Background(), "token", 10)
	require.Len(t, out, 2)
	require.Equal(t, 1, lister.calls)
}

func TestRecent_SwallowsFailures(t *testing.T) {
	lister := &fakeLister{err: fmt.Errorf("upstream down")}
	svc := NewService(lister, zap.NewNop())

	out := svc.Recent(context.Background(), "token", 10)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestRecent_NeverReturnsNil(t *testing.T) {
	lister := &fakeLister{activities: nil}
	svc := NewService(lister, zap.NewNop())

	out := svc.Recent(context.Background(), "token", 10)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestRunsOnly(t *testing.T) {
	activities := []domain.Activity{
		{ID: 1, Type: "Run", Name: "Run 1"},
		{ID: 2, Type: "Ride", Name: "Ride 1"},
		{ID: 3, Type: "Run", Name: "Run 2"},
		{ID: 4, Type: "Swim", Name: "Swim 1"},
	}

	runs := RunsOnly(activities)
	require.Len(t, runs, 2)
	require.Equal(t, "Run 1", runs[0].Name)
	require.Equal(t, "Run 2", runs[1].Name)
}

func TestRunsOnly_Empty(t *testing.T) {
	runs := RunsOnly(nil)
	require.NotNil(t, runs)
	require.Empty(t, runs)
}
