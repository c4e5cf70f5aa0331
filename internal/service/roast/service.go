package roast

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/javierferrersb/Roast-My-Run/internal/adapter/gemini"
	domain "github.com/javierferrersb/Roast-My-Run/internal/domain/strava"
)

const persona = `You are a cynical, hard-to-impress elite running coach.
Analyze the following run data.
If the run is slow, mock the pace.
If the heart rate is high, ask if they are okay or need an ambulance.
If the distance is short, call it a "warm-up."
However, if the stats are genuinely elite (e.g., sub-4:00/km pace for 10k+), give grudging respect.
Keep the response under 100 words. Be funny but harsh.`

// Fetcher is the slice of the Strava API this service consumes.
type Fetcher interface {
	GetActivity(ctx context.Context, accessToken string, activityID int64) (*domain.Activity, error)
}

// Summary is the activity digest echoed back alongside the roast.
type Summary struct {
	Name      string `json:"name"`
	Distance  string `json:"distance"`
	Pace      string `json:"pace"`
	HeartRate string `json:"heartRate"`
}

// Result is the roast endpoint payload.
type Result struct {
	Roast    string  `json:"roast"`
	Activity Summary `json:"activity"`
}

// Service turns one Strava activity into a sarcastic commentary.
type Service struct {
	api       Fetcher
	generator gemini.Generator
	logger    *zap.Logger
}

// NewService wires the roast service.
func NewService(api Fetcher, generator gemini.Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.L()
	}
	return &Service{api: api, generator: generator, logger: logger}
}

// RoastActivity fetches the activity, derives pace metrics, and asks the
// generator for commentary.
func (s *Service) RoastActivity(ctx context.Context, accessToken string, activityID int64) (*Result, error) {
	activity, err := s.api.GetActivity(ctx, accessToken, activityID)
	if err != nil {
		return nil, err
	}

	metrics := deriveMetrics(activity)
	prompt := persona + "\n\nRun data:\n" + metrics.format(activity.Name)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate roast: %w", err)
	}

	return &Result{
		Roast: text,
		Activity: Summary{
			Name:      activity.Name,
			Distance:  fmt.Sprintf("%.2f", metrics.distanceKm),
			Pace:      metrics.pace,
			HeartRate: metrics.heartRate,
		},
	}, nil
}

type derivedMetrics struct {
	distanceKm float64
	minutes    float64
	pace       string
	elevation  string
	heartRate  string
}

// deriveMetrics computes pace as elapsed minutes divided by kilometers,
// rendered m:ss. A zero-distance activity has no meaningful pace.
func deriveMetrics(a *domain.Activity) derivedMetrics {
	m := derivedMetrics{
		distanceKm: a.Distance / 1000,
		minutes:    float64(a.MovingTime) / 60,
		pace:       "N/A",
		elevation:  fmt.Sprintf("%.0f", a.TotalElevationGain),
		heartRate:  "N/A",
	}
	if m.distanceKm > 0 {
		paceMinPerKm := m.minutes / m.distanceKm
		wholeMinutes := int(math.Floor(paceMinPerKm))
		seconds := int(math.Round((paceMinPerKm - float64(wholeMinutes)) * 60))
		if seconds == 60 {
			wholeMinutes++
			seconds = 0
		}
		m.pace = fmt.Sprintf("%d:%02d", wholeMinutes, seconds)
	}
	if a.AverageHeartrate != nil {
		m.heartRate = fmt.Sprintf("%.0f", *a.AverageHeartrate)
	}
	return m
}

func (m derivedMetrics) format(name string) string {
	heartRate := m.heartRate
	if heartRate != "N/A" {
		heartRate += " bpm"
	}
	lines := []string{
		"Activity: " + name,
		fmt.Sprintf("Distance: %.2f km", m.distanceKm),
		fmt.Sprintf("Duration: %.0f minutes", m.minutes),
		fmt.Sprintf("Pace: %s min/km", m.pace),
		fmt.Sprintf("Elevation: %s meters", m.elevation),
		"Heart Rate: " + heartRate,
	}
	return strings.Join(lines, "\n")
}
