package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	Environment          string
	HTTPPort             string
	ServiceName          string
	StravaClientID       string
	StravaClientSecret   string
	StravaRedirectURI    string
	StravaAuthURL        string
	StravaTokenURL       string
	StravaAPIBaseURL     string
	StravaScope          string
	GeminiAPIKey         string
	GeminiModel          string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	TokenExpiryBuffer    time.Duration
	RefreshCookieTTL     time.Duration
	OAuthStateTTL        time.Duration
	ActivityPageSize     int
	RateLimitRPM         int
	TelemetryEndpoint    string
	TelemetryInsecure    bool
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
}

// Load reads configuration from environment variables with sane defaults.
// Strava and Gemini credentials are deliberately not required at startup:
// their absence is a per-call 500 condition, never a crash.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:          getEnv("APP_ENV", "development"),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		ServiceName:          getEnv("SERVICE_NAME", "roastmyrun"),
		StravaClientID:       strings.TrimSpace(os.Getenv("STRAVA_CLIENT_ID")),
		StravaClientSecret:   strings.TrimSpace(os.Getenv("STRAVA_CLIENT_SECRET")),
		StravaRedirectURI:    getEnv("STRAVA_REDIRECT_URI", "http://localhost:8080/api/auth/strava/callback"),
		StravaAuthURL:        getEnv("STRAVA_AUTH_URL", "https://www.strava.com/oauth/authorize"),
		StravaTokenURL:       os.Getenv("STRAVA_TOKEN_URL"),
		StravaAPIBaseURL:     os.Getenv("STRAVA_API_BASE_URL"),
		StravaScope:          getEnv("STRAVA_SCOPE", "activity:read_all"),
		GeminiAPIKey:         strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getInt("REDIS_DB", 0),
		TokenExpiryBuffer:    getDuration("TOKEN_EXPIRY_BUFFER", time.Minute),
		RefreshCookieTTL:     getDuration("REFRESH_COOKIE_TTL", 30*24*time.Hour),
		OAuthStateTTL:        getDuration("OAUTH_STATE_TTL", 5*time.Minute),
		ActivityPageSize:     getInt("ACTIVITY_PAGE_SIZE", 10),
		RateLimitRPM:         getInt("RATE_LIMIT_RPM", 600),
		TelemetryEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure:    getBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowedMethods:   getList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		CORSAllowedHeaders:   getList("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type"}),
		CORSAllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
	}

	if cfg.ActivityPageSize <= 0 {
		cfg.ActivityPageSize = 10
	}

	return cfg, nil
}

// IsProduction reports whether secure cookie attributes should be enforced.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
