package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cacheadapter "github.com/javierferrersb/Roast-My-Run/internal/adapter/cache"
	"github.com/javierferrersb/Roast-My-Run/internal/adapter/gemini"
	stravaadapter "github.com/javierferrersb/Roast-My-Run/internal/adapter/strava"
	"github.com/javierferrersb/Roast-My-Run/internal/config"
	httptransport "github.com/javierferrersb/Roast-My-Run/internal/http"
	"github.com/javierferrersb/Roast-My-Run/internal/http/cookies"
	"github.com/javierferrersb/Roast-My-Run/internal/http/handler"
	apimiddleware "github.com/javierferrersb/Roast-My-Run/internal/middleware"
	"github.com/javierferrersb/Roast-My-Run/internal/repository"
	"github.com/javierferrersb/Roast-My-Run/internal/server"
	"github.com/javierferrersb/Roast-My-Run/internal/service/activity"
	"github.com/javierferrersb/Roast-My-Run/internal/service/roast"
	"github.com/javierferrersb/Roast-My-Run/internal/service/token"
	"github.com/javierferrersb/Roast-My-Run/internal/telemetry"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newStravaClient,
			newGeminiClient,
			newOAuthStateStore,
			newCookieStore,
			newTokenResolver,
			newActivityService,
			newRoastService,
			newActivityHandler,
			newRoastHandler,
			newAuthHandler,
			newRateLimiter,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	if cfg.StravaClientID == "" || cfg.StravaClientSecret == "" {
		logger.Warn("strava client credentials not configured; token exchange will fail until set")
	}
	if cfg.GeminiAPIKey == "" {
		logger.Warn("gemini api key not configured; roast generation will fail until set")
	}
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newStravaClient(cfg config.Config, logger *zap.Logger) *stravaadapter.Client {
	return stravaadapter.NewClient(stravaadapter.Config{
		ClientID:     cfg.StravaClientID,
		ClientSecret: cfg.StravaClientSecret,
		TokenURL:     cfg.StravaTokenURL,
		APIBaseURL:   cfg.StravaAPIBaseURL,
	}, nil, logger)
}

func newGeminiClient(cfg config.Config) gemini.Generator {
	return gemini.NewClient(gemini.Config{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	}, nil)
}

func newOAuthStateStore(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (repository.OAuthStateStore, error) {
	if cfg.RedisAddr == "" {
		logger.Info("no redis configured; using in-memory oauth state store")
		return repository.NewMemoryStateStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return cacheadapter.NewRedisStateStore(client), nil
}

func newCookieStore(cfg config.Config) *cookies.Store {
	return cookies.NewStore(cfg.IsProduction(), cfg.RefreshCookieTTL, cfg.OAuthStateTTL)
}

func newTokenResolver(client *stravaadapter.Client, cfg config.Config, logger *zap.Logger) *token.Resolver {
	return token.NewResolver(client, cfg.TokenExpiryBuffer, logger)
}

func newActivityService(client *stravaadapter.Client, logger *zap.Logger) *activity.Service {
	return activity.NewService(client, logger)
}

func newRoastService(client *stravaadapter.Client, generator gemini.Generator, logger *zap.Logger) *roast.Service {
	return roast.NewService(client, generator, logger)
}

func newActivityHandler(resolver *token.Resolver, activities *activity.Service, cookieStore *cookies.Store, cfg config.Config) *handler.ActivityHandler {
	return handler.NewActivityHandler(resolver, activities, cookieStore, cfg.ActivityPageSize)
}

func newRoastHandler(resolver *token.Resolver, roasts *roast.Service, cookieStore *cookies.Store, logger *zap.Logger) *handler.RoastHandler {
	return handler.NewRoastHandler(resolver, roasts, cookieStore, logger)
}

func newAuthHandler(client *stravaadapter.Client, states repository.OAuthStateStore, cookieStore *cookies.Store, cfg config.Config, logger *zap.Logger) *handler.AuthHandler {
	return handler.NewAuthHandler(client, states, cookieStore, cfg, logger)
}

func newRateLimiter(cfg config.Config) *apimiddleware.RateLimiter {
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPM)
}

func useTelemetry(*telemetry.Provider) {}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
