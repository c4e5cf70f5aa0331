package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/javierferrersb/Roast-My-Run/internal/config"
	"github.com/javierferrersb/Roast-My-Run/internal/http/handler"
	httpmiddleware "github.com/javierferrersb/Roast-My-Run/internal/http/middleware"
	"github.com/javierferrersb/Roast-My-Run/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(
	cfg config.Config,
	activityHandler *handler.ActivityHandler,
	roastHandler *handler.RoastHandler,
	authHandler *handler.AuthHandler,
	rateLimiter *middleware.RateLimiter,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	api := r.Group("/api")
	{
		api.GET("/activities", activityHandler.List)
		api.GET("/roast", roastHandler.Usage)
		api.POST("/roast", roastHandler.Create)

		auth := api.Group("/auth")
		{
			auth.GET("/strava/login", authHandler.Login)
			auth.GET("/strava/callback", authHandler.Callback)
			auth.POST("/logout", authHandler.Logout)
		}
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
