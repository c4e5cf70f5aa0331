package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/javierferrersb/Roast-My-Run/internal/adapter/gemini"
	domain "github.com/javierferrersb/Roast-My-Run/internal/domain/strava"
	"github.com/javierferrersb/Roast-My-Run/internal/http/cookies"
	"github.com/javierferrersb/Roast-My-Run/internal/service/roast"
	"github.com/javierferrersb/Roast-My-Run/internal/service/token"
)

// RoastHandler serves roast generation.
type RoastHandler struct {
	resolver *token.Resolver
	roasts   *roast.Service
	cookies  *cookies.Store
	logger   *zap.Logger
}

// NewRoastHandler creates the handler.
func NewRoastHandler(resolver *token.Resolver, roasts *roast.Service, cookieStore *cookies.Store, logger *zap.Logger) *RoastHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &RoastHandler{
		resolver: resolver,
		roasts:   roasts,
		cookies:  cookieStore,
		logger:   logger,
	}
}

type roastRequest struct {
	ActivityID *float64 `json:"activityId"`
}

// Create generates a roast for one activity. Authentication goes through the
// resolver with refresh, same policy as the listing endpoint.
func (h *RoastHandler) Create(c *gin.Context) {
	var req roastRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ActivityID == nil || *req.ActivityID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activityId must be a valid number"})
		return
	}

	creds := h.cookies.Load(c)
	res := h.resolver.Resolve(c.Request.Context(), creds)
	if res.AccessToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	result, err := h.roasts.RoastActivity(c.Request.Context(), res.AccessToken, int64(*req.ActivityID))
	if err != nil {
		h.respondRoastError(c, err)
		return
	}

	if res.Refreshed != nil {
		h.cookies.Save(c, *res.Refreshed)
	}
	c.JSON(http.StatusOK, result)
}

// Usage answers GET probes against the roast endpoint.
func (h *RoastHandler) Usage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Roast API endpoint. Use POST to generate a roast."})
}

func (h *RoastHandler) respondRoastError(c *gin.Context, err error) {
	var upstream *domain.UpstreamError
	var transport *domain.TransportError
	switch {
	case errors.Is(err, domain.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
	case errors.Is(err, gemini.ErrMissingAPIKey):
		h.logger.Error("gemini api key missing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gemini API key not configured"})
	case errors.As(err, &upstream), errors.As(err, &transport):
		h.logger.Error("activity fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity from Strava"})
	default:
		h.logger.Error("roast generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
