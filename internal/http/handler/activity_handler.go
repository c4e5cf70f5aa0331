package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javierferrersb/Roast-My-Run/internal/http/cookies"
	"github.com/javierferrersb/Roast-My-Run/internal/service/activity"
	"github.com/javierferrersb/Roast-My-Run/internal/service/token"
)

// ActivityHandler serves the recent-runs listing.
type ActivityHandler struct {
	resolver   *token.Resolver
	activities *activity.Service
	cookies    *cookies.Store
	pageSize   int
}

// NewActivityHandler creates the handler.
func NewActivityHandler(resolver *token.Resolver, activities *activity.Service, cookieStore *cookies.Store, pageSize int) *ActivityHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &ActivityHandler{
		resolver:   resolver,
		activities: activities,
		cookies:    cookieStore,
		pageSize:   pageSize,
	}
}

// List returns the authenticated user's recent Run activities. A refreshed
// token pair, when the resolver minted one, is written back as cookies before
// the body.
func (h *ActivityHandler) List(c *gin.Context) {
	creds := h.cookies.Load(c)
	res := h.resolver.Resolve(c.Request.Context(), creds)
	if res.AccessToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	limit := h.pageSize
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	recent := h.activities.Recent(c.Request.Context(), res.AccessToken, limit)
	runs := activity.RunsOnly(recent)

	if res.Refreshed != nil {
		h.cookies.Save(c, *res.Refreshed)
	}
	c.JSON(http.StatusOK, runs)
}
