package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trimspace/backend/internal/connectivity"
	"github.com/trimspace/backend/internal/feed"
	"github.com/trimspace/backend/internal/repositories"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	aggregator     *feed.Aggregator
	userRepository repositories.UserRepository
	monitor        *connectivity.Monitor
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(aggregator *feed.Aggregator, userRepo repositories.UserRepository, monitor *connectivity.Monitor) *FeedHandler {
	return &FeedHandler{
		aggregator:     aggregator,
		userRepository: userRepo,
		monitor:        monitor,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the aggregated post feed for the current viewer. An empty
// feed with connectivity "degraded" means "feed unavailable, pull to retry",
// not "no posts exist yet" — clients must check the connectivity field.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	viewerID := ""
	if viewer := resolveViewer(c, h.userRepository); viewer != nil {
		viewerID = viewer.ViewerID()
	}

	posts, err := h.aggregator.BuildFeed(c.Request().Context(), viewerID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts":        posts,
			"connectivity": h.monitor.State(),
		},
		"meta": echo.Map{
			"totalItems": len(posts),
		},
	})
}
