package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/trimspace/backend/internal/likes"
	"github.com/trimspace/backend/internal/repositories"
)

// LikeHandler handles HTTP requests related to like toggles
type LikeHandler struct {
	coordinator     *likes.Coordinator
	ledger          *likes.Ledger
	ownerRepository repositories.OwnerRepository
	userRepository  repositories.UserRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(coordinator *likes.Coordinator, ledger *likes.Ledger, ownerRepo repositories.OwnerRepository, userRepo repositories.UserRepository) *LikeHandler {
	return &LikeHandler{
		coordinator:     coordinator,
		ledger:          ledger,
		ownerRepository: ownerRepo,
		userRepository:  userRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes/toggle", h.TogglePostLike)
	g.GET("/posts/:post_id/likes/status", h.GetUserLikeStatusForPost)
}

// ToggleLikeRequest carries the like state the client currently displays, so
// the coordinator can roll back to exactly that state on terminal failure.
type ToggleLikeRequest struct {
	Liked bool `json:"liked"`
	Count int  `json:"count" validate:"min=0"`
}

// TogglePostLike flips the authenticated viewer's like on a post. A
// connectivity outage answers 200 with rolled_back=true and no error body;
// the client keeps its pre-toggle state and nothing alarms the user.
func (h *LikeHandler) TogglePostLike(c echo.Context) error {
	postID := c.Param("post_id")

	// Verify the post's owner exists; derived ids embed the owner id.
	ownerID := ownerIDFromPostID(postID)
	if ownerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed post id")
	}
	if _, err := h.ownerRepository.GetOwnerByID(c.Request().Context(), ownerID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	user := resolveViewer(c, h.userRepository)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Must be signed in to like posts")
	}

	var baseline likes.Baseline
	if c.Request().ContentLength > 0 {
		var req ToggleLikeRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		baseline = likes.Baseline{Liked: req.Liked, Count: req.Count}
	} else {
		// No displayed state supplied; fall back to the ledger's view.
		status, err := h.ledger.Status(c.Request().Context(), postID, user.ViewerID())
		if err != nil {
			return httpError(err)
		}
		baseline = likes.Baseline{Liked: status.Liked, Count: status.Count}
	}

	outcome, err := h.coordinator.Toggle(c.Request().Context(), postID, user.ViewerID(), baseline)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    outcome,
	})
}

// GetUserLikeStatusForPost reports the viewer's current liked state and the
// post's like count.
func (h *LikeHandler) GetUserLikeStatusForPost(c echo.Context) error {
	postID := c.Param("post_id")

	user := resolveViewer(c, h.userRepository)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Must be signed in")
	}

	status, err := h.ledger.Status(c.Request().Context(), postID, user.ViewerID())
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"post_id":   postID,
		"has_liked": status.Liked,
		"count":     status.Count,
	})
}

// ownerIDFromPostID extracts the owner id prefix from a derived post id.
func ownerIDFromPostID(postID string) string {
	idx := strings.Index(postID, "_")
	if idx <= 0 {
		return ""
	}
	return postID[:idx]
}
