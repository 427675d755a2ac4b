package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trimspace/backend/internal/apperrors"
	"github.com/trimspace/backend/internal/models"
	"github.com/trimspace/backend/internal/repositories"
)

// getFirebaseUID returns the authenticated Firebase UID, empty for anonymous
// requests (optional-auth routes).
func getFirebaseUID(c echo.Context) string {
	if uid, ok := c.Get("firebaseUID").(string); ok {
		return uid
	}
	return ""
}

// resolveViewer maps the request's Firebase identity to its account row.
// Returns nil for anonymous requests or identities with no linked account.
func resolveViewer(c echo.Context, userRepo repositories.UserRepository) *models.User {
	uid := getFirebaseUID(c)
	if uid == "" {
		return nil
	}
	user, err := userRepo.GetUserByFirebaseUID(uid)
	if err != nil {
		return nil
	}
	return user
}

// httpError maps a classified error onto the HTTP surface.
func httpError(err error) *echo.HTTPError {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case apperrors.KindPermission:
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case apperrors.KindConnectivity:
		return echo.NewHTTPError(http.StatusServiceUnavailable, "backend temporarily unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
