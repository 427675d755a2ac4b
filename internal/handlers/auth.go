package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trimspace/backend/internal/models"
	"github.com/trimspace/backend/internal/repositories"
)

// AuthHandler links Firebase identities to account rows. Token issuance and
// the full registration flow live in the mobile client against Firebase; the
// backend only needs the link.
type AuthHandler struct {
	userRepository repositories.UserRepository
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository) *AuthHandler {
	return &AuthHandler{userRepository: userRepo}
}

// RegisterAuthRoutes registers auth-related routes (auth required)
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/auth/register", h.Register)
	g.GET("/users/me", h.Me)
}

// Register creates the account row for the authenticated Firebase identity
func (h *AuthHandler) Register(c echo.Context) error {
	uid := getFirebaseUID(c)

	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.userRepository.GetUserByFirebaseUID(uid); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Account already registered")
	}

	user := &models.User{
		Name:        req.Name,
		Email:       req.Email,
		FirebaseUID: uid,
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, user)
}

// Me returns the account row for the authenticated identity
func (h *AuthHandler) Me(c echo.Context) error {
	user := resolveViewer(c, h.userRepository)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Account not registered")
	}
	return c.JSON(http.StatusOK, user)
}
