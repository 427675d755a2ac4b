package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/trimspace/backend/internal/models"
	"github.com/trimspace/backend/internal/repositories"
)

// OwnerHandler handles HTTP requests for salon profiles and portfolio media
type OwnerHandler struct {
	ownerRepository repositories.OwnerRepository
}

// NewOwnerHandler creates a new OwnerHandler
func NewOwnerHandler(ownerRepo repositories.OwnerRepository) *OwnerHandler {
	return &OwnerHandler{ownerRepository: ownerRepo}
}

// RegisterOwnerRoutes registers read routes (optional auth)
func (h *OwnerHandler) RegisterOwnerRoutes(g *echo.Group) {
	g.GET("/owners", h.ListOwners)
	g.GET("/owners/:id", h.GetOwner)
}

// RegisterOwnerMutationRoutes registers mutating routes (auth required)
func (h *OwnerHandler) RegisterOwnerMutationRoutes(g *echo.Group) {
	g.POST("/owners", h.CreateOwner)
	g.POST("/owners/:id/media", h.AddMedia)
	g.DELETE("/owners/:id/media/:media_id", h.RemoveMedia)
}

// CreateOwner registers a salon profile for the authenticated account
func (h *OwnerHandler) CreateOwner(c echo.Context) error {
	uid := getFirebaseUID(c)

	var req models.CreateOwnerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.ownerRepository.GetOwnerByAccountUID(c.Request().Context(), uid); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "Account already has a salon profile")
	}

	owner := &models.Owner{
		AccountUID:  uid,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Address:     req.Address,
	}
	if err := h.ownerRepository.CreateOwner(c.Request().Context(), owner); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, owner)
}

// ListOwners returns all salon profiles
func (h *OwnerHandler) ListOwners(c echo.Context) error {
	owners, err := h.ownerRepository.ListOwners(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"owners": owners},
	})
}

// GetOwner returns one salon profile by id
func (h *OwnerHandler) GetOwner(c echo.Context) error {
	owner, err := h.ownerRepository.GetOwnerByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Owner not found")
	}
	return c.JSON(http.StatusOK, owner)
}

// AddMedia appends a portfolio media record. Only the owning account may
// mutate its portfolio. The record gets its stable id here, at upload time.
func (h *OwnerHandler) AddMedia(c echo.Context) error {
	owner, err := h.authorizedOwner(c)
	if err != nil {
		return err
	}

	var req models.AddMediaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.ownerRepository.AppendMedia(c.Request().Context(), owner.ID, models.MediaKind(req.Kind), req.URI)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, rec)
}

// RemoveMedia removes one portfolio media record by its assigned id
func (h *OwnerHandler) RemoveMedia(c echo.Context) error {
	owner, err := h.authorizedOwner(c)
	if err != nil {
		return err
	}

	kind := models.MediaKind(c.QueryParam("kind"))
	if kind != models.MediaKindImage && kind != models.MediaKindVideo {
		return echo.NewHTTPError(http.StatusBadRequest, "kind query parameter must be image or video")
	}

	if err := h.ownerRepository.RemoveMedia(c.Request().Context(), owner.ID, kind, c.Param("media_id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OwnerHandler) authorizedOwner(c echo.Context) (*models.Owner, error) {
	owner, err := h.ownerRepository.GetOwnerByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Owner not found")
	}
	if owner.AccountUID != getFirebaseUID(c) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Only the owning account may modify this portfolio")
	}
	return owner, nil
}
