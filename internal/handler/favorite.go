package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uniliving/backend/internal/repository"
)

// FavoriteHandler lets tenants save and unsave listings.
type FavoriteHandler struct {
	Favs  *repository.FavoriteRepo
	Props *repository.PropertyRepo
}

func NewFavoriteHandler(favs *repository.FavoriteRepo, props *repository.PropertyRepo) *FavoriteHandler {
	return &FavoriteHandler{Favs: favs, Props: props}
}

// Add handles POST /api/favorites/:propertyId.  Saving the same property
// twice is not an error.
func (h *FavoriteHandler) Add(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	propertyID, err := pathID(c, "propertyId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid property id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Props.ByID(ctx, propertyID); err != nil {
		return writeRepoError(c, err)
	}
	if err := h.Favs.Add(ctx, userID, propertyID); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return writeRepoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Remove handles DELETE /api/favorites/:propertyId.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	propertyID, err := pathID(c, "propertyId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid property id"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Favs.Remove(ctx, userID, propertyID); err != nil {
		return writeRepoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /api/favorites: the caller's saved properties.
func (h *FavoriteHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	props, err := h.Favs.ListByUser(ctx, userID)
	if err != nil {
		return writeRepoError(c, err)
	}
	return c.JSON(http.StatusOK, props)
}
