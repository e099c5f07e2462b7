package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uniliving/backend/internal/repository"
)

// CategoryHandler serves the category lookup endpoint.
type CategoryHandler struct {
	Cats *repository.CategoryRepo
}

func NewCategoryHandler(cats *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Cats: cats}
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	cats, err := h.Cats.List(ctx)
	if err != nil {
		return writeRepoError(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}
