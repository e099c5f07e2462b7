package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/uniliving/backend/internal/repository"
	"github.com/uniliving/backend/internal/service"
)

// dbTimeout bounds the duration of database work per request.
const dbTimeout = 5 * time.Second

// reqContext derives a bounded context from the incoming request.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the user_id that JWTAuth stored in the context.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok && id > 0 {
		return id, nil
	}
	return 0, errors.New("invalid user_id in context")
}

// writeServiceError maps the service error taxonomy onto HTTP responses.
// Validation and conflict failures are 400, authentication failures 401,
// missing entities 404 and storage failures 500.  Unknown errors become an
// opaque 500 so internals never leak to clients.
func writeServiceError(c echo.Context, err error) error {
	var (
		ve *service.ValidationError
		ce *service.ConflictError
		ae *service.AuthenticationError
		ne *service.NotFoundError
		se *service.StorageError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": ve.Message})
	case errors.As(err, &ce):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": ce.Message})
	case errors.As(err, &ae):
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": ae.Message})
	case errors.As(err, &ne):
		return c.JSON(http.StatusNotFound, echo.Map{"message": ne.Error()})
	case errors.As(err, &se):
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "file storage failure"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}

// writeRepoError maps repository sentinel errors onto HTTP responses for
// handlers that talk to repositories directly.
func writeRepoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "already exists"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
