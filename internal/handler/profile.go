package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/uniliving/backend/internal/model"
)

// ProfileStore is the slice of the user repository the profile endpoints
// need.  Implemented by *repository.UserRepo.
type ProfileStore interface {
	ByID(ctx context.Context, id uint64) (model.User, error)
	UpdateProfile(ctx context.Context, id uint64, firstName, lastName string) (model.User, error)
	SoftDelete(ctx context.Context, id uint64) error
}

// SessionRevoker ends every session of a user.  Implemented by
// *repository.TokenRepo.
type SessionRevoker interface {
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// ProfileHandler serves the authenticated user's own account.
type ProfileHandler struct {
	Users  ProfileStore
	Tokens SessionRevoker
}

func NewProfileHandler(users ProfileStore, tokens SessionRevoker) *ProfileHandler {
	return &ProfileHandler{Users: users, Tokens: tokens}
}

type updateProfileReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// profileResp is the sanitized account view: no password hash, no internal
// flags beyond verification state.
type profileResp struct {
	ID              uint64    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toProfileResp(u model.User) profileResp {
	return profileResp{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Role:            u.RoleName,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.ByID(ctx, userID)
	if err != nil {
		return writeRepoError(c, err)
	}
	return c.JSON(http.StatusOK, toProfileResp(u))
}

// Update handles PUT /api/profile.  Only the name fields are mutable; email
// and role changes are out of scope for self-service.
func (h *ProfileHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if first == "" || last == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "first and last name are required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, userID, first, last)
	if err != nil {
		return writeRepoError(c, err)
	}
	return c.JSON(http.StatusOK, toProfileResp(u))
}

// Delete handles DELETE /api/profile: soft-deletes the account and revokes
// every refresh token, so existing sessions cannot be refreshed.
func (h *ProfileHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Users.SoftDelete(ctx, userID); err != nil {
		return writeRepoError(c, err)
	}
	if err := h.Tokens.RevokeAllForUser(ctx, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}
