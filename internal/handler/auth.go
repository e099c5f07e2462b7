package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uniliving/backend/internal/service"
)

// AuthHandler exposes the session lifecycle endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	RoleID    uint8  `json:"roleId"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// authResp mirrors the session payload: profile fields plus the fresh token
// pair.  ExpiresIn is the access-token lifetime in seconds.
type authResp struct {
	ID           uint64 `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

func sessionResp(s service.Session) authResp {
	return authResp{
		ID:           s.User.ID,
		Email:        s.User.Email,
		FirstName:    s.User.FirstName,
		LastName:     s.User.LastName,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
	}
}

func clientMeta(c echo.Context) service.ClientMeta {
	return service.ClientMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}

// Register handles POST /api/auth/register: create the account and return
// tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	s, err := h.Auth.Register(ctx, service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    req.RoleID,
	}, clientMeta(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, sessionResp(s))
}

// Login handles POST /api/auth/login: verify credentials and return a new
// token pair.  Existing sessions stay valid.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	s, err := h.Auth.Login(ctx, req.Email, req.Password, clientMeta(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResp(s))
}

// Refresh handles POST /api/auth/refresh: consume the presented refresh
// token and rotate the session.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	ctx, cancel := reqContext(c)
	defer cancel()

	s, err := h.Auth.Refresh(ctx, req.RefreshToken, clientMeta(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResp(s))
}

// Logout handles POST /api/auth/logout: revoke the presented refresh token.
// Blank or invalid tokens still yield 204.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, req.RefreshToken); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
