package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/uniliving/backend/internal/model"
	"github.com/uniliving/backend/internal/repository"
	"github.com/uniliving/backend/internal/utils"
)

// UserStore is the persistence surface the auth service needs.  It is
// implemented by *repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (model.User, error)
	ByID(ctx context.Context, id uint64) (model.User, error)
}

// AuthConfig carries the signing and hashing parameters the auth service
// needs.  It is constructed explicitly at startup and injected, never read
// from ambient state, so tests can supply isolated instances.
type AuthConfig struct {
	JWTSecret    string
	JWTIssuer    string
	JWTAudience  string
	AccessTTLMin int
	RefreshTTL   time.Duration
	BcryptCost   int
}

// Session is what a successful register/login/refresh returns: the profile
// together with a fresh access/refresh token pair.
type Session struct {
	User         model.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // access token lifetime in seconds
}

// RegisterInput bundles the self-service registration fields.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	RoleID    uint8
}

// AuthService orchestrates the session lifecycle: registration, login,
// refresh-token rotation and logout.  There is no session object; session
// state is implicit in refresh-token validity.
type AuthService struct {
	users  UserStore
	tokens *TokenService
	cfg    AuthConfig
}

func NewAuthService(users UserStore, tokens *TokenService, cfg AuthConfig) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg}
}

// Register creates a user account and immediately opens a session.  Only
// the landlord and tenant roles can be self-assigned.  Email uniqueness is
// an exact, case-sensitive match; the address is trimmed but otherwise
// stored verbatim.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta ClientMeta) (Session, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, &ValidationError{Message: "email and password are required"}
	}
	if in.RoleID != model.RoleLandlord && in.RoleID != model.RoleTenant {
		return Session{}, &ValidationError{Message: "invalid role selection: must be landlord or tenant"}
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return Session{}, err
	}
	u := model.User{
		Email:           email,
		PasswordHash:    hash,
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		RoleID:          in.RoleID,
		RoleName:        model.RoleNameOf(in.RoleID),
		IsActive:        true,
		IsEmailVerified: false,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return Session{}, &ConflictError{Message: "user with this email already exists"}
		}
		return Session{}, err
	}
	return s.issue(ctx, u, meta)
}

// Login verifies credentials and opens a new session.  Earlier refresh
// tokens stay valid: one user may hold several concurrent sessions.  Every
// failure mode returns the same generic AuthenticationError.
func (s *AuthService) Login(ctx context.Context, email, password string, meta ClientMeta) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, &ValidationError{Message: "email and password are required"}
	}
	u, err := s.users.ByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, &AuthenticationError{Message: "invalid email or password"}
	}
	if err != nil {
		return Session{}, err
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, &AuthenticationError{Message: "invalid email or password"}
	}
	return s.issue(ctx, u, meta)
}

// Refresh rotates a session: the presented refresh token is consumed
// (single-use) and a brand-new pair is issued.  A consumed, expired,
// unknown or blank token, or a vanished/inactive user, all fail with the
// same generic AuthenticationError.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, meta ClientMeta) (Session, error) {
	userID, err := s.tokens.Consume(ctx, refreshToken)
	if errors.Is(err, ErrTokenInvalid) {
		return Session{}, &AuthenticationError{Message: "invalid or expired refresh token"}
	}
	if err != nil {
		return Session{}, err
	}
	u, err := s.users.ByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, &AuthenticationError{Message: "invalid or expired refresh token"}
	}
	if err != nil {
		return Session{}, err
	}
	if !u.IsActive {
		return Session{}, &AuthenticationError{Message: "invalid or expired refresh token"}
	}
	return s.issue(ctx, u, meta)
}

// Logout revokes the given refresh token.  Blank or already-invalid tokens
// are silent no-ops, never errors.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

// issue builds the access/refresh pair for an authenticated user.
func (s *AuthService) issue(ctx context.Context, u model.User, meta ClientMeta) (Session, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.JWTAudience,
		utils.AccessClaims{
			UserID:    u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      u.RoleName,
		}, s.cfg.AccessTTLMin)
	if err != nil {
		return Session{}, err
	}
	refresh, err := s.tokens.Generate(ctx, u.ID, s.cfg.RefreshTTL, meta)
	if err != nil {
		return Session{}, err
	}
	return Session{
		User:         u,
		AccessToken:  access.Token,
		RefreshToken: refresh,
		ExpiresIn:    s.cfg.AccessTTLMin * 60,
	}, nil
}
