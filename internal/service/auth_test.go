package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/uniliving/backend/internal/model"
	"github.com/uniliving/backend/internal/repository"
)

// fakeUserStore keeps users in memory with exact, case-sensitive email
// uniqueness, matching the unique key on the users table.
type fakeUserStore struct {
	mu     sync.Mutex
	byID   map[uint64]model.User
	nextID uint64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[uint64]model.User{}, nextID: 1}
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = f.nextID
	f.nextID++
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserStore) ByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) ByID(_ context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) setActive(id uint64, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[id]
	u.IsActive = active
	f.byID[id] = u
}

func newTestAuthService() (*AuthService, *fakeUserStore) {
	users := newFakeUserStore()
	tokens := NewTokenService(newFakeTokenStore())
	svc := NewAuthService(users, tokens, AuthConfig{
		JWTSecret:    "test-secret",
		JWTIssuer:    "uniliving",
		JWTAudience:  "uniliving-api",
		AccessTTLMin: 60,
		RefreshTTL:   time.Hour,
		BcryptCost:   bcrypt.MinCost,
	})
	return svc, users
}

func register(t *testing.T, svc *AuthService, email string, role uint8) Session {
	t.Helper()
	s, err := svc.Register(context.Background(), RegisterInput{
		Email:     email,
		Password:  "s3cret-pass",
		FirstName: "Ada",
		LastName:  "Lovelace",
		RoleID:    role,
	}, ClientMeta{IP: "127.0.0.1", UserAgent: "test"})
	require.NoError(t, err)
	return s
}

func TestRegisterOpensSession(t *testing.T) {
	svc, _ := newTestAuthService()
	s := register(t, svc, "ada@example.com", model.RoleLandlord)

	require.NotZero(t, s.User.ID)
	require.Equal(t, "LANDLORD", s.User.RoleName)
	require.NotEmpty(t, s.AccessToken)
	require.NotEmpty(t, s.RefreshToken)
	require.Equal(t, 3600, s.ExpiresIn)
	require.NotEqual(t, "s3cret-pass", s.User.PasswordHash)

	// The access token must verify against the configured secret and carry
	// the identity claims.
	tok, err := jwt.Parse(s.AccessToken, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	require.Equal(t, "ada@example.com", claims["email"])
	require.Equal(t, "LANDLORD", claims["role"])
}

func TestRegisterRejectsPrivilegedAndUnknownRoles(t *testing.T) {
	svc, _ := newTestAuthService()
	for _, role := range []uint8{model.RoleAdmin, 0, 99} {
		_, err := svc.Register(context.Background(), RegisterInput{
			Email:    "x@example.com",
			Password: "pw",
			RoleID:   role,
		}, ClientMeta{})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "role %d", role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	register(t, svc, "dup@example.com", model.RoleTenant)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "dup@example.com",
		Password: "other",
		RoleID:   model.RoleTenant,
	}, ClientMeta{})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)

	// A differently-cased address is a different account.
	register(t, svc, "DUP@example.com", model.RoleTenant)
}

func TestLoginRoundtrip(t *testing.T) {
	svc, _ := newTestAuthService()
	register(t, svc, "ada@example.com", model.RoleTenant)

	s, err := svc.Login(context.Background(), " ada@example.com ", "s3cret-pass", ClientMeta{})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", s.User.Email)
	require.NotEmpty(t, s.RefreshToken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, users := newFakeAuthFixture(t)

	cases := []struct {
		name       string
		email      string
		password   string
		deactivate bool
	}{
		{name: "unknown user", email: "nobody@example.com", password: "s3cret-pass"},
		{name: "wrong password", email: "ada@example.com", password: "wrong"},
		{name: "inactive user", email: "ada@example.com", password: "s3cret-pass", deactivate: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.deactivate {
				users.setActive(1, false)
				defer users.setActive(1, true)
			}
			_, err := svc.Login(context.Background(), tc.email, tc.password, ClientMeta{})
			var ae *AuthenticationError
			require.ErrorAs(t, err, &ae)
			require.Equal(t, "invalid email or password", ae.Message)
		})
	}
}

func newFakeAuthFixture(t *testing.T) (*AuthService, *fakeUserStore) {
	t.Helper()
	svc, users := newTestAuthService()
	register(t, svc, "ada@example.com", model.RoleTenant)
	return svc, users
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newTestAuthService()
	first := register(t, svc, "ada@example.com", model.RoleTenant)

	second, err := svc.Refresh(context.Background(), first.RefreshToken, ClientMeta{})
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The consumed token is gone for good.
	_, err = svc.Refresh(context.Background(), first.RefreshToken, ClientMeta{})
	var ae *AuthenticationError
	require.ErrorAs(t, err, &ae)

	// The rotated token still works.
	_, err = svc.Refresh(context.Background(), second.RefreshToken, ClientMeta{})
	require.NoError(t, err)
}

func TestRefreshRejectsInactiveUser(t *testing.T) {
	svc, users := newTestAuthService()
	s := register(t, svc, "ada@example.com", model.RoleTenant)

	users.setActive(s.User.ID, false)
	_, err := svc.Refresh(context.Background(), s.RefreshToken, ClientMeta{})
	var ae *AuthenticationError
	require.ErrorAs(t, err, &ae)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	svc, _ := newTestAuthService()
	s := register(t, svc, "ada@example.com", model.RoleTenant)

	require.NoError(t, svc.Logout(context.Background(), s.RefreshToken))
	_, err := svc.Refresh(context.Background(), s.RefreshToken, ClientMeta{})
	var ae *AuthenticationError
	require.ErrorAs(t, err, &ae)

	// Logging out twice, or with garbage, is still fine.
	require.NoError(t, svc.Logout(context.Background(), s.RefreshToken))
	require.NoError(t, svc.Logout(context.Background(), ""))
}
