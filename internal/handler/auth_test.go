package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/uniliving/backend/internal/model"
	"github.com/uniliving/backend/internal/repository"
	"github.com/uniliving/backend/internal/service"
)

// In-memory stores backing a real AuthService for endpoint tests.

type memUsers struct {
	mu     sync.Mutex
	byID   map[uint64]model.User
	nextID uint64
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = m.nextID
	m.nextID++
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) ByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) ByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

type memTokens struct {
	mu   sync.Mutex
	rows map[string]memTokenRow
}

type memTokenRow struct {
	userID    uint64
	expiresAt time.Time
	revoked   bool
}

func (m *memTokens) Insert(_ context.Context, userID uint64, hash string, exp time.Time, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[hash] = memTokenRow{userID: userID, expiresAt: exp}
	return nil
}

func (m *memTokens) FindUser(_ context.Context, hash string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[hash]
	if !ok || row.revoked || !row.expiresAt.After(time.Now().UTC()) {
		return 0, repository.ErrNotFound
	}
	return row.userID, nil
}

func (m *memTokens) Consume(_ context.Context, hash string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[hash]
	if !ok || row.revoked || !row.expiresAt.After(time.Now().UTC()) {
		return 0, repository.ErrNotFound
	}
	row.revoked = true
	m.rows[hash] = row
	return row.userID, nil
}

func (m *memTokens) Revoke(_ context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[hash]; ok {
		row.revoked = true
		m.rows[hash] = row
	}
	return nil
}

func newTestAuthHandler() *AuthHandler {
	users := &memUsers{byID: map[uint64]model.User{}, nextID: 1}
	tokens := service.NewTokenService(&memTokens{rows: map[string]memTokenRow{}})
	auth := service.NewAuthService(users, tokens, service.AuthConfig{
		JWTSecret:    "test-secret",
		JWTIssuer:    "uniliving",
		JWTAudience:  "uniliving-api",
		AccessTTLMin: 60,
		RefreshTTL:   time.Hour,
		BcryptCost:   bcrypt.MinCost,
	})
	return NewAuthHandler(auth)
}

func doJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	h := newTestAuthHandler()

	rec := doJSON(t, h.Register,
		`{"email":"ada@example.com","password":"s3cret-pass","firstName":"Ada","lastName":"Lovelace","roleId":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ada@example.com", resp["email"])
	require.NotEmpty(t, resp["accessToken"])
	require.NotEmpty(t, resp["refreshToken"])
	require.EqualValues(t, 3600, resp["expiresIn"])
	require.NotContains(t, rec.Body.String(), "s3cret-pass")
}

func TestRegisterEndpointRejectsAdminRole(t *testing.T) {
	h := newTestAuthHandler()

	rec := doJSON(t, h.Register,
		`{"email":"ada@example.com","password":"pw","roleId":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	h := newTestAuthHandler()
	doJSON(t, h.Register,
		`{"email":"ada@example.com","password":"s3cret-pass","roleId":3}`)

	rec := doJSON(t, h.Login, `{"email":"ada@example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h.Login, `{"email":"ada@example.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "invalid email or password", resp["message"])
}

func TestRefreshEndpointRotates(t *testing.T) {
	h := newTestAuthHandler()
	rec := doJSON(t, h.Register,
		`{"email":"ada@example.com","password":"s3cret-pass","roleId":3}`)

	var first map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	token := first["refreshToken"].(string)

	rec = doJSON(t, h.Refresh, `{"refreshToken":"`+token+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// The old token was consumed by the rotation.
	rec = doJSON(t, h.Refresh, `{"refreshToken":"`+token+`"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	h := newTestAuthHandler()
	rec := doJSON(t, h.Register,
		`{"email":"ada@example.com","password":"s3cret-pass","roleId":3}`)

	var first map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	token := first["refreshToken"].(string)

	rec = doJSON(t, h.Logout, `{"refreshToken":"`+token+`"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h.Refresh, `{"refreshToken":"`+token+`"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logout without a token is still a 204.
	rec = doJSON(t, h.Logout, `{}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
