package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/uniliving/backend/internal/model"
	"github.com/uniliving/backend/internal/repository"
)

func (m *memUsers) UpdateProfile(_ context.Context, id uint64, firstName, lastName string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.UpdatedAt = time.Now().UTC()
	m.byID[id] = u
	return u, nil
}

func (m *memUsers) SoftDelete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memTokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, row := range m.rows {
		if row.userID == userID {
			row.revoked = true
			m.rows[hash] = row
		}
	}
	return nil
}

func newTestProfileFixture() (*ProfileHandler, *memUsers, *memTokens) {
	users := &memUsers{byID: map[uint64]model.User{
		1: {
			ID:        1,
			Email:     "ada@example.com",
			FirstName: "Ada",
			LastName:  "Lovelace",
			RoleID:    model.RoleTenant,
			RoleName:  "TENANT",
			IsActive:  true,
		},
	}, nextID: 2}
	tokens := &memTokens{rows: map[string]memTokenRow{
		"hash-1": {userID: 1, expiresAt: time.Now().UTC().Add(time.Hour)},
		"hash-2": {userID: 1, expiresAt: time.Now().UTC().Add(time.Hour)},
		"other":  {userID: 9, expiresAt: time.Now().UTC().Add(time.Hour)},
	}}
	return NewProfileHandler(users, tokens), users, tokens
}

func doProfile(t *testing.T, h echo.HandlerFunc, method, body string, userID uint64) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID > 0 {
		c.Set("user_id", userID)
	}
	require.NoError(t, h(c))
	return rec
}

func TestProfileGet(t *testing.T) {
	h, _, _ := newTestProfileFixture()

	rec := doProfile(t, h.Get, http.MethodGet, "", 1)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ada@example.com", resp["email"])
	require.Equal(t, "TENANT", resp["role"])
	require.NotContains(t, resp, "passwordHash")

	rec = doProfile(t, h.Get, http.MethodGet, "", 0)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileUpdate(t *testing.T) {
	h, users, _ := newTestProfileFixture()

	rec := doProfile(t, h.Update, http.MethodPut, `{"firstName":"  Augusta ","lastName":"King"}`, 1)
	require.Equal(t, http.StatusOK, rec.Code)

	u, err := users.ByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Augusta", u.FirstName)
	require.Equal(t, "King", u.LastName)

	rec = doProfile(t, h.Update, http.MethodPut, `{"firstName":"","lastName":"King"}`, 1)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileDeleteRevokesSessions(t *testing.T) {
	h, users, tokens := newTestProfileFixture()

	rec := doProfile(t, h.Delete, http.MethodDelete, "", 1)
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err := users.ByID(context.Background(), 1)
	require.ErrorIs(t, err, repository.ErrNotFound)

	// Every one of the user's tokens is revoked; other users' are not.
	require.True(t, tokens.rows["hash-1"].revoked)
	require.True(t, tokens.rows["hash-2"].revoked)
	require.False(t, tokens.rows["other"].revoked)

	// Deleting again finds nothing.
	rec = doProfile(t, h.Delete, http.MethodDelete, "", 1)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
