package service

import (
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/uniliving/backend/internal/repository"
)

// fakeTokenStore mirrors the semantics of the SQL token repository in
// memory: lookups see only unexpired, unrevoked rows and Consume revokes
// atomically under the lock.
type fakeTokenStore struct {
	mu   sync.Mutex
	rows map[string]*tokenRow
}

type tokenRow struct {
	userID    uint64
	expiresAt time.Time
	revoked   bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{rows: map[string]*tokenRow{}}
}

func (f *fakeTokenStore) Insert(_ context.Context, userID uint64, tokenHash string, expiresAt time.Time, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[tokenHash] = &tokenRow{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeTokenStore) FindUser(_ context.Context, tokenHash string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[tokenHash]
	if !ok || row.revoked || !row.expiresAt.After(time.Now().UTC()) {
		return 0, repository.ErrNotFound
	}
	return row.userID, nil
}

func (f *fakeTokenStore) Consume(_ context.Context, tokenHash string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[tokenHash]
	if !ok || row.revoked || !row.expiresAt.After(time.Now().UTC()) {
		return 0, repository.ErrNotFound
	}
	row.revoked = true
	return row.userID, nil
}

func (f *fakeTokenStore) Revoke(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[tokenHash]; ok {
		row.revoked = true
	}
	return nil
}

func TestGenerateStoresOnlyHash(t *testing.T) {
	store := newFakeTokenStore()
	svc := NewTokenService(store)

	plain, err := svc.Generate(context.Background(), 42, time.Hour, ClientMeta{IP: "10.0.0.1"})
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(plain)
	require.NoError(t, err)
	require.Len(t, raw, 64)

	_, found := store.rows[plain]
	require.False(t, found, "plaintext must never be persisted")
	require.Contains(t, store.rows, hashToken(plain))
}

func TestValidateDoesNotConsume(t *testing.T) {
	svc := NewTokenService(newFakeTokenStore())
	plain, err := svc.Generate(context.Background(), 7, time.Hour, ClientMeta{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		userID, err := svc.Validate(context.Background(), plain)
		require.NoError(t, err)
		require.Equal(t, uint64(7), userID)
	}
}

func TestConsumeIsSingleUse(t *testing.T) {
	svc := NewTokenService(newFakeTokenStore())
	plain, err := svc.Generate(context.Background(), 7, time.Hour, ClientMeta{})
	require.NoError(t, err)

	userID, err := svc.Consume(context.Background(), plain)
	require.NoError(t, err)
	require.Equal(t, uint64(7), userID)

	_, err = svc.Consume(context.Background(), plain)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.Validate(context.Background(), plain)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestConsumeExpiredToken(t *testing.T) {
	svc := NewTokenService(newFakeTokenStore())
	plain, err := svc.Generate(context.Background(), 7, -time.Minute, ClientMeta{})
	require.NoError(t, err)

	_, err = svc.Consume(context.Background(), plain)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestConsumeBlankAndUnknown(t *testing.T) {
	svc := NewTokenService(newFakeTokenStore())

	_, err := svc.Consume(context.Background(), "")
	require.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.Consume(context.Background(), "   ")
	require.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.Consume(context.Background(), "no-such-token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

// Concurrent refresh attempts with the same token must produce exactly one
// winner.
func TestConcurrentConsumeSingleWinner(t *testing.T) {
	svc := NewTokenService(newFakeTokenStore())
	plain, err := svc.Generate(context.Background(), 7, time.Hour, ClientMeta{})
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Consume(context.Background(), plain); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	require.Equal(t, 1, count)
}

func TestRevokeIsIdempotent(t *testing.T) {
	svc := NewTokenService(newFakeTokenStore())
	plain, err := svc.Generate(context.Background(), 7, time.Hour, ClientMeta{})
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), plain))
	require.NoError(t, svc.Revoke(context.Background(), plain))
	require.NoError(t, svc.Revoke(context.Background(), ""))
	require.NoError(t, svc.Revoke(context.Background(), "never-issued"))

	_, err = svc.Validate(context.Background(), plain)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
