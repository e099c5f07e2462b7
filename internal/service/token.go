package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/uniliving/backend/internal/repository"
)

// TokenStore is the persistence surface the token service needs.  It is
// implemented by *repository.TokenRepo; tests substitute an in-memory fake.
type TokenStore interface {
	Insert(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time, clientIP, userAgent string) error
	FindUser(ctx context.Context, tokenHash string) (uint64, error)
	Consume(ctx context.Context, tokenHash string) (uint64, error)
	Revoke(ctx context.Context, tokenHash string) error
}

// ClientMeta carries optional request metadata recorded with each issued
// refresh token.
type ClientMeta struct {
	IP        string
	UserAgent string
}

// TokenService manages opaque, single-use, revocable refresh tokens.  The
// plaintext token leaves this service exactly once, from Generate; the store
// only ever sees its SHA-256 hash.
type TokenService struct {
	store TokenStore
}

func NewTokenService(store TokenStore) *TokenService {
	return &TokenService{store: store}
}

// Generate draws 64 bytes from the system CSPRNG, encodes them as a
// base64url string and persists only the hash plus expiry.  The returned
// plaintext must not be logged or stored by callers.
func (s *TokenService) Generate(ctx context.Context, userID uint64, validFor time.Duration, meta ClientMeta) (string, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	plain := base64.RawURLEncoding.EncodeToString(buf)
	exp := time.Now().UTC().Add(validFor)
	if err := s.store.Insert(ctx, userID, hashToken(plain), exp, meta.IP, meta.UserAgent); err != nil {
		return "", err
	}
	return plain, nil
}

// Validate returns the owning user ID without mutating the token.  Any
// unusable token — unknown, expired, revoked or blank — yields
// ErrTokenInvalid.
func (s *TokenService) Validate(ctx context.Context, token string) (uint64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrTokenInvalid
	}
	userID, err := s.store.FindUser(ctx, hashToken(token))
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrTokenInvalid
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Consume is Validate plus single-use enforcement: on success the token is
// atomically marked revoked before the user ID is returned, so a second
// Consume of the same token always fails.  No partial state change occurs on
// failure.
func (s *TokenService) Consume(ctx context.Context, token string) (uint64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrTokenInvalid
	}
	userID, err := s.store.Consume(ctx, hashToken(token))
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrTokenInvalid
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Revoke marks the token revoked if it exists.  Idempotent; blank and
// unknown tokens are silent no-ops.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.store.Revoke(ctx, hashToken(token))
}

// hashToken returns the SHA-256 hex digest of a plaintext refresh token.
// Storing only the digest keeps a leaked database from yielding usable
// session credentials.
func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
