package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TokenRepo persists refresh tokens.  Only the SHA-256 hash of a token ever
// reaches this layer; the plaintext stays with the caller.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Insert stores a refresh token hash row together with its expiry and
// optional client metadata.
func (r *TokenRepo) Insert(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time, clientIP, userAgent string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at, created_by_ip, user_agent)
		 VALUES (?,?,?,?,?)`,
		userID, tokenHash, expiresAt, clientIP, userAgent)
	return err
}

// FindUser returns the owning user ID if a non-revoked, non-expired token
// with this hash exists.  Missing, expired and revoked tokens are all
// reported as ErrNotFound so callers cannot tell them apart.
func (r *TokenRepo) FindUser(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id FROM refresh_tokens
		 WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()
		 LIMIT 1`,
		tokenHash).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Consume atomically revokes a valid token and returns its owner.  The
// conditional UPDATE is the single-use guarantee: of two concurrent calls
// with the same hash, at most one observes an affected row.  Invalid tokens
// (missing, expired, already revoked) map to ErrNotFound with no state
// change.
func (r *TokenRepo) Consume(ctx context.Context, tokenHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
		 WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()`,
		tokenHash)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrNotFound
	}
	var userID uint64
	err = r.DB.QueryRowContext(ctx,
		`SELECT user_id FROM refresh_tokens WHERE token_hash = ? LIMIT 1`,
		tokenHash).Scan(&userID)
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Revoke marks a token as revoked.  No-op for unknown or already revoked
// hashes.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
		 WHERE token_hash = ? AND revoked_at IS NULL`,
		tokenHash)
	return err
}

// RevokeAllForUser revokes every active token belonging to a user, ending
// all of their sessions.  Called when an account is deleted.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP()
		 WHERE user_id = ? AND revoked_at IS NULL`,
		userID)
	return err
}
