package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/uniliving/backend/internal/model"
)

// FavoriteRepo persists tenant bookmarks in the `favorites` table.
type FavoriteRepo struct{ DB *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{DB: db} }

// Add saves a property for a user.  A repeated save maps the unique-key
// violation to ErrDuplicate.
func (r *FavoriteRepo) Add(ctx context.Context, userID, propertyID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO favorites (user_id, property_id) VALUES (?,?)`,
		userID, propertyID)
	if err != nil && strings.Contains(err.Error(), "1062") {
		return ErrDuplicate
	}
	return err
}

// Remove deletes a saved property.  Returns ErrNotFound when the pair was
// not saved.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, propertyID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND property_id = ?`,
		userID, propertyID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns the user's saved properties, newest bookmark first.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Property, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT p.id, p.owner_id, p.category_id, p.title, COALESCE(p.description, ''),
		        p.address, p.city, COALESCE(p.postal_code, ''), p.country, p.price, p.currency,
		        p.size, p.room_count, p.bathroom_count, p.has_balcony, p.has_parking,
		        p.has_elevator, p.pets_allowed, p.smoking_allowed, p.available_from,
		        p.available_to, p.is_active, p.created_at, p.updated_at
		 FROM favorites f JOIN properties p ON p.id = f.property_id
		 WHERE f.user_id = ? AND p.is_deleted = 0
		 ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
