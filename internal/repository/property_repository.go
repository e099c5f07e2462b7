package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uniliving/backend/internal/model"
)

// PropertyRepo encapsulates all database queries related to rental
// properties.  Soft-deleted rows are excluded from every lookup.
type PropertyRepo struct{ DB *sql.DB }

func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{DB: db} }

const propertyColumns = `id, owner_id, category_id, title, COALESCE(description, ''),
	address, city, COALESCE(postal_code, ''), country, price, currency,
	size, room_count, bathroom_count, has_balcony, has_parking, has_elevator,
	pets_allowed, smoking_allowed, available_from, available_to, is_active,
	created_at, updated_at`

func scanProperty(row interface{ Scan(...any) error }) (model.Property, error) {
	var p model.Property
	err := row.Scan(&p.ID, &p.OwnerID, &p.CategoryID, &p.Title, &p.Description,
		&p.Address, &p.City, &p.PostalCode, &p.Country, &p.Price, &p.Currency,
		&p.Size, &p.RoomCount, &p.BathroomCount, &p.HasBalcony, &p.HasParking,
		&p.HasElevator, &p.PetsAllowed, &p.SmokingAllowed, &p.AvailableFrom,
		&p.AvailableTo, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create inserts a property and populates its ID and timestamps.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO properties
		 (owner_id, category_id, title, description, address, city, postal_code, country,
		  price, currency, size, room_count, bathroom_count, has_balcony, has_parking,
		  has_elevator, pets_allowed, smoking_allowed, available_from, available_to, is_active)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.OwnerID, p.CategoryID, p.Title, p.Description, p.Address, p.City, p.PostalCode,
		p.Country, p.Price, p.Currency, p.Size, p.RoomCount, p.BathroomCount,
		p.HasBalcony, p.HasParking, p.HasElevator, p.PetsAllowed, p.SmokingAllowed,
		p.AvailableFrom, p.AvailableTo, p.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	got, err := r.ByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = got
	return nil
}

// ByID fetches a property by primary key.  Returns ErrNotFound when absent
// or soft-deleted.
func (r *PropertyRepo) ByID(ctx context.Context, id uint64) (model.Property, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = ? AND is_deleted = 0 LIMIT 1`, id)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Property{}, ErrNotFound
	}
	return p, err
}

// ListByOwner returns all of a landlord's properties ordered by id.
func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Property, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+propertyColumns+` FROM properties
		 WHERE owner_id = ? AND is_deleted = 0 ORDER BY id`, ownerID)
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

// Update rewrites the mutable columns of a property owned by the given
// user.  Returns ErrNotFound when the row is missing and ErrForbidden when
// it belongs to someone else.
func (r *PropertyRepo) Update(ctx context.Context, ownerID uint64, p *model.Property) error {
	var dbOwner uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT owner_id FROM properties WHERE id = ? AND is_deleted = 0`, p.ID).Scan(&dbOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if dbOwner != ownerID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE properties SET category_id=?, title=?, description=?, address=?, city=?,
		 postal_code=?, country=?, price=?, currency=?, size=?, room_count=?,
		 bathroom_count=?, has_balcony=?, has_parking=?, has_elevator=?, pets_allowed=?,
		 smoking_allowed=?, available_from=?, available_to=?, is_active=?,
		 updated_at=CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.CategoryID, p.Title, p.Description, p.Address, p.City, p.PostalCode, p.Country,
		p.Price, p.Currency, p.Size, p.RoomCount, p.BathroomCount, p.HasBalcony,
		p.HasParking, p.HasElevator, p.PetsAllowed, p.SmokingAllowed,
		p.AvailableFrom, p.AvailableTo, p.IsActive, p.ID)
	if err != nil {
		return err
	}
	got, err := r.ByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = got
	return nil
}

// Delete soft-deletes a property owned by the given user.  Image rows go
// with it via the foreign key at hard-delete time; files on disk are removed
// separately by the caller through the file store.
func (r *PropertyRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	var dbOwner uint64
	err := r.DB.QueryRowContext(ctx,
		`SELECT owner_id FROM properties WHERE id = ? AND is_deleted = 0`, id).Scan(&dbOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if dbOwner != ownerID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE properties SET is_deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}
