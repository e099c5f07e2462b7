package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uniliving/backend/internal/model"
)

// ImageRepo persists `property_images` rows.  The main-image invariant (at
// most one per property) is maintained here with single atomic statements so
// concurrent writers cannot leave two flags set.
type ImageRepo struct{ DB *sql.DB }

func NewImageRepo(db *sql.DB) *ImageRepo { return &ImageRepo{DB: db} }

const imageColumns = `id, property_id, file_name, file_path, file_size,
	mime_type, is_main_image, display_order, created_at`

// Insert stores an image row and populates its ID.
func (r *ImageRepo) Insert(ctx context.Context, img *model.PropertyImage) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO property_images
		 (property_id, file_name, file_path, file_size, mime_type, is_main_image, display_order)
		 VALUES (?,?,?,?,?,?,?)`,
		img.PropertyID, img.FileName, img.FilePath, img.FileSize, img.MimeType,
		img.IsMainImage, img.DisplayOrder)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	img.ID = uint64(id)
	return nil
}

// ByID fetches an image row.  Returns ErrNotFound when absent.
func (r *ImageRepo) ByID(ctx context.Context, id uint64) (model.PropertyImage, error) {
	var img model.PropertyImage
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+imageColumns+` FROM property_images WHERE id = ? LIMIT 1`, id).
		Scan(&img.ID, &img.PropertyID, &img.FileName, &img.FilePath, &img.FileSize,
			&img.MimeType, &img.IsMainImage, &img.DisplayOrder, &img.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PropertyImage{}, ErrNotFound
	}
	return img, err
}

// ListByProperty returns a property's images, main image first, then by
// display order.
func (r *ImageRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.PropertyImage, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+imageColumns+` FROM property_images
		 WHERE property_id = ?
		 ORDER BY is_main_image DESC, display_order ASC, id ASC`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PropertyImage{}
	for rows.Next() {
		var img model.PropertyImage
		if err := rows.Scan(&img.ID, &img.PropertyID, &img.FileName, &img.FilePath,
			&img.FileSize, &img.MimeType, &img.IsMainImage, &img.DisplayOrder,
			&img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

// HasMain reports whether the property already has a main image.
func (r *ImageRepo) HasMain(ctx context.Context, propertyID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		`SELECT 1 FROM property_images WHERE property_id = ? AND is_main_image = 1 LIMIT 1`,
		propertyID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetMain makes one image the property's main image in a single statement:
// every row of the property has its flag recomputed as (id = imageID), so
// the invariant holds even under concurrent calls.  Returns ErrNotFound if
// the image does not belong to the property.
func (r *ImageRepo) SetMain(ctx context.Context, propertyID, imageID uint64) error {
	var one int
	err := r.DB.QueryRowContext(ctx,
		`SELECT 1 FROM property_images WHERE id = ? AND property_id = ? LIMIT 1`,
		imageID, propertyID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE property_images SET is_main_image = (id = ?) WHERE property_id = ?`,
		imageID, propertyID)
	return err
}

// Delete removes an image row.  Returns ErrNotFound when nothing was
// deleted.
func (r *ImageRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM property_images WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
