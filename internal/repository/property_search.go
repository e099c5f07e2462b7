package repository

import (
	"context"
	"strings"

	"github.com/uniliving/backend/internal/model"
)

// PropertySearchQuery defines filters, sorting and pagination for browsing
// listings.  Nil pointer fields mean "no filter".
type PropertySearchQuery struct {
	SearchTerm     string
	CategoryID     *uint64
	City           string
	MinPrice       *float64
	MaxPrice       *float64
	MinSize        *float64
	MaxSize        *float64
	MinRoomCount   *int
	MaxRoomCount   *int
	HasBalcony     *bool
	HasParking     *bool
	HasElevator    *bool
	PetsAllowed    *bool
	SmokingAllowed *bool
	SortBy         string // price | size | created_at (default)
	SortDesc       bool
	Page           int
	PageSize       int
}

// Pagination returns the effective page and page size after clamping, the
// single source of truth for both the LIMIT/OFFSET below and the values
// echoed back to the client.
func (q PropertySearchQuery) Pagination() (page, size int) {
	page = q.Page
	if page < 1 {
		page = 1
	}
	size = q.PageSize
	if size < 1 || size > 100 {
		size = 10
	}
	return page, size
}

// Search returns active, non-deleted listings matching the query plus the
// total match count for pagination.
func (r *PropertyRepo) Search(ctx context.Context, q PropertySearchQuery) ([]model.Property, int64, error) {
	where := []string{"is_deleted = 0", "is_active = 1"}
	args := []any{}

	if term := strings.TrimSpace(q.SearchTerm); term != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)")
		like := "%" + strings.ToLower(term) + "%"
		args = append(args, like, like)
	}
	if q.CategoryID != nil {
		where = append(where, "category_id = ?")
		args = append(args, *q.CategoryID)
	}
	if city := strings.TrimSpace(q.City); city != "" {
		where = append(where, "LOWER(city) = ?")
		args = append(args, strings.ToLower(city))
	}
	if q.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *q.MaxPrice)
	}
	if q.MinSize != nil {
		where = append(where, "size >= ?")
		args = append(args, *q.MinSize)
	}
	if q.MaxSize != nil {
		where = append(where, "size <= ?")
		args = append(args, *q.MaxSize)
	}
	if q.MinRoomCount != nil {
		where = append(where, "room_count >= ?")
		args = append(args, *q.MinRoomCount)
	}
	if q.MaxRoomCount != nil {
		where = append(where, "room_count <= ?")
		args = append(args, *q.MaxRoomCount)
	}
	for _, f := range []struct {
		val *bool
		col string
	}{
		{q.HasBalcony, "has_balcony"},
		{q.HasParking, "has_parking"},
		{q.HasElevator, "has_elevator"},
		{q.PetsAllowed, "pets_allowed"},
		{q.SmokingAllowed, "smoking_allowed"},
	} {
		if f.val != nil {
			where = append(where, f.col+" = ?")
			args = append(args, *f.val)
		}
	}

	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM properties WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Sort column comes from a fixed set, never from user input directly.
	order := "created_at"
	switch strings.ToLower(q.SortBy) {
	case "price":
		order = "price"
	case "size":
		order = "size"
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}

	page, size := q.Pagination()
	argsData := append(append([]any{}, args...), size, (page-1)*size)

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+propertyColumns+` FROM properties
		 WHERE `+cond+`
		 ORDER BY `+order+` `+dir+`, id ASC
		 LIMIT ? OFFSET ?`, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Property, 0, size)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
