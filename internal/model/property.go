package model

import "time"

// Property represents a rental listing owned by a landlord.  A property
// belongs to one category and can carry multiple images.  This struct
// corresponds to a row in the `properties` table.
type Property struct {
    ID             uint64     `json:"id"`
    OwnerID        uint64     `json:"owner_id"`
    CategoryID     uint64     `json:"category_id"`
    Title          string     `json:"title"`
    Description    string     `json:"description,omitempty"`
    Address        string     `json:"address"`
    City           string     `json:"city"`
    PostalCode     string     `json:"postal_code,omitempty"`
    Country        string     `json:"country"`
    Price          float64    `json:"price"`
    Currency       string     `json:"currency"`
    Size           *float64   `json:"size,omitempty"`
    RoomCount      *int       `json:"room_count,omitempty"`
    BathroomCount  *int       `json:"bathroom_count,omitempty"`
    HasBalcony     bool       `json:"has_balcony"`
    HasParking     bool       `json:"has_parking"`
    HasElevator    bool       `json:"has_elevator"`
    PetsAllowed    bool       `json:"pets_allowed"`
    SmokingAllowed bool       `json:"smoking_allowed"`
    AvailableFrom  *time.Time `json:"available_from,omitempty"`
    AvailableTo    *time.Time `json:"available_to,omitempty"`
    IsActive       bool       `json:"is_active"`
    CreatedAt      time.Time  `json:"created_at"`
    UpdatedAt      time.Time  `json:"updated_at"`
}

// Category is a lookup row from `property_categories` (e.g. apartment,
// house, room, studio).
type Category struct {
    ID          uint64 `json:"id"`
    Name        string `json:"name"`
    Description string `json:"description,omitempty"`
}

// Favorite links a tenant to a saved property.  One row per
// (user, property) pair.
type Favorite struct {
    ID         uint64    `json:"id"`
    UserID     uint64    `json:"user_id"`
    PropertyID uint64    `json:"property_id"`
    CreatedAt  time.Time `json:"created_at"`
}
