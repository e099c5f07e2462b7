package model

import "time"

// PropertyImage models a row in the `property_images` table.  FileName is
// the server-generated opaque name (uuid + extension); the original upload
// name is discarded at save time.  FilePath is the path relative to the
// secure storage root.  At most one image per property has IsMainImage set;
// the image service enforces this, not the schema.
type PropertyImage struct {
    ID           uint64    `json:"id"`
    PropertyID   uint64    `json:"property_id"`
    FileName     string    `json:"file_name"`
    FilePath     string    `json:"file_path"`
    FileSize     int64     `json:"file_size"`
    MimeType     string    `json:"mime_type"`
    IsMainImage  bool      `json:"is_main_image"`
    DisplayOrder int       `json:"display_order"`
    CreatedAt    time.Time `json:"created_at"`
}
