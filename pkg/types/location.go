package types

import "time"

// Location is a top-level container (a room, building, vehicle) that owns a
// tree of folders and, transitively, items.
type Location struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Icon           string    `json:"icon,omitempty"`
	CoverImagePath string    `json:"cover_image_path,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
