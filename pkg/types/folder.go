package types

import "time"

// Folder is a nested container beneath a Location. ParentID, when set, must
// reference another folder in the same location; nil means the folder hangs
// directly off the location. Folders never move between locations.
type Folder struct {
	ID             string    `json:"id"`
	LocationID     string    `json:"location_id"`
	ParentID       *string   `json:"parent_id,omitempty"`
	Name           string    `json:"name"`
	Icon           string    `json:"icon,omitempty"`
	CoverImagePath string    `json:"cover_image_path,omitempty"`
	EnableMapView  bool      `json:"enable_map_view"`
	MapX           *float64  `json:"map_x,omitempty"`
	MapY           *float64  `json:"map_y,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
