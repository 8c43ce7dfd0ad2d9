package types

import "time"

// Item is a leaf record for a physical object. It always lives in exactly one
// folder; items cannot attach directly to a location.
//
// ExpiryAt and LastUsedAt are epoch milliseconds. Quantities are clamped to
// zero or above on every write.
type Item struct {
	ID              string    `json:"id"`
	FolderID        string    `json:"folder_id"`
	Name            string    `json:"name"`
	Note            string    `json:"note,omitempty"`
	ImagePath       string    `json:"image_path,omitempty"`
	ExpiryAt        *int64    `json:"expiry_at,omitempty"`
	LastUsedAt      *int64    `json:"last_used_at,omitempty"`
	CurrentQuantity int64     `json:"current_quantity"`
	MinQuantity     int64     `json:"min_quantity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RestockDeficit returns how many units are missing against the configured
// minimum, never below zero.
func (i Item) RestockDeficit() int64 {
	if d := i.MinQuantity - i.CurrentQuantity; d > 0 {
		return d
	}
	return 0
}
