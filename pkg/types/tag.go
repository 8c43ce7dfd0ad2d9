package types

import "time"

// Tag is a cross-cutting label applicable to items. Tags form a shallow
// display hierarchy through ParentID; deleting a parent detaches its children
// rather than cascading.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemTag links one item to one tag. The pair is unique.
type ItemTag struct {
	ItemID string `json:"item_id"`
	TagID  string `json:"tag_id"`
}
