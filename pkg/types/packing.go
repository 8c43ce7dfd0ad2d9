package types

import "time"

// PackingList is an independent checklist, either hand-built or generated by
// the restock scan.
type PackingList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PackingListItem is one entry on a packing list. LinkedItemID references the
// inventory item that generated the entry; nil means a free-text entry.
type PackingListItem struct {
	ID             string    `json:"id"`
	ListID         string    `json:"list_id"`
	Name           string    `json:"name"`
	Checked        bool      `json:"checked"`
	LinkedItemID   *string   `json:"linked_item_id,omitempty"`
	QuantityNeeded *int64    `json:"quantity_needed,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
