package types

// LocationSummary aggregates a full location subtree: every folder at any
// depth and every item in any of those folders.
type LocationSummary struct {
	FolderCount int64 `json:"folder_count"`
	ItemCount   int64 `json:"item_count"`
}

// FolderSummary counts direct children only, matching the
// "N sub-areas · M items" display. Intentionally shallower than
// LocationSummary; the two feed different screens.
type FolderSummary struct {
	SubFolderCount int64 `json:"sub_folder_count"`
	ItemCount      int64 `json:"item_count"`
}

// Breadcrumb is one step on the path from a location down to a folder. The
// location is always the first element of a breadcrumb trail.
type Breadcrumb struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsLocation bool   `json:"is_location"`
}

// SearchResult is one deduplicated search hit: one row per item no matter how
// many of its fields or tags matched.
type SearchResult struct {
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name"`
	Note         string `json:"note,omitempty"`
	ImagePath    string `json:"image_path,omitempty"`
	FolderID     string `json:"folder_id"`
	FolderName   string `json:"folder_name"`
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
}
