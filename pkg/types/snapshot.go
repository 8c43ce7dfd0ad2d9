package types

// Snapshot is the complete row set of every table, the unit the backup codec
// serializes and a restore replaces wholesale.
type Snapshot struct {
	Locations        []Location        `json:"locations"`
	Folders          []Folder          `json:"folders"`
	Items            []Item            `json:"items"`
	Tags             []Tag             `json:"tags"`
	ItemTags         []ItemTag         `json:"item_tags"`
	PackingLists     []PackingList     `json:"packing_lists"`
	PackingListItems []PackingListItem `json:"packing_list_items"`
}

// ImagePaths returns the distinct image paths referenced anywhere in the
// snapshot: location covers, folder covers, and item images.
func (s *Snapshot) ImagePaths() []string {
	seen := make(map[string]struct{})
	var paths []string
	add := func(p string) {
		if p == "" {
			return
		}
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	for _, l := range s.Locations {
		add(l.CoverImagePath)
	}
	for _, f := range s.Folders {
		add(f.CoverImagePath)
	}
	for _, i := range s.Items {
		add(i.ImagePath)
	}
	return paths
}
