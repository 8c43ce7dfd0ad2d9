package store

// Table names, used both in SQL and as change-bus topics.
const (
	TableLocations        = "locations"
	TableFolders          = "folders"
	TableItems            = "items"
	TableTags             = "tags"
	TableItemTags         = "item_tags"
	TablePackingLists     = "packing_lists"
	TablePackingListItems = "packing_list_items"
)

// AllTables lists every table in parent-before-child order. Reversed, it is
// the safe wipe order for a full import.
var AllTables = []string{
	TableLocations,
	TableFolders,
	TableItems,
	TableTags,
	TableItemTags,
	TablePackingLists,
	TablePackingListItems,
}
