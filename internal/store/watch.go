package store

import (
	"context"

	"github.com/packrat-app/packrat/internal/live"
	"github.com/packrat-app/packrat/pkg/types"
)

// Live query surface. Each watcher emits an initial snapshot and a fresh one
// whenever a relevant table changes; concurrent watchers are independent.

// WatchSearch re-evaluates a search whenever items, their containers, or tag
// associations change.
func (s *Store) WatchSearch(ctx context.Context, query string) <-chan live.Snapshot[[]types.SearchResult] {
	tables := []string{TableItems, TableFolders, TableLocations, TableTags, TableItemTags}
	return live.Watch(ctx, s.bus, tables, func(ctx context.Context) ([]types.SearchResult, error) {
		return s.Search(ctx, query)
	})
}

// WatchLocationSummary keeps the full-subtree counts of a location current.
func (s *Store) WatchLocationSummary(ctx context.Context, locationID string) <-chan live.Snapshot[*types.LocationSummary] {
	tables := []string{TableLocations, TableFolders, TableItems}
	return live.Watch(ctx, s.bus, tables, func(ctx context.Context) (*types.LocationSummary, error) {
		return s.SummarizeLocation(ctx, locationID)
	})
}

// WatchFolderSummary keeps a folder's direct-children counts current.
func (s *Store) WatchFolderSummary(ctx context.Context, folderID string) <-chan live.Snapshot[*types.FolderSummary] {
	tables := []string{TableFolders, TableItems}
	return live.Watch(ctx, s.bus, tables, func(ctx context.Context) (*types.FolderSummary, error) {
		return s.SummarizeFolder(ctx, folderID)
	})
}

// WatchBreadcrumbs keeps a breadcrumb trail current across renames and
// re-parenting.
func (s *Store) WatchBreadcrumbs(ctx context.Context, locationID string, folderID *string) <-chan live.Snapshot[[]types.Breadcrumb] {
	tables := []string{TableLocations, TableFolders}
	return live.Watch(ctx, s.bus, tables, func(ctx context.Context) ([]types.Breadcrumb, error) {
		return s.Breadcrumbs(ctx, locationID, folderID)
	})
}

// WatchListEntries keeps a packing list's entries current.
func (s *Store) WatchListEntries(ctx context.Context, listID string) <-chan live.Snapshot[[]types.PackingListItem] {
	tables := []string{TablePackingLists, TablePackingListItems}
	return live.Watch(ctx, s.bus, tables, func(ctx context.Context) ([]types.PackingListItem, error) {
		return s.ListEntries(ctx, listID)
	})
}
