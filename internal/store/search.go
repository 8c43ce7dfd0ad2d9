package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/packrat-app/packrat/pkg/types"
)

// searchLimit caps result sets so live re-evaluation stays cheap. Callers
// needing more must paginate by updated_at cursor, which the engine does not
// provide yet.
const searchLimit = 200

// Search matches the query case-insensitively as a substring of item name,
// item note, folder name, location name, or any associated tag name. One row
// per item regardless of how many fields or tags match, most recently updated
// item first. A blank query returns nothing without touching the database.
func (s *Store) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	pattern := "%" + strings.ToLower(query) + "%"

	var results []types.SearchResult
	err := s.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT i.item_id, i.name, i.note, i.image_path,
				f.folder_id, f.name, l.location_id, l.name
			FROM items i
			JOIN folders f ON f.folder_id = i.folder_id
			JOIN locations l ON l.location_id = f.location_id
			LEFT JOIN item_tags it ON it.item_id = i.item_id
			LEFT JOIN tags t ON t.tag_id = it.tag_id
			WHERE lower(i.name) LIKE ?1
				OR lower(i.note) LIKE ?1
				OR lower(f.name) LIKE ?1
				OR lower(l.name) LIKE ?1
				OR lower(t.name) LIKE ?1
			GROUP BY i.item_id
			ORDER BY i.updated_at DESC
			LIMIT ?2`, pattern, searchLimit)
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var r types.SearchResult
			if err := rows.Scan(&r.ItemID, &r.ItemName, &r.Note, &r.ImagePath,
				&r.FolderID, &r.FolderName, &r.LocationID, &r.LocationName); err != nil {
				return fmt.Errorf("scanning search result: %w", err)
			}
			results = append(results, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
