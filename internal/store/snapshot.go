package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/packrat-app/packrat/pkg/types"
)

// Snapshot reads every table in full. The reader lock plus WAL isolation
// yield a consistent cut of the whole data graph.
func (s *Store) Snapshot(ctx context.Context) (*types.Snapshot, error) {
	snap := &types.Snapshot{}
	err := s.read(func(db *sql.DB) error {
		var err error

		rows, err := db.QueryContext(ctx, "SELECT "+locationColumns+" FROM locations ORDER BY location_id")
		if err != nil {
			return fmt.Errorf("dumping locations: %w", err)
		}
		for rows.Next() {
			l, err := scanLocation(rows)
			if err != nil {
				rows.Close()
				return err
			}
			snap.Locations = append(snap.Locations, *l)
		}
		if err := closeRows(rows); err != nil {
			return err
		}

		rows, err = db.QueryContext(ctx, "SELECT "+folderColumns+" FROM folders ORDER BY folder_id")
		if err != nil {
			return fmt.Errorf("dumping folders: %w", err)
		}
		for rows.Next() {
			f, err := scanFolder(rows)
			if err != nil {
				rows.Close()
				return err
			}
			snap.Folders = append(snap.Folders, *f)
		}
		if err := closeRows(rows); err != nil {
			return err
		}

		snap.Items, err = queryItems(ctx, db, "SELECT "+itemColumns+" FROM items ORDER BY item_id")
		if err != nil {
			return err
		}

		rows, err = db.QueryContext(ctx, "SELECT "+tagColumns+" FROM tags ORDER BY tag_id")
		if err != nil {
			return fmt.Errorf("dumping tags: %w", err)
		}
		for rows.Next() {
			t, err := scanTag(rows)
			if err != nil {
				rows.Close()
				return err
			}
			snap.Tags = append(snap.Tags, *t)
		}
		if err := closeRows(rows); err != nil {
			return err
		}

		rows, err = db.QueryContext(ctx, "SELECT item_id, tag_id FROM item_tags ORDER BY item_id, tag_id")
		if err != nil {
			return fmt.Errorf("dumping item tags: %w", err)
		}
		for rows.Next() {
			var it types.ItemTag
			if err := rows.Scan(&it.ItemID, &it.TagID); err != nil {
				rows.Close()
				return fmt.Errorf("scanning item tag: %w", err)
			}
			snap.ItemTags = append(snap.ItemTags, it)
		}
		if err := closeRows(rows); err != nil {
			return err
		}

		rows, err = db.QueryContext(ctx, "SELECT "+listColumns+" FROM packing_lists ORDER BY list_id")
		if err != nil {
			return fmt.Errorf("dumping packing lists: %w", err)
		}
		for rows.Next() {
			l, err := scanList(rows)
			if err != nil {
				rows.Close()
				return err
			}
			snap.PackingLists = append(snap.PackingLists, *l)
		}
		if err := closeRows(rows); err != nil {
			return err
		}

		rows, err = db.QueryContext(ctx, "SELECT "+entryColumns+" FROM packing_list_items ORDER BY entry_id")
		if err != nil {
			return fmt.Errorf("dumping list entries: %w", err)
		}
		for rows.Next() {
			e, err := scanListItem(rows)
			if err != nil {
				rows.Close()
				return err
			}
			snap.PackingListItems = append(snap.PackingListItems, *e)
		}
		return closeRows(rows)
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Restore wipes every table and re-inserts the snapshot in one transaction:
// a full replace, never a merge. Any failure rolls the whole import back,
// leaving the prior data set intact. Foreign-key checks are deferred to
// commit so row order within a table does not matter.
func (s *Store) Restore(ctx context.Context, snap *types.Snapshot) error {
	return s.write(ctx, AllTables, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "PRAGMA defer_foreign_keys = ON"); err != nil {
			return fmt.Errorf("deferring foreign keys: %w", err)
		}

		// Children before parents.
		for i := len(AllTables) - 1; i >= 0; i-- {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+AllTables[i]); err != nil {
				return fmt.Errorf("wiping %s: %w", AllTables[i], err)
			}
		}

		for _, l := range snap.Locations {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO locations (location_id, name, icon, cover_image_path, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				l.ID, l.Name, l.Icon, l.CoverImagePath, fmtTime(l.CreatedAt), fmtTime(l.UpdatedAt)); err != nil {
				return fmt.Errorf("restoring location %s: %w", l.ID, err)
			}
		}
		for _, f := range snap.Folders {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO folders (folder_id, location_id, parent_id, name, icon, cover_image_path,
					enable_map_view, map_x, map_y, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				f.ID, f.LocationID, nullStr(f.ParentID), f.Name, f.Icon, f.CoverImagePath,
				f.EnableMapView, nullFloat(f.MapX), nullFloat(f.MapY),
				fmtTime(f.CreatedAt), fmtTime(f.UpdatedAt)); err != nil {
				return fmt.Errorf("restoring folder %s: %w", f.ID, err)
			}
		}
		for _, it := range snap.Items {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO items (item_id, folder_id, name, note, image_path, expiry_at, last_used_at,
					current_quantity, min_quantity, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				it.ID, it.FolderID, it.Name, it.Note, it.ImagePath,
				nullInt(it.ExpiryAt), nullInt(it.LastUsedAt),
				it.CurrentQuantity, it.MinQuantity,
				fmtTime(it.CreatedAt), fmtTime(it.UpdatedAt)); err != nil {
				return fmt.Errorf("restoring item %s: %w", it.ID, err)
			}
		}
		for _, t := range snap.Tags {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO tags (tag_id, name, parent_id, created_at) VALUES (?, ?, ?, ?)",
				t.ID, t.Name, nullStr(t.ParentID), fmtTime(t.CreatedAt)); err != nil {
				return fmt.Errorf("restoring tag %s: %w", t.ID, err)
			}
		}
		for _, it := range snap.ItemTags {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO item_tags (item_id, tag_id) VALUES (?, ?)",
				it.ItemID, it.TagID); err != nil {
				return fmt.Errorf("restoring item tag %s/%s: %w", it.ItemID, it.TagID, err)
			}
		}
		for _, l := range snap.PackingLists {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO packing_lists (list_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
				l.ID, l.Name, fmtTime(l.CreatedAt), fmtTime(l.UpdatedAt)); err != nil {
				return fmt.Errorf("restoring packing list %s: %w", l.ID, err)
			}
		}
		for _, e := range snap.PackingListItems {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO packing_list_items (entry_id, list_id, name, checked, linked_item_id,
					quantity_needed, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				e.ID, e.ListID, e.Name, e.Checked, nullStr(e.LinkedItemID), nullInt(e.QuantityNeeded),
				fmtTime(e.CreatedAt), fmtTime(e.UpdatedAt)); err != nil {
				return fmt.Errorf("restoring list entry %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}
