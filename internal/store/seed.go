package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/packrat-app/packrat/pkg/types"
)

// locationTemplate describes a built-in starter layout: a location with a
// named folder set and the shared tags those folders typically need.
type locationTemplate struct {
	name    string
	icon    string
	folders []string
	tags    []string
}

// builtInTemplates are the starter layouts offered at first run. Tags are
// created lazily during instantiation; existing tags with the same name are
// reused rather than duplicated.
var builtInTemplates = map[string]locationTemplate{
	"home": {
		name:    "Home",
		icon:    "house",
		folders: []string{"Kitchen", "Bedroom", "Garage", "Attic"},
		tags:    []string{"Fragile", "Seasonal"},
	},
	"office": {
		name:    "Office",
		icon:    "briefcase",
		folders: []string{"Desk", "Shelf", "Supply Closet"},
		tags:    []string{"Electronics", "Stationery"},
	},
	"travel": {
		name:    "Travel",
		icon:    "suitcase",
		folders: []string{"Carry-on", "Checked Bag", "Documents"},
		tags:    []string{"Essential"},
	},
}

// TemplateKeys lists the built-in template identifiers.
func TemplateKeys() []string {
	return []string{"home", "office", "travel"}
}

// InstantiateTemplate creates a location with the template's folder set in a
// single transaction. name overrides the template's default location name
// when non-empty.
func (s *Store) InstantiateTemplate(ctx context.Context, key, name string) (*types.Location, error) {
	tpl, ok := builtInTemplates[key]
	if !ok {
		return nil, fmt.Errorf("template %q: %w", key, types.ErrNotFound)
	}
	if name == "" {
		name = tpl.name
	}

	ts := now()
	loc := &types.Location{
		ID:        newID(),
		Name:      name,
		Icon:      tpl.icon,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	tables := []string{TableLocations, TableFolders, TableTags}
	err := s.write(ctx, tables, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO locations (location_id, name, icon, cover_image_path, created_at, updated_at)
			 VALUES (?, ?, ?, '', ?, ?)`,
			loc.ID, loc.Name, loc.Icon, fmtTime(ts), fmtTime(ts)); err != nil {
			return fmt.Errorf("seeding location: %w", err)
		}
		for _, folderName := range tpl.folders {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO folders (folder_id, location_id, parent_id, name, created_at, updated_at)
				 VALUES (?, ?, NULL, ?, ?, ?)`,
				newID(), loc.ID, folderName, fmtTime(ts), fmtTime(ts)); err != nil {
				return fmt.Errorf("seeding folder %s: %w", folderName, err)
			}
		}
		for _, tagName := range tpl.tags {
			if _, err := ensureTag(ctx, tx, tagName); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// SeedDemo populates a small sample data set for first-run exploration.
// Idempotent: it only runs against an empty store.
func (s *Store) SeedDemo(ctx context.Context) error {
	tables := []string{TableLocations, TableFolders, TableItems, TableTags, TableItemTags}
	return s.write(ctx, tables, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM locations").Scan(&count); err != nil {
			return fmt.Errorf("counting locations: %w", err)
		}
		if count > 0 {
			return nil
		}

		ts := now()
		locID := newID()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO locations (location_id, name, icon, cover_image_path, created_at, updated_at)
			 VALUES (?, 'Home', 'house', '', ?, ?)`,
			locID, fmtTime(ts), fmtTime(ts)); err != nil {
			return fmt.Errorf("seeding location: %w", err)
		}

		kitchenID := newID()
		pantryID := newID()
		folders := []struct {
			id     string
			parent any
			name   string
		}{
			{kitchenID, nil, "Kitchen"},
			{pantryID, kitchenID, "Pantry"},
			{newID(), nil, "Garage"},
		}
		for _, f := range folders {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO folders (folder_id, location_id, parent_id, name, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				f.id, locID, f.parent, f.name, fmtTime(ts), fmtTime(ts)); err != nil {
				return fmt.Errorf("seeding folder %s: %w", f.name, err)
			}
		}

		foodTag, err := ensureTag(ctx, tx, "Food")
		if err != nil {
			return err
		}

		items := []struct {
			folder  string
			name    string
			note    string
			current int64
			min     int64
			tag     string
		}{
			{pantryID, "Olive Oil", "extra virgin", 1, 2, foodTag},
			{pantryID, "Rice", "", 3, 1, foodTag},
			{kitchenID, "Dish Soap", "", 0, 1, ""},
		}
		for _, it := range items {
			itemID := newID()
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO items (item_id, folder_id, name, note, image_path,
					current_quantity, min_quantity, created_at, updated_at)
				 VALUES (?, ?, ?, ?, '', ?, ?, ?, ?)`,
				itemID, it.folder, it.name, it.note, it.current, it.min,
				fmtTime(ts), fmtTime(ts)); err != nil {
				return fmt.Errorf("seeding item %s: %w", it.name, err)
			}
			if it.tag != "" {
				if _, err := tx.ExecContext(ctx,
					"INSERT INTO item_tags (item_id, tag_id) VALUES (?, ?)", itemID, it.tag); err != nil {
					return fmt.Errorf("tagging item %s: %w", it.name, err)
				}
			}
		}
		return nil
	})
}

// ensureTag returns the id of the tag with the given name, creating it when
// absent. Lazy creation keeps template and seed runs from duplicating tags.
func ensureTag(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx,
		"SELECT tag_id FROM tags WHERE name = ? LIMIT 1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("looking up tag %s: %w", name, err)
	}

	id = newID()
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO tags (tag_id, name, parent_id, created_at) VALUES (?, ?, NULL, ?)",
		id, name, fmtTime(now())); err != nil {
		return "", fmt.Errorf("creating tag %s: %w", name, err)
	}
	return id, nil
}
