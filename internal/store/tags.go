package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/packrat-app/packrat/pkg/types"
)

const tagColumns = "tag_id, name, parent_id, created_at"

// CreateTag creates a tag, optionally under a parent tag. The tag hierarchy
// is display grouping only, not containment.
func (s *Store) CreateTag(ctx context.Context, name string, parentID *string) (*types.Tag, error) {
	if name == "" {
		return nil, types.ErrInvalidName
	}

	tag := &types.Tag{
		ID:        newID(),
		Name:      name,
		ParentID:  parentID,
		CreatedAt: now(),
	}

	err := s.write(ctx, []string{TableTags}, func(tx *sql.Tx) error {
		if parentID != nil {
			if err := requireTag(ctx, tx, *parentID); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO tags (tag_id, name, parent_id, created_at) VALUES (?, ?, ?, ?)",
			tag.ID, tag.Name, nullStr(tag.ParentID), fmtTime(tag.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting tag: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// GetTag returns the tag with the given id.
func (s *Store) GetTag(ctx context.Context, id string) (*types.Tag, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	var tag *types.Tag
	err := s.read(func(db *sql.DB) error {
		var err error
		tag, err = scanTag(db.QueryRowContext(ctx,
			"SELECT "+tagColumns+" FROM tags WHERE tag_id = ?", id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// ListTags returns every tag ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]types.Tag, error) {
	var tags []types.Tag
	err := s.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			"SELECT "+tagColumns+" FROM tags ORDER BY name ASC")
		if err != nil {
			return fmt.Errorf("listing tags: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			tag, err := scanTag(rows)
			if err != nil {
				return err
			}
			tags = append(tags, *tag)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// SetTagParent re-parents a tag, or detaches it with a nil parentID. A tag
// cannot be its own parent.
func (s *Store) SetTagParent(ctx context.Context, tagID string, parentID *string) error {
	if tagID == "" {
		return types.ErrInvalidID
	}
	if parentID != nil && *parentID == tagID {
		return fmt.Errorf("tag cannot be its own parent: %w", types.ErrInvalidParent)
	}

	return s.write(ctx, []string{TableTags}, func(tx *sql.Tx) error {
		if parentID != nil {
			if err := requireTag(ctx, tx, *parentID); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx,
			"UPDATE tags SET parent_id = ? WHERE tag_id = ?", nullStr(parentID), tagID)
		if err != nil {
			return fmt.Errorf("updating tag parent: %w", err)
		}
		return requireRow(res, "tag")
	})
}

// DeleteTag removes the tag and its item links. Child tags survive with their
// parent reference cleared; deletion never cascades down the tag hierarchy.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	return s.write(ctx, []string{TableTags, TableItemTags}, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE tags SET parent_id = NULL WHERE parent_id = ?", id); err != nil {
			return fmt.Errorf("detaching child tags: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM item_tags WHERE tag_id = ?", id); err != nil {
			return fmt.Errorf("removing tag links: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE tag_id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting tag: %w", err)
		}
		return requireRow(res, "tag")
	})
}

// SetTagsForItem replaces the item's entire tag set in one transaction: a
// full replace, not an incremental diff. Duplicate ids in the input are
// deduplicated silently; a reader never observes a partially-cleared set.
func (s *Store) SetTagsForItem(ctx context.Context, itemID string, tagIDs []string) error {
	if itemID == "" {
		return types.ErrInvalidID
	}

	deduped := make([]string, 0, len(tagIDs))
	seen := make(map[string]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}

	return s.write(ctx, []string{TableItemTags}, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM items WHERE item_id = ?", itemID).Scan(&exists); err != nil {
			return fmt.Errorf("checking item: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("item %s: %w", itemID, types.ErrNotFound)
		}
		for _, tagID := range deduped {
			if err := requireTag(ctx, tx, tagID); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM item_tags WHERE item_id = ?", itemID); err != nil {
			return fmt.Errorf("clearing item tags: %w", err)
		}
		for _, tagID := range deduped {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO item_tags (item_id, tag_id) VALUES (?, ?)", itemID, tagID); err != nil {
				return fmt.Errorf("linking tag %s: %w", tagID, err)
			}
		}
		return nil
	})
}

// TagsForItem returns the item's tags ordered by name.
func (s *Store) TagsForItem(ctx context.Context, itemID string) ([]types.Tag, error) {
	if itemID == "" {
		return nil, types.ErrInvalidID
	}

	var tags []types.Tag
	err := s.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT t.tag_id, t.name, t.parent_id, t.created_at
			FROM tags t JOIN item_tags it ON it.tag_id = t.tag_id
			WHERE it.item_id = ?
			ORDER BY t.name ASC`, itemID)
		if err != nil {
			return fmt.Errorf("listing item tags: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			tag, err := scanTag(rows)
			if err != nil {
				return err
			}
			tags = append(tags, *tag)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func requireTag(ctx context.Context, q querier, tagID string) error {
	var exists int
	if err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tags WHERE tag_id = ?", tagID).Scan(&exists); err != nil {
		return fmt.Errorf("checking tag: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("tag %s: %w", tagID, types.ErrNotFound)
	}
	return nil
}

func scanTag(row rowScanner) (*types.Tag, error) {
	var tag types.Tag
	var parent sql.NullString
	var createdAt string
	err := row.Scan(&tag.ID, &tag.Name, &parent, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning tag: %w", err)
	}
	tag.ParentID = strPtr(parent)
	if tag.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &tag, nil
}
