package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/packrat-app/packrat/pkg/types"
)

const itemColumns = "item_id, folder_id, name, note, image_path, expiry_at, last_used_at, current_quantity, min_quantity, created_at, updated_at"

// CreateItem creates an item inside the given folder. Negative quantities are
// coerced to zero before the row is written.
func (s *Store) CreateItem(ctx context.Context, item *types.Item) (*types.Item, error) {
	if item.FolderID == "" {
		return nil, types.ErrInvalidID
	}
	if item.Name == "" {
		return nil, types.ErrInvalidName
	}

	created := *item
	created.ID = newID()
	created.CurrentQuantity = clampQuantity(created.CurrentQuantity)
	created.MinQuantity = clampQuantity(created.MinQuantity)
	created.CreatedAt = now()
	created.UpdatedAt = now()

	err := s.write(ctx, []string{TableItems}, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM folders WHERE folder_id = ?", created.FolderID).Scan(&exists); err != nil {
			return fmt.Errorf("checking folder: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("folder %s: %w", created.FolderID, types.ErrNotFound)
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO items (item_id, folder_id, name, note, image_path, expiry_at, last_used_at,
				current_quantity, min_quantity, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			created.ID, created.FolderID, created.Name, created.Note, created.ImagePath,
			nullInt(created.ExpiryAt), nullInt(created.LastUsedAt),
			created.CurrentQuantity, created.MinQuantity,
			fmtTime(created.CreatedAt), fmtTime(created.UpdatedAt))
		if err != nil {
			return fmt.Errorf("inserting item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// GetItem returns the item with the given id.
func (s *Store) GetItem(ctx context.Context, id string) (*types.Item, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	var item *types.Item
	err := s.read(func(db *sql.DB) error {
		var err error
		item, err = scanItem(db.QueryRowContext(ctx,
			"SELECT "+itemColumns+" FROM items WHERE item_id = ?", id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem replaces the stored record (folder assignment excluded; use
// MoveItem) and refreshes updated_at. Quantities are clamped to zero or above.
func (s *Store) UpdateItem(ctx context.Context, item *types.Item) error {
	if item.ID == "" {
		return types.ErrInvalidID
	}
	if item.Name == "" {
		return types.ErrInvalidName
	}

	item.CurrentQuantity = clampQuantity(item.CurrentQuantity)
	item.MinQuantity = clampQuantity(item.MinQuantity)
	item.UpdatedAt = now()

	return s.write(ctx, []string{TableItems}, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE items SET name = ?, note = ?, image_path = ?, expiry_at = ?, last_used_at = ?,
				current_quantity = ?, min_quantity = ?, updated_at = ?
			 WHERE item_id = ?`,
			item.Name, item.Note, item.ImagePath,
			nullInt(item.ExpiryAt), nullInt(item.LastUsedAt),
			item.CurrentQuantity, item.MinQuantity,
			fmtTime(item.UpdatedAt), item.ID)
		if err != nil {
			return fmt.Errorf("updating item: %w", err)
		}
		return requireRow(res, "item")
	})
}

// MoveItem reassigns the item to another folder. Items are the only nodes
// that may cross locations; both ids must exist.
func (s *Store) MoveItem(ctx context.Context, itemID, newFolderID string) error {
	if itemID == "" || newFolderID == "" {
		return types.ErrInvalidID
	}

	return s.write(ctx, []string{TableItems}, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM folders WHERE folder_id = ?", newFolderID).Scan(&exists); err != nil {
			return fmt.Errorf("checking folder: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("folder %s: %w", newFolderID, types.ErrNotFound)
		}

		res, err := tx.ExecContext(ctx,
			"UPDATE items SET folder_id = ?, updated_at = ? WHERE item_id = ?",
			newFolderID, fmtTime(now()), itemID)
		if err != nil {
			return fmt.Errorf("moving item: %w", err)
		}
		return requireRow(res, "item")
	})
}

// TouchLastUsed stamps the item's last-used instant (epoch milliseconds).
func (s *Store) TouchLastUsed(ctx context.Context, itemID string, atMillis int64) error {
	if itemID == "" {
		return types.ErrInvalidID
	}
	return s.write(ctx, []string{TableItems}, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE items SET last_used_at = ?, updated_at = ? WHERE item_id = ?",
			atMillis, fmtTime(now()), itemID)
		if err != nil {
			return fmt.Errorf("touching item: %w", err)
		}
		return requireRow(res, "item")
	})
}

// DeleteItem removes the item and its tag links. The referenced image file is
// deleted best-effort after commit.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	var imagePath string
	err := s.write(ctx, []string{TableItems, TableItemTags}, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			"SELECT image_path FROM items WHERE item_id = ?", id).Scan(&imagePath)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("item %s: %w", id, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("loading item: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE item_id = ?", id); err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if imagePath != "" {
		s.cleanupImages(ctx, []string{imagePath})
	}
	return nil
}

// ItemsExpiringBefore returns items whose expiry falls at or before the given
// epoch-millisecond bound, soonest first. The notification scheduler is the
// intended caller; when and how results surface to the user is its business.
func (s *Store) ItemsExpiringBefore(ctx context.Context, boundMillis int64) ([]types.Item, error) {
	var items []types.Item
	err := s.read(func(db *sql.DB) error {
		var err error
		items, err = queryItems(ctx, db,
			"SELECT "+itemColumns+" FROM items WHERE expiry_at IS NOT NULL AND expiry_at <= ? ORDER BY expiry_at ASC",
			boundMillis)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func queryItems(ctx context.Context, q querier, query string, args ...any) ([]types.Item, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []types.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanItem(row rowScanner) (*types.Item, error) {
	var item types.Item
	var expiry, lastUsed sql.NullInt64
	var createdAt, updatedAt string
	err := row.Scan(&item.ID, &item.FolderID, &item.Name, &item.Note, &item.ImagePath,
		&expiry, &lastUsed, &item.CurrentQuantity, &item.MinQuantity, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning item: %w", err)
	}
	item.ExpiryAt = intPtr(expiry)
	item.LastUsedAt = intPtr(lastUsed)
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func clampQuantity(q int64) int64 {
	if q < 0 {
		return 0
	}
	return q
}
