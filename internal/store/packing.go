package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/packrat-app/packrat/pkg/types"
)

const (
	listColumns  = "list_id, name, created_at, updated_at"
	entryColumns = "entry_id, list_id, name, checked, linked_item_id, quantity_needed, created_at, updated_at"
)

// CreateList creates an empty packing list.
func (s *Store) CreateList(ctx context.Context, name string) (*types.PackingList, error) {
	if name == "" {
		return nil, types.ErrInvalidName
	}

	list := &types.PackingList{
		ID:        newID(),
		Name:      name,
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	err := s.write(ctx, []string{TablePackingLists}, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO packing_lists (list_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
			list.ID, list.Name, fmtTime(list.CreatedAt), fmtTime(list.UpdatedAt))
		if err != nil {
			return fmt.Errorf("inserting packing list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// GetList returns the packing list with the given id.
func (s *Store) GetList(ctx context.Context, id string) (*types.PackingList, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	var list *types.PackingList
	err := s.read(func(db *sql.DB) error {
		var err error
		list, err = scanList(db.QueryRowContext(ctx,
			"SELECT "+listColumns+" FROM packing_lists WHERE list_id = ?", id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListPackingLists returns every packing list, newest first.
func (s *Store) ListPackingLists(ctx context.Context) ([]types.PackingList, error) {
	var lists []types.PackingList
	err := s.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			"SELECT "+listColumns+" FROM packing_lists ORDER BY created_at DESC")
		if err != nil {
			return fmt.Errorf("listing packing lists: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			list, err := scanList(rows)
			if err != nil {
				return err
			}
			lists = append(lists, *list)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// AddListItem appends a free-text entry. The list's existence is verified,
// not assumed; a stale list id fails with ErrNotFound.
func (s *Store) AddListItem(ctx context.Context, listID, name string) (*types.PackingListItem, error) {
	if listID == "" {
		return nil, types.ErrInvalidID
	}
	if name == "" {
		return nil, types.ErrInvalidName
	}

	entry := &types.PackingListItem{
		ID:        newID(),
		ListID:    listID,
		Name:      name,
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	err := s.write(ctx, []string{TablePackingListItems}, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM packing_lists WHERE list_id = ?", listID).Scan(&exists); err != nil {
			return fmt.Errorf("checking list: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("packing list %s: %w", listID, types.ErrNotFound)
		}
		return insertListItem(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ToggleChecked flips an entry's checked state.
func (s *Store) ToggleChecked(ctx context.Context, entryID string) error {
	if entryID == "" {
		return types.ErrInvalidID
	}
	return s.write(ctx, []string{TablePackingListItems}, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE packing_list_items SET checked = NOT checked, updated_at = ? WHERE entry_id = ?",
			fmtTime(now()), entryID)
		if err != nil {
			return fmt.Errorf("toggling entry: %w", err)
		}
		return requireRow(res, "packing list entry")
	})
}

// DeleteListItem removes one entry.
func (s *Store) DeleteListItem(ctx context.Context, entryID string) error {
	if entryID == "" {
		return types.ErrInvalidID
	}
	return s.write(ctx, []string{TablePackingListItems}, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM packing_list_items WHERE entry_id = ?", entryID)
		if err != nil {
			return fmt.Errorf("deleting entry: %w", err)
		}
		return requireRow(res, "packing list entry")
	})
}

// DeleteList removes the list and, by cascade, all of its entries.
func (s *Store) DeleteList(ctx context.Context, listID string) error {
	if listID == "" {
		return types.ErrInvalidID
	}
	return s.write(ctx, []string{TablePackingLists, TablePackingListItems}, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM packing_lists WHERE list_id = ?", listID)
		if err != nil {
			return fmt.Errorf("deleting packing list: %w", err)
		}
		return requireRow(res, "packing list")
	})
}

// ListEntries returns the entries of a list in insertion order.
func (s *Store) ListEntries(ctx context.Context, listID string) ([]types.PackingListItem, error) {
	if listID == "" {
		return nil, types.ErrInvalidID
	}
	var entries []types.PackingListItem
	err := s.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			"SELECT "+entryColumns+" FROM packing_list_items WHERE list_id = ? ORDER BY created_at ASC, entry_id ASC",
			listID)
		if err != nil {
			return fmt.Errorf("listing entries: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			e, err := scanListItem(rows)
			if err != nil {
				return err
			}
			entries = append(entries, *e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GenerateRestockList scans every item whose current quantity sits below its
// minimum and snapshots them into a new dated packing list, largest deficit
// first, ties broken by recency. Entries link back to the originating item
// and carry quantity_needed = max(1, min - current). Returns nil with no list
// created when no item qualifies.
func (s *Store) GenerateRestockList(ctx context.Context, name string) (*types.PackingList, error) {
	if name == "" {
		name = "Restock " + now().Format("2006-01-02")
	}

	var list *types.PackingList
	err := s.write(ctx, []string{TablePackingLists, TablePackingListItems}, func(tx *sql.Tx) error {
		candidates, err := queryItems(ctx, tx, `
			SELECT `+itemColumns+` FROM items
			WHERE current_quantity < min_quantity
			ORDER BY (min_quantity - current_quantity) DESC, updated_at DESC`)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			return nil
		}

		ts := now()
		list = &types.PackingList{
			ID:        newID(),
			Name:      name,
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO packing_lists (list_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
			list.ID, list.Name, fmtTime(ts), fmtTime(ts)); err != nil {
			return fmt.Errorf("inserting restock list: %w", err)
		}

		for _, c := range candidates {
			needed := c.RestockDeficit()
			if needed < 1 {
				needed = 1
			}
			linked := c.ID
			entry := &types.PackingListItem{
				ID:             newID(),
				ListID:         list.ID,
				Name:           c.Name,
				LinkedItemID:   &linked,
				QuantityNeeded: &needed,
				CreatedAt:      ts,
				UpdatedAt:      ts,
			}
			if err := insertListItem(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func insertListItem(ctx context.Context, tx *sql.Tx, e *types.PackingListItem) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO packing_list_items (entry_id, list_id, name, checked, linked_item_id,
			quantity_needed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ListID, e.Name, e.Checked, nullStr(e.LinkedItemID), nullInt(e.QuantityNeeded),
		fmtTime(e.CreatedAt), fmtTime(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting list entry: %w", err)
	}
	return nil
}

func scanList(row rowScanner) (*types.PackingList, error) {
	var l types.PackingList
	var createdAt, updatedAt string
	err := row.Scan(&l.ID, &l.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning packing list: %w", err)
	}
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func scanListItem(row rowScanner) (*types.PackingListItem, error) {
	var e types.PackingListItem
	var linked sql.NullString
	var needed sql.NullInt64
	var createdAt, updatedAt string
	err := row.Scan(&e.ID, &e.ListID, &e.Name, &e.Checked, &linked, &needed, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning list entry: %w", err)
	}
	e.LinkedItemID = strPtr(linked)
	e.QuantityNeeded = intPtr(needed)
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
