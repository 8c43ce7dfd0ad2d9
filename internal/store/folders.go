package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/packrat-app/packrat/pkg/types"
)

const folderColumns = "folder_id, location_id, parent_id, name, icon, cover_image_path, enable_map_view, map_x, map_y, created_at, updated_at"

// querier covers *sql.DB and *sql.Tx for the lookup helpers.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// CreateFolder creates a folder under the given location. A non-nil parentID
// must resolve to a folder in the same location or the call fails with
// ErrInvalidParent before any row is written.
func (s *Store) CreateFolder(ctx context.Context, locationID string, parentID *string, name, icon, coverImagePath string) (*types.Folder, error) {
	if locationID == "" {
		return nil, types.ErrInvalidID
	}
	if name == "" {
		return nil, types.ErrInvalidName
	}

	f := &types.Folder{
		ID:             newID(),
		LocationID:     locationID,
		ParentID:       parentID,
		Name:           name,
		Icon:           icon,
		CoverImagePath: coverImagePath,
		CreatedAt:      now(),
		UpdatedAt:      now(),
	}

	err := s.write(ctx, []string{TableFolders}, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM locations WHERE location_id = ?", locationID).Scan(&exists); err != nil {
			return fmt.Errorf("checking location: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("location %s: %w", locationID, types.ErrNotFound)
		}

		if parentID != nil {
			if err := checkParentFolder(ctx, tx, *parentID, locationID); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO folders (folder_id, location_id, parent_id, name, icon, cover_image_path,
				enable_map_view, map_x, map_y, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.LocationID, nullStr(f.ParentID), f.Name, f.Icon, f.CoverImagePath,
			f.EnableMapView, nullFloat(f.MapX), nullFloat(f.MapY),
			fmtTime(f.CreatedAt), fmtTime(f.UpdatedAt))
		if err != nil {
			return fmt.Errorf("inserting folder: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// GetFolder returns the folder with the given id.
func (s *Store) GetFolder(ctx context.Context, id string) (*types.Folder, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	var f *types.Folder
	err := s.read(func(db *sql.DB) error {
		var err error
		f, err = scanFolder(db.QueryRowContext(ctx,
			"SELECT "+folderColumns+" FROM folders WHERE folder_id = ?", id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// UpdateFolder replaces the stored record. The location is immutable; a
// changed LocationID or a parent change that crosses locations or closes a
// cycle fails with ErrInvalidParent and writes nothing.
func (s *Store) UpdateFolder(ctx context.Context, f *types.Folder) error {
	if f.ID == "" {
		return types.ErrInvalidID
	}
	if f.Name == "" {
		return types.ErrInvalidName
	}

	f.UpdatedAt = now()
	return s.write(ctx, []string{TableFolders}, func(tx *sql.Tx) error {
		stored, err := scanFolder(tx.QueryRowContext(ctx,
			"SELECT "+folderColumns+" FROM folders WHERE folder_id = ?", f.ID))
		if err != nil {
			return err
		}
		if stored.LocationID != f.LocationID {
			return fmt.Errorf("folder location is immutable: %w", types.ErrInvalidParent)
		}
		if f.ParentID != nil {
			if *f.ParentID == f.ID {
				return fmt.Errorf("folder cannot be its own parent: %w", types.ErrInvalidParent)
			}
			if err := checkParentFolder(ctx, tx, *f.ParentID, f.LocationID); err != nil {
				return err
			}
			// Reject a parent that sits anywhere inside this folder's own
			// subtree; re-parenting onto a descendant would close a cycle.
			inSubtree, err := isAncestor(ctx, tx, f.ID, *f.ParentID)
			if err != nil {
				return err
			}
			if inSubtree {
				return fmt.Errorf("folder cannot move under its own subtree: %w", types.ErrInvalidParent)
			}
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE folders SET parent_id = ?, name = ?, icon = ?, cover_image_path = ?,
				enable_map_view = ?, map_x = ?, map_y = ?, updated_at = ?
			 WHERE folder_id = ?`,
			nullStr(f.ParentID), f.Name, f.Icon, f.CoverImagePath,
			f.EnableMapView, nullFloat(f.MapX), nullFloat(f.MapY),
			fmtTime(f.UpdatedAt), f.ID)
		if err != nil {
			return fmt.Errorf("updating folder: %w", err)
		}
		return requireRow(res, "folder")
	})
}

// DeleteFolder removes the folder and every descendant folder and item in one
// cascading transaction. Image files referenced by the subtree are deleted
// best-effort after commit; a failed file removal never rolls back metadata.
func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	var orphans []string
	err := s.write(ctx, []string{TableFolders, TableItems, TableItemTags}, func(tx *sql.Tx) error {
		var err error
		orphans, err = collectFolderImages(ctx, tx, id)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM folders WHERE folder_id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting folder: %w", err)
		}
		return requireRow(res, "folder")
	})
	if err != nil {
		return err
	}

	s.cleanupImages(ctx, orphans)
	return nil
}

// SummarizeFolder counts direct children only: one level of sub-folders and
// the items immediately inside. This matches the "N sub-areas · M items"
// display and is intentionally shallower than SummarizeLocation.
func (s *Store) SummarizeFolder(ctx context.Context, id string) (*types.FolderSummary, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	sum := &types.FolderSummary{}
	err := s.read(func(db *sql.DB) error {
		var exists int
		if err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM folders WHERE folder_id = ?", id).Scan(&exists); err != nil {
			return fmt.Errorf("checking folder: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("folder %s: %w", id, types.ErrNotFound)
		}

		err := db.QueryRowContext(ctx, `
			SELECT
				(SELECT COUNT(*) FROM folders WHERE parent_id = ?1),
				(SELECT COUNT(*) FROM items WHERE folder_id = ?1)`,
			id).Scan(&sum.SubFolderCount, &sum.ItemCount)
		if err != nil {
			return fmt.Errorf("summarizing folder: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// Breadcrumbs walks parent pointers upward from the target folder, reverses
// the path, and prepends the location, producing root-first order. With a nil
// folderID the trail is just the location.
func (s *Store) Breadcrumbs(ctx context.Context, locationID string, folderID *string) ([]types.Breadcrumb, error) {
	if locationID == "" {
		return nil, types.ErrInvalidID
	}

	var trail []types.Breadcrumb
	err := s.read(func(db *sql.DB) error {
		loc, err := scanLocation(db.QueryRowContext(ctx,
			"SELECT "+locationColumns+" FROM locations WHERE location_id = ?", locationID))
		if err != nil {
			return err
		}

		var reversed []types.Breadcrumb
		if folderID != nil {
			cur := *folderID
			seen := make(map[string]struct{})
			for {
				if _, dup := seen[cur]; dup {
					return fmt.Errorf("folder %s: parent chain loops: %w", cur, types.ErrInvalidParent)
				}
				seen[cur] = struct{}{}

				f, err := scanFolder(db.QueryRowContext(ctx,
					"SELECT "+folderColumns+" FROM folders WHERE folder_id = ?", cur))
				if err != nil {
					return err
				}
				if f.LocationID != locationID {
					return fmt.Errorf("folder %s not under location %s: %w", *folderID, locationID, types.ErrNotFound)
				}
				reversed = append(reversed, types.Breadcrumb{ID: f.ID, Name: f.Name})
				if f.ParentID == nil {
					break
				}
				cur = *f.ParentID
			}
		}

		trail = make([]types.Breadcrumb, 0, len(reversed)+1)
		trail = append(trail, types.Breadcrumb{ID: loc.ID, Name: loc.Name, IsLocation: true})
		for i := len(reversed) - 1; i >= 0; i-- {
			trail = append(trail, reversed[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trail, nil
}

// ListChildren returns the folders at the given level of a location and, when
// parentID names a folder, the items directly inside it. Items never attach
// to a location, so a nil parentID returns folders only.
func (s *Store) ListChildren(ctx context.Context, locationID string, parentID *string) ([]types.Folder, []types.Item, error) {
	if locationID == "" {
		return nil, nil, types.ErrInvalidID
	}

	var folders []types.Folder
	var items []types.Item
	err := s.read(func(db *sql.DB) error {
		query := "SELECT " + folderColumns + " FROM folders WHERE location_id = ? AND parent_id IS NULL ORDER BY name ASC"
		args := []any{locationID}
		if parentID != nil {
			query = "SELECT " + folderColumns + " FROM folders WHERE location_id = ? AND parent_id = ? ORDER BY name ASC"
			args = []any{locationID, *parentID}
		}

		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("listing folders: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			f, err := scanFolder(rows)
			if err != nil {
				return err
			}
			folders = append(folders, *f)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		if parentID == nil {
			return nil
		}

		items, err = queryItems(ctx, db,
			"SELECT "+itemColumns+" FROM items WHERE folder_id = ? ORDER BY name ASC", *parentID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return folders, items, nil
}

// checkParentFolder verifies the parent exists and lives in the same
// location. Both failure modes surface as ErrInvalidParent: a dangling
// parent reference is as invalid as a cross-location one.
func checkParentFolder(ctx context.Context, q querier, parentID, locationID string) error {
	var parentLoc string
	err := q.QueryRowContext(ctx,
		"SELECT location_id FROM folders WHERE folder_id = ?", parentID).Scan(&parentLoc)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("parent folder %s does not exist: %w", parentID, types.ErrInvalidParent)
	}
	if err != nil {
		return fmt.Errorf("checking parent folder: %w", err)
	}
	if parentLoc != locationID {
		return fmt.Errorf("parent folder %s belongs to location %s: %w", parentID, parentLoc, types.ErrInvalidParent)
	}
	return nil
}

// isAncestor reports whether ancestorID appears on candidateID's parent
// chain (or is candidateID itself). Iterative walk; a corrupted looping
// chain terminates as "yes" to stay safe.
func isAncestor(ctx context.Context, q querier, ancestorID, candidateID string) (bool, error) {
	cur := candidateID
	seen := make(map[string]struct{})
	for {
		if cur == ancestorID {
			return true, nil
		}
		if _, dup := seen[cur]; dup {
			return true, nil
		}
		seen[cur] = struct{}{}

		var parent sql.NullString
		err := q.QueryRowContext(ctx,
			"SELECT parent_id FROM folders WHERE folder_id = ?", cur).Scan(&parent)
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("walking ancestors: %w", err)
		}
		if !parent.Valid {
			return false, nil
		}
		cur = parent.String
	}
}

// collectFolderImages gathers every image path referenced by the folder
// subtree: folder covers plus item images at any depth.
func collectFolderImages(ctx context.Context, tx *sql.Tx, folderID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		WITH RECURSIVE subtree(folder_id) AS (
			SELECT folder_id FROM folders WHERE folder_id = ?
			UNION ALL
			SELECT f.folder_id FROM folders f JOIN subtree s ON f.parent_id = s.folder_id
		)
		SELECT cover_image_path FROM folders
			WHERE folder_id IN (SELECT folder_id FROM subtree) AND cover_image_path != ''
		UNION
		SELECT image_path FROM items
			WHERE folder_id IN (SELECT folder_id FROM subtree) AND image_path != ''`,
		folderID)
	if err != nil {
		return nil, fmt.Errorf("collecting folder images: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning image path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func scanFolder(row rowScanner) (*types.Folder, error) {
	var f types.Folder
	var parent sql.NullString
	var mapX, mapY sql.NullFloat64
	var createdAt, updatedAt string
	err := row.Scan(&f.ID, &f.LocationID, &parent, &f.Name, &f.Icon, &f.CoverImagePath,
		&f.EnableMapView, &mapX, &mapY, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning folder: %w", err)
	}
	f.ParentID = strPtr(parent)
	f.MapX = floatPtr(mapX)
	f.MapY = floatPtr(mapY)
	if f.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}
