package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/packrat-app/packrat/pkg/types"
)

const locationColumns = "location_id, name, icon, cover_image_path, created_at, updated_at"

// CreateLocation creates a new top-level container.
func (s *Store) CreateLocation(ctx context.Context, name, icon, coverImagePath string) (*types.Location, error) {
	if name == "" {
		return nil, types.ErrInvalidName
	}

	loc := &types.Location{
		ID:             newID(),
		Name:           name,
		Icon:           icon,
		CoverImagePath: coverImagePath,
		CreatedAt:      now(),
		UpdatedAt:      now(),
	}

	err := s.write(ctx, []string{TableLocations}, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO locations (location_id, name, icon, cover_image_path, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			loc.ID, loc.Name, loc.Icon, loc.CoverImagePath,
			fmtTime(loc.CreatedAt), fmtTime(loc.UpdatedAt))
		if err != nil {
			return fmt.Errorf("inserting location: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// GetLocation returns the location with the given id.
func (s *Store) GetLocation(ctx context.Context, id string) (*types.Location, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	var loc *types.Location
	err := s.read(func(db *sql.DB) error {
		var err error
		loc, err = scanLocation(db.QueryRowContext(ctx,
			"SELECT "+locationColumns+" FROM locations WHERE location_id = ?", id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// ListLocations returns every location ordered by name.
func (s *Store) ListLocations(ctx context.Context) ([]types.Location, error) {
	var locs []types.Location
	err := s.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			"SELECT "+locationColumns+" FROM locations ORDER BY name ASC")
		if err != nil {
			return fmt.Errorf("listing locations: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			loc, err := scanLocation(rows)
			if err != nil {
				return err
			}
			locs = append(locs, *loc)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return locs, nil
}

// UpdateLocation replaces the stored record and refreshes updated_at.
func (s *Store) UpdateLocation(ctx context.Context, loc *types.Location) error {
	if loc.ID == "" {
		return types.ErrInvalidID
	}
	if loc.Name == "" {
		return types.ErrInvalidName
	}

	loc.UpdatedAt = now()
	return s.write(ctx, []string{TableLocations}, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE locations SET name = ?, icon = ?, cover_image_path = ?, updated_at = ?
			 WHERE location_id = ?`,
			loc.Name, loc.Icon, loc.CoverImagePath, fmtTime(loc.UpdatedAt), loc.ID)
		if err != nil {
			return fmt.Errorf("updating location: %w", err)
		}
		return requireRow(res, "location")
	})
}

// DeleteLocation removes the location and, by cascade, every folder and item
// beneath it. Image files referenced anywhere in the subtree are deleted
// best-effort after the transaction commits.
func (s *Store) DeleteLocation(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	var orphans []string
	err := s.write(ctx, []string{TableLocations, TableFolders, TableItems, TableItemTags}, func(tx *sql.Tx) error {
		var err error
		orphans, err = collectLocationImages(ctx, tx, id)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM locations WHERE location_id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting location: %w", err)
		}
		return requireRow(res, "location")
	})
	if err != nil {
		return err
	}

	s.cleanupImages(ctx, orphans)
	return nil
}

// SummarizeLocation counts every folder at any depth under the location and
// every item inside those folders. The counts are recomputed from the live
// tree on each call, never kept as denormalized counters.
func (s *Store) SummarizeLocation(ctx context.Context, id string) (*types.LocationSummary, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	sum := &types.LocationSummary{}
	err := s.read(func(db *sql.DB) error {
		var exists int
		if err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM locations WHERE location_id = ?", id).Scan(&exists); err != nil {
			return fmt.Errorf("checking location: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("location %s: %w", id, types.ErrNotFound)
		}

		err := db.QueryRowContext(ctx, `
			WITH RECURSIVE subtree(folder_id) AS (
				SELECT folder_id FROM folders WHERE location_id = ? AND parent_id IS NULL
				UNION ALL
				SELECT f.folder_id FROM folders f JOIN subtree s ON f.parent_id = s.folder_id
			)
			SELECT
				(SELECT COUNT(*) FROM subtree),
				(SELECT COUNT(*) FROM items WHERE folder_id IN (SELECT folder_id FROM subtree))`,
			id).Scan(&sum.FolderCount, &sum.ItemCount)
		if err != nil {
			return fmt.Errorf("summarizing location: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

// collectLocationImages gathers every image path referenced by the location
// cover, folder covers, and item images in its subtree. Called before the
// cascading delete so the paths survive for post-commit cleanup.
func collectLocationImages(ctx context.Context, tx *sql.Tx, locationID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT cover_image_path FROM locations WHERE location_id = ?1 AND cover_image_path != ''
		UNION
		SELECT cover_image_path FROM folders WHERE location_id = ?1 AND cover_image_path != ''
		UNION
		SELECT i.image_path FROM items i
			JOIN folders f ON f.folder_id = i.folder_id
			WHERE f.location_id = ?1 AND i.image_path != ''`,
		locationID)
	if err != nil {
		return nil, fmt.Errorf("collecting location images: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (*types.Location, error) {
	var loc types.Location
	var createdAt, updatedAt string
	err := row.Scan(&loc.ID, &loc.Name, &loc.Icon, &loc.CoverImagePath, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning location: %w", err)
	}
	if loc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if loc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &loc, nil
}

// requireRow converts a zero-row write into ErrNotFound.
func requireRow(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, types.ErrNotFound)
	}
	return nil
}
