// Package store implements the packrat data engine on an embedded SQLite
// database: the location/folder/item hierarchy, tag associations, substring
// search, packing lists, and the queries the backup codec and notification
// scheduler consume.
//
// The store is a process-wide singleton by convention: one database file, one
// image directory, single writer. Every mutation runs inside one transaction;
// a concurrent reader never observes a half-applied cascade. After a commit
// the store publishes the touched table names on its change bus so live
// queries can re-evaluate.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/packrat-app/packrat/internal/imagestore"
	"github.com/packrat-app/packrat/internal/live"
	"github.com/packrat-app/packrat/pkg/types"
)

// dbFileName is the SQLite database file inside the data directory.
const dbFileName = "packrat.db"

// Store is the data engine handle. Construct with Open, pass explicitly,
// close once.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	bus    *live.Bus
	images imagestore.Store
	closed bool
}

// Open opens (creating if necessary) the database under dataDir, applies
// pending migrations, and returns a ready store. images receives the
// best-effort file cleanups that cascade deletes produce.
func Open(dataDir string, images imagestore.Store) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		filepath.Join(dataDir, dbFileName))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{
		db:     db,
		bus:    live.NewBus(),
		images: images,
	}, nil
}

// Bus returns the change-notification bus for live queries.
func (s *Store) Bus() *live.Bus {
	return s.bus
}

// Images returns the image store the engine cleans up against.
func (s *Store) Images() imagestore.Store {
	return s.images
}

// Close releases the database handle. Idempotent; operations after Close
// return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// write runs fn inside a single transaction under the writer lock and, on
// commit, publishes the given tables on the bus.
func (s *Store) write(ctx context.Context, tables []string, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.bus.Publish(tables...)
	return nil
}

// read runs fn under the reader lock. WAL mode gives each query a consistent
// snapshot without an explicit transaction.
func (s *Store) read(fn func(db *sql.DB) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.ErrClosed
	}
	return fn(s.db)
}

// cleanupImages deletes image files orphaned by a committed metadata delete.
// Failures are downgraded to warnings: metadata is the source of truth and an
// orphaned file is recoverable garbage.
func (s *Store) cleanupImages(ctx context.Context, relPaths []string) {
	if s.images == nil {
		return
	}
	for _, rel := range relPaths {
		if rel == "" {
			continue
		}
		if err := s.images.Delete(ctx, rel); err != nil {
			slog.Warn("image cleanup failed", "path", rel, "error", err)
		}
	}
}

// newID generates a UUID v7 entity id.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fall back to v4 if the clock source misbehaves.
		return uuid.New().String()
	}
	return id.String()
}

// now returns the current UTC time at second precision, the resolution the
// schema stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// Null helpers: the schema keeps optional references and instants as NULL
// rather than sentinel values.

func nullStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

func nullInt(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func intPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
