// Package imagestore defines the contract between the data engine and the
// image file store. Metadata rows reference images by relative path
// (e.g. "images/<uuid>.jpg"); the store maps those paths to bytes on disk.
package imagestore

import (
	"context"
	"io"
)

// Store is the image store contract. Delete is idempotent: removing a path
// whose backing file is already gone is a silent no-op.
type Store interface {
	// Save writes the image bytes and returns the relative path to record
	// in metadata. ext is the file extension including the dot; an empty
	// ext defaults to ".jpg".
	Save(ctx context.Context, ext string, r io.Reader) (string, error)

	// Open resolves a relative path to its file bytes.
	Open(ctx context.Context, relPath string) (io.ReadCloser, error)

	// Delete removes the backing file. Missing files are not an error.
	Delete(ctx context.Context, relPath string) error

	// Exists reports whether the backing file is present.
	Exists(relPath string) bool

	// List returns the relative paths of every stored image.
	List(ctx context.Context) ([]string, error)

	// ReplaceAll swaps the entire store contents for the files staged in
	// srcDir. Images not present in srcDir are removed.
	ReplaceAll(ctx context.Context, srcDir string) error
}
