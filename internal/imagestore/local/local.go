// Package local implements the image store on a plain local directory.
package local

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// relPrefix is the path component under which images are addressed in
// metadata and backup archives.
const relPrefix = "images"

// Store keeps every image as one file directly under baseDir.
type Store struct {
	baseDir string
}

// New creates the backing directory if needed and returns a store rooted there.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// Save writes the image under a fresh UUID name and returns its relative path.
func (s *Store) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	name := uuid.Must(uuid.NewV7()).String() + normalizeExt(ext)
	filePath := filepath.Join(s.baseDir, name)

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("creating image file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("closing image file after write error", "error", cerr)
		}
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Warn("removing image file after write error", "error", rerr)
		}
		return "", fmt.Errorf("writing image file: %w", err)
	}
	if err := f.Close(); err != nil {
		if rerr := os.Remove(filePath); rerr != nil {
			slog.Warn("removing image file after close error", "error", rerr)
		}
		return "", fmt.Errorf("closing image file: %w", err)
	}
	return path.Join(relPrefix, name), nil
}

// Open resolves a relative path to its file bytes.
func (s *Store) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	filePath, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening image %s: %w", relPath, err)
	}
	return f, nil
}

// Delete removes the backing file. A missing file is a silent no-op.
func (s *Store) Delete(ctx context.Context, relPath string) error {
	filePath, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting image %s: %w", relPath, err)
	}
	return nil
}

// Exists reports whether the backing file is present.
func (s *Store) Exists(relPath string) bool {
	filePath, err := s.resolve(relPath)
	if err != nil {
		return false
	}
	info, err := os.Stat(filePath)
	return err == nil && !info.IsDir()
}

// List returns the relative paths of every stored image.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("listing image directory: %w", err)
	}
	var rels []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		rels = append(rels, path.Join(relPrefix, e.Name()))
	}
	return rels, nil
}

// ReplaceAll swaps the store contents for the files staged in srcDir. The old
// directory is removed first; images absent from srcDir do not survive.
func (s *Store) ReplaceAll(ctx context.Context, srcDir string) error {
	if err := os.RemoveAll(s.baseDir); err != nil {
		return fmt.Errorf("clearing image directory: %w", err)
	}
	if err := os.Rename(srcDir, s.baseDir); err == nil {
		return nil
	}
	// Rename can fail across filesystems; fall back to copying.
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("recreating image directory: %w", err)
	}
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("reading staged images: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := copyFile(filepath.Join(srcDir, e.Name()), filepath.Join(s.baseDir, e.Name())); err != nil {
			return err
		}
	}
	return os.RemoveAll(srcDir)
}

// resolve maps a relative path to a file under baseDir, rejecting traversal.
func (s *Store) resolve(relPath string) (string, error) {
	name := strings.TrimPrefix(path.Clean(relPath), relPrefix+"/")
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid image path %q", relPath)
	}
	return filepath.Join(s.baseDir, name), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	return out.Close()
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	switch ext {
	case ".png", ".gif", ".webp", ".jpeg", ".jpg":
		return ext
	default:
		return ".jpg"
	}
}
