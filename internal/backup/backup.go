// Package backup implements the archive codec: one zip file holding a
// versioned JSON document with every row of every table, plus the image files
// those rows reference. An archive is the authoritative, complete snapshot;
// importing one replaces the current data set entirely.
package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/packrat-app/packrat/internal/imagestore"
	"github.com/packrat-app/packrat/internal/store"
	"github.com/packrat-app/packrat/pkg/types"
)

// CurrentVersion is the only archive schema version this build reads or
// writes. Readers reject anything else rather than guess.
const CurrentVersion = 1

// documentName is the structured-data entry inside the archive.
const documentName = "packrat.json"

// imagePrefix is the archive directory holding bundled image files.
const imagePrefix = "images/"

// Document is the structured-data entry: the schema version plus the full
// row set.
type Document struct {
	Version int `json:"version"`
	types.Snapshot
}

// Export reads the whole data graph and writes a version-1 archive to w.
// Image paths whose backing file has gone missing are dropped from the bundle
// with a warning; the metadata keeps the stale reference.
func Export(ctx context.Context, st *store.Store, images imagestore.Store, w io.Writer) error {
	snap, err := st.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}

	zw := zip.NewWriter(w)

	doc := Document{Version: CurrentVersion, Snapshot: *snap}
	entry, err := zw.Create(documentName)
	if err != nil {
		return fmt.Errorf("creating document entry: %w", err)
	}
	enc := json.NewEncoder(entry)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	for _, rel := range snap.ImagePaths() {
		if !images.Exists(rel) {
			slog.Warn("skipping missing image during export", "path", rel)
			continue
		}
		if err := bundleImage(ctx, zw, images, rel); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return nil
}

// ExportFile writes the archive to a file path.
func ExportFile(ctx context.Context, st *store.Store, images imagestore.Store, archivePath string) error {
	f, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}
	if err := Export(ctx, st, images, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Import replaces the entire data set with the archive's contents. The
// version tag is checked before anything is touched; the wipe and re-insert
// run in one transaction, and the image directory is swapped only after that
// transaction commits, so any failure leaves the prior rows and images
// intact. The caller must hold exclusive access for the duration.
func Import(ctx context.Context, st *store.Store, images imagestore.Store, r io.ReaderAt, size int64) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}

	doc, err := readDocument(zr)
	if err != nil {
		return err
	}
	if doc.Version != CurrentVersion {
		return fmt.Errorf("archive version %d: %w", doc.Version, types.ErrUnsupportedVersion)
	}

	staging, err := os.MkdirTemp("", "packrat-import-*")
	if err != nil {
		return fmt.Errorf("creating staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := extractImages(zr, staging); err != nil {
		return err
	}

	if err := st.Restore(ctx, &doc.Snapshot); err != nil {
		return fmt.Errorf("restoring rows: %w", err)
	}

	if err := images.ReplaceAll(ctx, staging); err != nil {
		return fmt.Errorf("replacing image store: %w", err)
	}
	return nil
}

// ImportFile imports the archive at the given path.
func ImportFile(ctx context.Context, st *store.Store, images imagestore.Store, archivePath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("statting archive file: %w", err)
	}
	return Import(ctx, st, images, f, info.Size())
}

func readDocument(zr *zip.Reader) (*Document, error) {
	for _, f := range zr.File {
		if f.Name != documentName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening document entry: %w", err)
		}
		defer rc.Close()

		var doc Document
		if err := json.NewDecoder(rc).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		return &doc, nil
	}
	return nil, fmt.Errorf("archive has no %s entry: %w", documentName, types.ErrUnsupportedVersion)
}

func bundleImage(ctx context.Context, zw *zip.Writer, images imagestore.Store, rel string) error {
	rc, err := images.Open(ctx, rel)
	if err != nil {
		return fmt.Errorf("opening image %s: %w", rel, err)
	}
	defer rc.Close()

	entry, err := zw.Create(rel)
	if err != nil {
		return fmt.Errorf("creating image entry %s: %w", rel, err)
	}
	if _, err := io.Copy(entry, rc); err != nil {
		return fmt.Errorf("bundling image %s: %w", rel, err)
	}
	return nil
}

func extractImages(zr *zip.Reader, staging string) error {
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, imagePrefix) || strings.HasSuffix(f.Name, "/") {
			continue
		}
		// Flatten to the base name; archives address images one level deep.
		dst := filepath.Join(staging, path.Base(f.Name))

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening archive entry %s: %w", f.Name, err)
		}
		out, err := os.Create(dst)
		if err != nil {
			rc.Close()
			return fmt.Errorf("creating staged image %s: %w", dst, err)
		}
		if _, err := io.Copy(out, rc); err != nil {
			out.Close()
			rc.Close()
			return fmt.Errorf("staging image %s: %w", f.Name, err)
		}
		if err := out.Close(); err != nil {
			rc.Close()
			return fmt.Errorf("closing staged image %s: %w", dst, err)
		}
		rc.Close()
	}
	return nil
}
