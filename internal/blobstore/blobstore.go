// Package blobstore stores uploaded claim documents on the local
// filesystem. The store has no transaction concept of its own: the
// claims service reconciles it with the database by deleting blobs it
// stored whenever the surrounding database transaction fails.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore is the interface the claims service depends on. Delete is
// best-effort: removing a blob that is already gone is not an error.
type BlobStore interface {
	Store(ctx context.Context, dir, name string, r io.Reader) (int64, error)
	Delete(dir, name string) error
	Open(dir, name string) (io.ReadCloser, error)
}

// DiskStore keeps blobs under a single root directory, in the relative
// subdirectories the caller names (e.g. claims/2026/08).
type DiskStore struct {
	root string
}

// New creates a DiskStore rooted at root, creating the directory if it
// does not exist.
func New(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create upload root %s: %w", root, err)
	}
	return &DiskStore{root: root}, nil
}

// Store writes the reader's content under dir/name. The write goes to a
// temp file first and is renamed into place, so a partially written
// blob is never visible under its final name.
func (s *DiskStore) Store(ctx context.Context, dir, name string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	fullDir := filepath.Join(s.root, filepath.FromSlash(dir))
	if err := os.MkdirAll(fullDir, 0o750); err != nil {
		return 0, fmt.Errorf("create upload dir %s: %w", dir, err)
	}

	fullPath := filepath.Join(fullDir, name)
	tmpPath := fullPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("write blob %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("sync blob %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("close blob %s: %w", name, err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("rename blob %s: %w", name, err)
	}
	return size, nil
}

// Delete removes dir/name from disk. A blob that no longer exists is
// treated as already deleted.
func (s *DiskStore) Delete(dir, name string) error {
	fullPath := filepath.Join(s.root, filepath.FromSlash(dir), name)
	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", name, err)
	}
	return nil
}

// Open opens dir/name for reading. The caller must close the returned
// ReadCloser.
func (s *DiskStore) Open(dir, name string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.root, filepath.FromSlash(dir), name)
	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob not found: %s", name)
		}
		return nil, fmt.Errorf("open blob %s: %w", name, err)
	}
	return f, nil
}

// GeneratedName returns a fresh collision-resistant storage name that
// keeps the original file's extension.
func GeneratedName(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return uuid.New().String() + ext
}
