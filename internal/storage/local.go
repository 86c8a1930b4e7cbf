package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Local stores blobs as files in a single flat directory.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Store(ctx context.Context, r io.Reader, originalName, contentType string) (string, error) {
	filename := NewFilename(originalName)
	path := filepath.Join(l.dir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create blob file: %w", err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := dst.Sync(); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("sync blob: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close blob: %w", err)
	}
	return filename, nil
}

func (l *Local) Remove(ctx context.Context, filename string) error {
	path, err := l.Path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

func (l *Local) URLFor(filename string) string {
	return "/uploads/" + filename
}

// Path resolves a filename to its on-disk location, rejecting anything
// that would escape the upload directory.
func (l *Local) Path(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	return filepath.Join(l.dir, filename), nil
}
