package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage persists uploaded photo blobs keyed by their generated filename.
// Store must write durably before returning; Remove of an absent blob
// succeeds.
type Storage interface {
	Store(ctx context.Context, r io.Reader, originalName, contentType string) (string, error)
	Remove(ctx context.Context, filename string) error
	URLFor(filename string) string
}

// NewFilename generates a blob filename that keeps the original extension
// and is unique against concurrent uploads.
func NewFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("photo-%d-%s%s", time.Now().UnixNano(), suffix, ext)
}
