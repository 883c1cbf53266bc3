package driven

import (
	"context"
	"time"
)

// ContentCache persists document content previews across runs so that
// hydration survives restarts without re-reading every file.
// Entries are keyed by path and invalidated by modification time.
type ContentCache interface {
	// Get returns the cached preview for path if one exists and its
	// stored modification time matches modifiedAt.
	Get(ctx context.Context, path string, modifiedAt time.Time) (string, bool, error)

	// Put stores or replaces the preview for path.
	Put(ctx context.Context, path string, modifiedAt time.Time, preview string) error

	// Delete removes the entry for path. Missing entries are not an error.
	Delete(ctx context.Context, path string) error

	// Rename moves an entry to a new path, preserving its preview.
	Rename(ctx context.Context, oldPath, newPath string) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Close releases the underlying storage.
	Close() error
}
