package driving

import (
	"context"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
)

// EngineService manages the lifecycle of the in-memory search index.
type EngineService interface {
	// Build replaces the index with the given document set.
	Build(ctx context.Context, refs []domain.DocumentRef) error

	// Add indexes a new document. Re-adding an indexed path is an error.
	Add(ctx context.Context, ref domain.DocumentRef) error

	// Update re-indexes an existing document after a content change.
	Update(ctx context.Context, ref domain.DocumentRef) error

	// Remove drops a document from the index by path.
	Remove(ctx context.Context, path string) error

	// Rename moves a document to a new path, preserving cached content.
	Rename(ctx context.Context, oldPath string, ref domain.DocumentRef) error

	// Apply routes a watcher change to Add, Update, Remove or Rename.
	Apply(ctx context.Context, change domain.DocumentChange) error

	// Count returns the number of indexed documents.
	Count() int

	// Clear drops every indexed document.
	Clear(ctx context.Context) error

	// Settings returns the engine's current settings.
	Settings() domain.Settings

	// SetThreshold adjusts match strictness without rebuilding.
	SetThreshold(threshold float64) error

	// Close releases engine resources.
	Close() error
}
