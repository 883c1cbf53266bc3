package driven

import (
	"context"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
)

// DocumentProvider enumerates and reads the documents of a single vault.
// The filesystem connector is the canonical implementation.
type DocumentProvider interface {
	// Root returns the absolute root path of the vault.
	Root() string

	// Validate checks the vault is ready to scan.
	// For filesystem vaults this checks the root exists and is readable.
	// Returns nil if ready, error describing the problem otherwise.
	Validate(ctx context.Context) error

	// ListAll streams metadata for every document under the root.
	// Returns channels for refs and errors. Both close when the walk
	// finishes or ctx is cancelled.
	ListAll(ctx context.Context) (<-chan domain.DocumentRef, <-chan error)

	// ReadContent returns the full content of the document at path.
	ReadContent(ctx context.Context, path string) (string, error)
}

// ChangeWatcher pushes live document changes from a vault.
type ChangeWatcher interface {
	// Watch listens for changes until ctx is cancelled or Close is called.
	// The returned channel closes when watching stops.
	Watch(ctx context.Context) (<-chan domain.DocumentChange, error)

	// Close releases resources. Watch channels close shortly after.
	Close() error
}
