package driving

import (
	"context"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
)

// VaultService manages vault registrations.
type VaultService interface {
	// Add registers a directory tree as a vault and returns it.
	Add(ctx context.Context, name, path string) (*domain.Vault, error)

	// Get retrieves a vault by ID.
	Get(ctx context.Context, id string) (*domain.Vault, error)

	// List returns all registered vaults.
	List(ctx context.Context) ([]domain.Vault, error)

	// Remove deletes a vault registration.
	Remove(ctx context.Context, id string) error
}
