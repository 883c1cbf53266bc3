package driven

import (
	"context"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
)

// VaultStore persists vault registrations.
type VaultStore interface {
	// Save stores or updates a vault.
	Save(ctx context.Context, vault domain.Vault) error

	// Get retrieves a vault by ID.
	Get(ctx context.Context, id string) (*domain.Vault, error)

	// Delete removes a vault registration.
	Delete(ctx context.Context, id string) error

	// List returns all registered vaults.
	List(ctx context.Context) ([]domain.Vault, error)
}
