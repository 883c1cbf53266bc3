package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driven"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driving"
)

// Ensure VaultService implements the interface.
var _ driving.VaultService = (*VaultService)(nil)

// VaultService manages vault registrations.
type VaultService struct {
	vaultStore driven.VaultStore
}

// NewVaultService creates a new vault service.
func NewVaultService(vaultStore driven.VaultStore) *VaultService {
	return &VaultService{vaultStore: vaultStore}
}

// Add registers a directory tree as a vault and returns it.
// The path is normalised to an absolute path; registering the same
// path twice is an error.
func (s *VaultService) Add(ctx context.Context, name, path string) (*domain.Vault, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: vault path is required", domain.ErrInvalidInput)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve vault path: %w", err)
	}

	existing, err := s.vaultStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vaults: %w", err)
	}
	for i := range existing {
		if existing[i].Path == abs {
			return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyExists, abs)
		}
	}

	vault := domain.Vault{
		ID:      uuid.New().String(),
		Name:    name,
		Path:    abs,
		AddedAt: time.Now().UTC(),
	}
	if err := vault.Validate(); err != nil {
		return nil, err
	}
	if err := s.vaultStore.Save(ctx, vault); err != nil {
		return nil, fmt.Errorf("save vault: %w", err)
	}

	return &vault, nil
}

// Get retrieves a vault by ID.
func (s *VaultService) Get(ctx context.Context, id string) (*domain.Vault, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: vault ID is required", domain.ErrInvalidInput)
	}
	return s.vaultStore.Get(ctx, id)
}

// List returns all registered vaults.
func (s *VaultService) List(ctx context.Context) ([]domain.Vault, error) {
	return s.vaultStore.List(ctx)
}

// Remove deletes a vault registration. Indexed data lives in memory
// and disappears with the process; only the registration is persistent.
func (s *VaultService) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: vault ID is required", domain.ErrInvalidInput)
	}
	if _, err := s.vaultStore.Get(ctx, id); err != nil {
		return err
	}
	return s.vaultStore.Delete(ctx, id)
}
