package file

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driven"
	"github.com/haneul-labs/chaja-cli/internal/logger"
)

// Ensure VaultStore implements the interface.
var _ driven.VaultStore = (*VaultStore)(nil)

// keyVaults is the config key the vault records live under.
const keyVaults = "vaults"

// vaultRecord is the TOML shape of a registered vault.
type vaultRecord struct {
	ID      string    `toml:"id"`
	Name    string    `toml:"name,omitempty"`
	Path    string    `toml:"path"`
	AddedAt time.Time `toml:"added_at"`
}

// VaultStore persists vault registrations through the shared config
// store, as an array of tables under the "vaults" key. Settings and
// vaults land in the same config.toml.
type VaultStore struct {
	mu     sync.RWMutex
	cfg    *ConfigStore
	vaults map[string]domain.Vault
}

// NewVaultStore creates a vault store backed by the given config store.
// Existing records are loaded eagerly; malformed entries are skipped
// with a warning rather than blocking startup.
func NewVaultStore(cfg *ConfigStore) (*VaultStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config store is required", domain.ErrInvalidInput)
	}

	s := &VaultStore{
		cfg:    cfg,
		vaults: make(map[string]domain.Vault),
	}

	raw, ok := cfg.Get(keyVaults)
	if !ok {
		return s, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an array of tables", domain.ErrInvalidInput, keyVaults)
	}

	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			logger.Warn("Skipping malformed vault entry in %s", cfg.Path())
			continue
		}
		vault := decodeVault(fields)
		if err := vault.Validate(); err != nil {
			logger.Warn("Skipping invalid vault entry in %s: %v", cfg.Path(), err)
			continue
		}
		s.vaults[vault.ID] = vault
	}

	return s, nil
}

// Save stores or updates a vault.
func (s *VaultStore) Save(_ context.Context, vault domain.Vault) error {
	if err := vault.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.vaults[vault.ID] = vault
	return s.persist()
}

// Get retrieves a vault by ID.
func (s *VaultStore) Get(_ context.Context, id string) (*domain.Vault, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vault, ok := s.vaults[id]
	if !ok {
		return nil, domain.ErrVaultNotFound
	}
	return &vault, nil
}

// Delete removes a vault registration.
func (s *VaultStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vaults[id]; !ok {
		return domain.ErrVaultNotFound
	}
	delete(s.vaults, id)
	return s.persist()
}

// List returns all registered vaults, oldest registration first.
func (s *VaultStore) List(_ context.Context) ([]domain.Vault, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(), nil
}

// persist writes the current records through the config store (caller
// must hold lock).
func (s *VaultStore) persist() error {
	vaults := s.sorted()
	records := make([]vaultRecord, 0, len(vaults))
	for _, v := range vaults {
		records = append(records, vaultRecord{
			ID:      v.ID,
			Name:    v.Name,
			Path:    v.Path,
			AddedAt: v.AddedAt,
		})
	}
	return s.cfg.Set(keyVaults, records)
}

// sorted returns the vaults ordered by registration time, with the ID
// as a tiebreak so the order is stable (caller must hold lock).
func (s *VaultStore) sorted() []domain.Vault {
	result := make([]domain.Vault, 0, len(s.vaults))
	for _, vault := range s.vaults {
		result = append(result, vault)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].AddedAt.Equal(result[j].AddedAt) {
			return result[i].AddedAt.Before(result[j].AddedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// decodeVault reads one vault out of an unmarshalled TOML table.
func decodeVault(fields map[string]any) domain.Vault {
	vault := domain.Vault{}
	if id, ok := fields["id"].(string); ok {
		vault.ID = id
	}
	if name, ok := fields["name"].(string); ok {
		vault.Name = name
	}
	if path, ok := fields["path"].(string); ok {
		vault.Path = path
	}
	if added, ok := fields["added_at"].(time.Time); ok {
		vault.AddedAt = added
	}
	return vault
}
