package domain

import (
	"strings"
	"time"
)

// Vault is a registered directory tree that the engine indexes and
// watches. Vaults are persisted in configuration and addressed by ID.
type Vault struct {
	// ID uniquely identifies the vault.
	ID string

	// Name is the user-facing label.
	Name string

	// Path is the absolute root of the directory tree.
	Path string

	// AddedAt records when the vault was registered.
	AddedAt time.Time
}

// DisplayName returns the vault's label, falling back to the last path
// element when no name was given.
func (v Vault) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	trimmed := strings.TrimRight(v.Path, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// Validate checks that the vault has the required fields.
func (v Vault) Validate() error {
	if v.ID == "" {
		return ErrInvalidVaultID
	}
	if v.Path == "" {
		return ErrInvalidVaultPath
	}
	return nil
}
