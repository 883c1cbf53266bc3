package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driven"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driving"
	"github.com/haneul-labs/chaja-cli/internal/logger"
)

// version is stamped by Execute; "dev" outside release builds.
var version = "dev"

// Global flags.
var (
	verbose   bool
	vaultFlag string
)

// Services wired in by the composition root.
var (
	vaultService    driving.VaultService
	settingsService driving.SettingsService
	openVault       OpenVaultFunc
)

// Session bundles the per-vault services a command drives. The engine
// index lives in memory, so every command opens its vault, builds and
// then works against the session.
type Session struct {
	// Engine manages the vault's in-memory index.
	Engine driving.EngineService

	// Search queries the vault.
	Search driving.SearchService

	// Build scans the vault and (re)builds the index.
	Build func(ctx context.Context) error

	// NewWatcher opens a change watcher over the vault.
	NewWatcher func() (driven.ChangeWatcher, error)
}

// OpenVaultFunc assembles the per-vault services for the given root.
type OpenVaultFunc func(ctx context.Context, root string) (*Session, error)

// Services groups everything the command tree depends on.
type Services struct {
	Vaults    driving.VaultService
	Settings  driving.SettingsService
	OpenVault OpenVaultFunc
}

// SetServices wires service implementations into the command tree.
// Must be called before Execute.
func SetServices(s Services) {
	vaultService = s.Vaults
	settingsService = s.Settings
	openVault = s.OpenVault
}

var rootCmd = &cobra.Command{
	Use:   "chaja",
	Short: "Typo-tolerant search for your notes",
	Long: `Chaja finds notes even when the query is misspelled mid-keystroke.

It understands Hangul syllable composition, so partially typed blocks,
initial-consonant shorthand (ㅊㅈ) and in-syllable typos all land on the
documents you meant. Register a directory as a vault, then search it:

  chaja vault add ~/notes
  chaja search 회의록
  chaja search ㅎㅇㄹ`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&vaultFlag, "vault", "",
		"vault to operate on, by ID, name or path (defaults to the first registered vault)")
}

// Execute runs the root command with the given build version.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// resolveVault picks the vault a command operates on: the --vault flag
// matched against ID, name or path, or the first registered vault when
// the flag is unset. An unregistered directory path is accepted as an
// ad hoc vault.
func resolveVault(ctx context.Context) (*domain.Vault, error) {
	if vaultService == nil {
		return nil, errors.New("vault service not configured")
	}

	vaults, err := vaultService.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vaults: %w", err)
	}

	if vaultFlag == "" {
		if len(vaults) == 0 {
			return nil, errors.New("no vaults registered; run 'chaja vault add <path>' first")
		}
		return &vaults[0], nil
	}

	for i := range vaults {
		v := &vaults[i]
		if v.ID == vaultFlag || v.Name == vaultFlag || v.Path == vaultFlag {
			return v, nil
		}
	}

	if abs, absErr := filepath.Abs(vaultFlag); absErr == nil {
		if info, statErr := os.Stat(abs); statErr == nil && info.IsDir() {
			return &domain.Vault{ID: "adhoc", Path: abs}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrVaultNotFound, vaultFlag)
}

// openResolvedVault resolves the target vault and opens a session on it.
func openResolvedVault(ctx context.Context) (*domain.Vault, *Session, error) {
	if openVault == nil {
		return nil, nil, errors.New("vault opener not configured")
	}

	vault, err := resolveVault(ctx)
	if err != nil {
		return nil, nil, err
	}

	session, err := openVault(ctx, vault.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open vault %s: %w", vault.DisplayName(), err)
	}
	return vault, session, nil
}
