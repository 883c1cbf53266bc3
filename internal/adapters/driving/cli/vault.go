package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
)

var vaultName string

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage vaults",
	Long:  `Register, list and remove the directory trees chaja searches.`,
}

var vaultAddCmd = &cobra.Command{
	Use:   "add [path]",
	Short: "Register a directory as a vault",
	Long: `Registers a directory tree as a vault. The path is stored as an
absolute path; registering the same directory twice is an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runVaultAdd,
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered vaults",
	RunE:  runVaultList,
}

var vaultRemoveCmd = &cobra.Command{
	Use:   "remove [vault]",
	Short: "Remove a vault registration",
	Long: `Removes a vault registration by ID, name or path. The files
themselves are not touched; only the registration goes away.`,
	Args: cobra.ExactArgs(1),
	RunE: runVaultRemove,
}

func init() {
	vaultAddCmd.Flags().StringVar(&vaultName, "name", "", "display name for the vault")
	vaultCmd.AddCommand(vaultAddCmd)
	vaultCmd.AddCommand(vaultListCmd)
	vaultCmd.AddCommand(vaultRemoveCmd)
	rootCmd.AddCommand(vaultCmd)
}

func runVaultAdd(cmd *cobra.Command, args []string) error {
	if vaultService == nil {
		return errors.New("vault service not configured")
	}

	vault, err := vaultService.Add(cmd.Context(), vaultName, args[0])
	if err != nil {
		return fmt.Errorf("add vault: %w", err)
	}

	cmd.Printf("Registered vault %s\n", vault.DisplayName())
	cmd.Printf("  ID:   %s\n", vault.ID)
	cmd.Printf("  Path: %s\n", vault.Path)
	return nil
}

func runVaultList(cmd *cobra.Command, _ []string) error {
	if vaultService == nil {
		return errors.New("vault service not configured")
	}

	vaults, err := vaultService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list vaults: %w", err)
	}

	if len(vaults) == 0 {
		cmd.Println("No vaults registered. Run 'chaja vault add <path>' to add one.")
		return nil
	}

	for i := range vaults {
		v := &vaults[i]
		cmd.Printf("  %s\n", v.DisplayName())
		cmd.Printf("    ID:    %s\n", v.ID)
		cmd.Printf("    Path:  %s\n", v.Path)
		cmd.Printf("    Added: %s\n", v.AddedAt.Format("2006-01-02"))
		cmd.Println()
	}
	return nil
}

func runVaultRemove(cmd *cobra.Command, args []string) error {
	if vaultService == nil {
		return errors.New("vault service not configured")
	}

	vault, err := findVault(cmd, args[0])
	if err != nil {
		return err
	}

	if err := vaultService.Remove(cmd.Context(), vault.ID); err != nil {
		return fmt.Errorf("remove vault: %w", err)
	}

	cmd.Printf("Removed vault %s.\n", vault.DisplayName())
	return nil
}

// findVault matches a user-supplied identifier against ID, name and
// path of the registered vaults.
func findVault(cmd *cobra.Command, key string) (*domain.Vault, error) {
	vaults, err := vaultService.List(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("list vaults: %w", err)
	}

	for i := range vaults {
		v := &vaults[i]
		if v.ID == key || v.Name == key || v.Path == key {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrVaultNotFound, key)
}
