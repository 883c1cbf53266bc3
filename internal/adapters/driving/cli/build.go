package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Index the vault",
	Long: `Scans the vault and builds the in-memory index once, reporting what
was found. Useful for checking a vault before searching it and for
warming the preview cache.`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	vault, session, err := openResolvedVault(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Engine.Close()

	cmd.Printf("Indexing %s...\n", vault.Path)
	start := time.Now()

	if err := session.Build(cmd.Context()); err != nil {
		return fmt.Errorf("index vault: %w", err)
	}

	cmd.Printf("Indexed %d documents in %s.\n",
		session.Engine.Count(), time.Since(start).Round(time.Millisecond))
	return nil
}
