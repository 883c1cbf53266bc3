package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haneul-labs/chaja-cli/internal/connectors/filesystem"
	"github.com/haneul-labs/chaja-cli/internal/core/domain"
	"github.com/haneul-labs/chaja-cli/internal/preview"
)

// snippetLength caps the preview line shown under each result.
const snippetLength = 80

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the vault",
	Long: `Searches the vault with every strategy the query allows.
Hangul queries match through composed text, decomposed jamo and
initial-consonant shorthand, so mid-keystroke and in-syllable typos
still find their documents.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0,
		"maximum number of results (0 uses the configured limit)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	vault, session, err := openResolvedVault(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Engine.Close()

	if err := session.Build(cmd.Context()); err != nil {
		return fmt.Errorf("index vault: %w", err)
	}

	opts := domain.SearchOptions{
		Limit: searchLimit,
	}
	results, err := session.Search.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, vault.Path, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, root string, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s (%.2f, %s)\n", i+1, r.Ref.Name, r.Score, r.Strategy)
		cmd.Printf("      %s\n", filesystem.DisplayPath(root, r.Ref.Path))
		if snippet := firstLine(r.Preview); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	return nil
}

// firstLine reduces a preview to a single display line.
func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	return preview.Truncate(s, snippetLength)
}
