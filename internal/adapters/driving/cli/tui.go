package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/haneul-labs/chaja-cli/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive picker",
	Long: `Launch the interactive picker for the vault.

Results update as you type; typo-tolerant Hangul matching applies the
same way as 'chaja search'. The selected document's path is printed on
exit, so the picker composes with other tools:

  $EDITOR "$(chaja tui)"

Controls:
  ↑/ctrl+k, ↓/ctrl+j - Navigate results
  Enter              - Select and exit
  Esc                - Quit without selecting`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// The picker owns the terminal; a pipe gets plain search instead.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the picker needs a terminal; use 'chaja search' for plain output")
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in picker: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	vault, session, err := openResolvedVault(cmd.Context())
	if err != nil {
		return err
	}
	defer session.Engine.Close()

	if err := session.Build(cmd.Context()); err != nil {
		return fmt.Errorf("index vault: %w", err)
	}

	model := tui.New(tui.Ports{
		Search: session.Search,
		Engine: session.Engine,
	}, vault.DisplayName()).WithContext(cmd.Context())

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}

	// The picked path goes to plain stdout after the alt screen closes,
	// so wrapping shells can capture it.
	if m, ok := final.(tui.Model); ok {
		if path := m.Selected(); path != "" {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
	}
	return nil
}
