package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/haneul-labs/chaja-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and keep the index live",
	Long: `Builds the index, then applies filesystem changes to it as they
happen. Renamed documents keep their cached previews; a rename whose
other half never arrives degrades to a deletion after a short window.

Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vault, session, err := openResolvedVault(ctx)
	if err != nil {
		return err
	}
	defer session.Engine.Close()

	watcher, err := session.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Start watching before the initial scan so edits made while it
	// runs are not lost.
	changes, err := watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch vault: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := session.Build(gctx); err != nil {
			return fmt.Errorf("index vault: %w", err)
		}
		cmd.Printf("Watching %s (%d documents). Press Ctrl+C to stop.\n",
			vault.Path, session.Engine.Count())
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case change, ok := <-changes:
				if !ok {
					return nil
				}
				if err := session.Engine.Apply(gctx, change); err != nil {
					logger.Warn("Apply %s %s: %v", change.Type, change.Ref.Path, err)
					continue
				}
				logger.Info("%s %s", change.Type, change.Ref.Path)
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	cmd.Println("\nStopped watching.")
	return nil
}
