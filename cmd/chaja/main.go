package main

import (
	"context"
	"fmt"
	"os"

	"github.com/haneul-labs/chaja-cli/internal/adapters/driven/config/file"
	"github.com/haneul-labs/chaja-cli/internal/adapters/driven/contentcache/memory"
	"github.com/haneul-labs/chaja-cli/internal/adapters/driven/contentcache/sqlite"
	"github.com/haneul-labs/chaja-cli/internal/adapters/driving/cli"
	"github.com/haneul-labs/chaja-cli/internal/connectors/filesystem"
	"github.com/haneul-labs/chaja-cli/internal/core/domain"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driven"
	"github.com/haneul-labs/chaja-cli/internal/core/services"
	"github.com/haneul-labs/chaja-cli/internal/logger"
)

// version is stamped at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	vaultStore, err := file.NewVaultStore(configStore)
	if err != nil {
		return fmt.Errorf("open vault store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	vaultService := services.NewVaultService(vaultStore)

	// The content cache is advisory. When the SQLite store cannot be
	// opened, previews are kept in memory for the life of the process.
	var cache driven.ContentCache
	if c, err := sqlite.NewCache(""); err != nil {
		logger.Warn("Preview cache unavailable, falling back to in-memory cache: %v", err)
		cache = memory.NewCache()
	} else {
		cache = c
		defer c.Close()
	}

	openVault := func(ctx context.Context, root string) (*cli.Session, error) {
		settings, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}

		provider := filesystem.New(root, settings.Extensions)
		if err := provider.Validate(ctx); err != nil {
			return nil, err
		}

		engine, err := services.NewEngine(provider, cache, settings)
		if err != nil {
			return nil, err
		}

		return &cli.Session{
			Engine: engine,
			Search: engine,
			Build: func(ctx context.Context) error {
				refs, err := collectRefs(ctx, provider)
				if err != nil {
					return err
				}
				return engine.Build(ctx, refs)
			},
			NewWatcher: func() (driven.ChangeWatcher, error) {
				return filesystem.NewWatcher(provider), nil
			},
		}, nil
	}

	cli.SetServices(cli.Services{
		Vaults:    vaultService,
		Settings:  settingsService,
		OpenVault: openVault,
	})

	return cli.Execute(version)
}

// collectRefs drains the provider's listing stream into a slice.
func collectRefs(ctx context.Context, provider driven.DocumentProvider) ([]domain.DocumentRef, error) {
	refCh, errCh := provider.ListAll(ctx)

	refs := make([]domain.DocumentRef, 0, 256)
	for ref := range refCh {
		refs = append(refs, ref)
	}
	if err := <-errCh; err != nil {
		return nil, fmt.Errorf("scan vault: %w", err)
	}
	return refs, nil
}
