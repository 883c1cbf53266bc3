package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/haneul-labs/chaja-cli/internal/adapters/driven/contentcache/sqlite/migrations"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ContentCache = (*Cache)(nil)

// Cache is a SQLite-backed implementation of driven.ContentCache.
// Previews are keyed by path and stamped with the file's modification
// time; a stale stamp reads as a miss, never as wrong content.
type Cache struct {
	db   *sql.DB
	path string
}

// NewCache creates a new SQLite preview cache in the specified data
// directory. If dataDir is empty, defaults to ~/.chaja/data/previews.db.
func NewCache(dataDir string) (*Cache, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".chaja", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "previews.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	c := &Cache{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := c.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cached preview for path if one exists and its stored
// modification time matches modifiedAt.
func (c *Cache) Get(ctx context.Context, path string, modifiedAt time.Time) (string, bool, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT preview FROM previews WHERE path = ? AND modified_at = ?
	`, path, modifiedAt.UnixNano())

	var preview string
	if err := row.Scan(&preview); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading preview: %w", err)
	}
	return preview, true, nil
}

// Put stores or replaces the preview for path.
func (c *Cache) Put(ctx context.Context, path string, modifiedAt time.Time, preview string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO previews (path, modified_at, preview)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			modified_at = excluded.modified_at,
			preview = excluded.preview,
			cached_at = CURRENT_TIMESTAMP
	`, path, modifiedAt.UnixNano(), preview)

	if err != nil {
		return fmt.Errorf("saving preview: %w", err)
	}
	return nil
}

// Delete removes the entry for path. Missing entries are not an error.
func (c *Cache) Delete(ctx context.Context, path string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM previews WHERE path = ?`, path); err != nil {
		return fmt.Errorf("deleting preview: %w", err)
	}
	return nil
}

// Rename moves an entry to a new path, preserving its preview and
// stamp. Any row already at newPath is replaced; a missing oldPath is
// not an error.
func (c *Cache) Rename(ctx context.Context, oldPath, newPath string) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE OR REPLACE previews SET path = ? WHERE path = ?
	`, newPath, oldPath)

	if err != nil {
		return fmt.Errorf("renaming preview: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (c *Cache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM previews`); err != nil {
		return fmt.Errorf("clearing previews: %w", err)
	}
	return nil
}

// migrate runs all pending migrations.
func (c *Cache) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := c.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_previews.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := c.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := c.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
