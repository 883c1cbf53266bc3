// Package memory provides an in-memory implementation of the content cache.
//
// It is the fallback when the SQLite cache cannot be opened: previews are
// still reused within a process (which the long-running watch, tui and mcp
// modes benefit from) but nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/haneul-labs/chaja-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ContentCache = (*Cache)(nil)

// Cache is an in-memory implementation of driven.ContentCache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	modifiedAt time.Time
	preview    string
}

// NewCache creates a new in-memory preview cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]entry),
	}
}

// Get returns the cached preview for path if one exists and its stored
// modification time matches modifiedAt.
func (c *Cache) Get(_ context.Context, path string, modifiedAt time.Time) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	if !ok || !e.modifiedAt.Equal(modifiedAt) {
		return "", false, nil
	}
	return e.preview, true, nil
}

// Put stores or replaces the preview for path.
func (c *Cache) Put(_ context.Context, path string, modifiedAt time.Time, preview string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry{modifiedAt: modifiedAt, preview: preview}
	return nil
}

// Delete removes the entry for path. Missing entries are not an error.
func (c *Cache) Delete(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
	return nil
}

// Rename moves an entry to a new path, preserving its preview and stamp.
// Any entry already at newPath is replaced; a missing oldPath is not an
// error.
func (c *Cache) Rename(_ context.Context, oldPath, newPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[oldPath]
	if !ok {
		return nil
	}
	delete(c.entries, oldPath)
	c.entries[newPath] = e
	return nil
}

// Clear removes all entries.
func (c *Cache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	return nil
}

// Close releases the cache. It is a no-op for the memory store.
func (c *Cache) Close() error {
	return nil
}
