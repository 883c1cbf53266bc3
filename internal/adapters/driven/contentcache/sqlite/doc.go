// Package sqlite provides a SQLite-backed implementation of the content cache.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. It persists document
// previews keyed by path so hydration survives restarts without re-reading
// every file; entries are invalidated by modification time.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.chaja/data/previews.db
//
// # Thread Safety
//
// All operations are thread-safe. The cache uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
