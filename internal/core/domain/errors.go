package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEngineClosed indicates the search engine has been shut down.
	ErrEngineClosed = errors.New("engine closed")

	// ErrEngineNotBuilt indicates a query arrived before any index build.
	ErrEngineNotBuilt = errors.New("engine not built")

	// Watcher Errors.

	// ErrWatcherClosed indicates the change watcher has been closed.
	ErrWatcherClosed = errors.New("watcher closed")

	// Vault Errors.

	// ErrVaultNotFound indicates no vault with the given ID is registered.
	ErrVaultNotFound = errors.New("vault not found")

	// ErrInvalidVaultID indicates a vault is missing its identifier.
	ErrInvalidVaultID = errors.New("invalid vault ID")

	// ErrInvalidVaultPath indicates a vault is missing its root path.
	ErrInvalidVaultPath = errors.New("invalid vault path")
)
