// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentProvider: Enumerates and reads documents from a vault
//   - ConfigStore: Application configuration
//   - VaultStore: Vault registration persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ChangeWatcher: Pushes live document changes. Without it, the index
//     is only refreshed by explicit rebuilds.
//   - ContentCache: Persists content previews across runs. Without it,
//     every hydration re-reads the document.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
