// Package domain defines the core business entities for Chaja.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRef: Metadata identifying one searchable document
//   - DocumentChange: A change event for one document
//   - SearchResult: A ranked search hit
//   - Settings: The engine's matching and scoring configuration
//   - Vault: A registered document root
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
