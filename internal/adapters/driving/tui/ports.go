// Package tui provides the interactive picker for chaja.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the picker.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search runs queries against the open vault.
	Search driving.SearchService

	// Engine reports on the vault's index.
	Engine driving.EngineService
}
