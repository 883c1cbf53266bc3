package driving

import "github.com/haneul-labs/chaja-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (domain.Settings, error)

	// Save persists application settings.
	Save(settings domain.Settings) error

	// SetThreshold updates and persists the match threshold.
	SetThreshold(threshold float64) error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
