package services

import (
	"fmt"
	"time"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driven"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyThreshold          = "search.threshold"
	keyDistance           = "search.distance"
	keyLocation           = "search.location"
	keyIgnoreLocation     = "search.ignore_location"
	keyMinMatchLength     = "search.min_match_length"
	keyCaseSensitive      = "search.case_sensitive"
	keyIncludeMatches     = "search.include_matches"
	keyFindAllMatches     = "search.find_all_matches"
	keyFieldNormWeight    = "search.field_norm_weight"
	keyExtendedGrammar    = "search.extended_grammar"
	keyNameWeight         = "search.name_weight"
	keyContentWeight      = "search.content_weight"
	keyResultLimit        = "search.result_limit"
	keyHydrateTopK        = "hydration.top_k"
	keyHydrationBatchSize = "hydration.batch_size"
	keyBuildBatchSize     = "index.build_batch_size"
	keyRecentWindowDays   = "ranking.recent_window_days"
	keySmallFileSize      = "ranking.small_file_size"
	keyPreviewLength      = "hydration.preview_length"
	keyExtensions         = "index.extensions"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, falling back to defaults
// for any key the configuration does not set.
func (s *SettingsService) Get() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := domain.Settings{
		Threshold:          s.getFloat(keyThreshold, defaults.Threshold),
		Distance:           s.getInt(keyDistance, defaults.Distance),
		Location:           s.getInt(keyLocation, defaults.Location),
		IgnoreLocation:     s.getBool(keyIgnoreLocation, defaults.IgnoreLocation),
		MinMatchCharLength: s.getInt(keyMinMatchLength, defaults.MinMatchCharLength),
		IsCaseSensitive:    s.getBool(keyCaseSensitive, defaults.IsCaseSensitive),
		IncludeMatches:     s.getBool(keyIncludeMatches, defaults.IncludeMatches),
		FindAllMatches:     s.getBool(keyFindAllMatches, defaults.FindAllMatches),
		FieldNormWeight:    s.getFloat(keyFieldNormWeight, defaults.FieldNormWeight),
		UseExtendedGrammar: s.getBool(keyExtendedGrammar, defaults.UseExtendedGrammar),
		NameWeight:         s.getFloat(keyNameWeight, defaults.NameWeight),
		ContentWeight:      s.getFloat(keyContentWeight, defaults.ContentWeight),
		ResultLimit:        s.getInt(keyResultLimit, defaults.ResultLimit),
		HydrateTopK:        s.getInt(keyHydrateTopK, defaults.HydrateTopK),
		HydrationBatchSize: s.getInt(keyHydrationBatchSize, defaults.HydrationBatchSize),
		BuildBatchSize:     s.getInt(keyBuildBatchSize, defaults.BuildBatchSize),
		RecentWindow:       s.getDays(keyRecentWindowDays, defaults.RecentWindow),
		SmallFileSize:      s.getInt64(keySmallFileSize, defaults.SmallFileSize),
		PreviewLength:      s.getInt(keyPreviewLength, defaults.PreviewLength),
		Extensions:         s.getStringSlice(keyExtensions, defaults.Extensions),
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("stored settings: %w", err)
	}
	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := map[string]any{
		keyThreshold:          settings.Threshold,
		keyDistance:           settings.Distance,
		keyLocation:           settings.Location,
		keyIgnoreLocation:     settings.IgnoreLocation,
		keyMinMatchLength:     settings.MinMatchCharLength,
		keyCaseSensitive:      settings.IsCaseSensitive,
		keyIncludeMatches:     settings.IncludeMatches,
		keyFindAllMatches:     settings.FindAllMatches,
		keyFieldNormWeight:    settings.FieldNormWeight,
		keyExtendedGrammar:    settings.UseExtendedGrammar,
		keyNameWeight:         settings.NameWeight,
		keyContentWeight:      settings.ContentWeight,
		keyResultLimit:        settings.ResultLimit,
		keyHydrateTopK:        settings.HydrateTopK,
		keyHydrationBatchSize: settings.HydrationBatchSize,
		keyBuildBatchSize:     settings.BuildBatchSize,
		keyRecentWindowDays:   int(settings.RecentWindow / (24 * time.Hour)),
		keySmallFileSize:      settings.SmallFileSize,
		keyPreviewLength:      settings.PreviewLength,
		keyExtensions:         settings.Extensions,
	}

	for key, value := range values {
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// SetThreshold updates and persists the match threshold.
func (s *SettingsService) SetThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: threshold must be within [0, 1], got %v", domain.ErrInvalidInput, threshold)
	}
	if err := s.configStore.Set(keyThreshold, threshold); err != nil {
		return fmt.Errorf("save threshold: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// getFloat returns the stored float or the default when unset.
func (s *SettingsService) getFloat(key string, def float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getInt(key string, def int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getInt64(key string, def int64) int64 {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetInt64(key)
}

func (s *SettingsService) getBool(key string, def bool) bool {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDays(key string, def time.Duration) time.Duration {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return time.Duration(s.configStore.GetInt(key)) * 24 * time.Hour
}

func (s *SettingsService) getStringSlice(key string, def []string) []string {
	if _, ok := s.configStore.Get(key); !ok {
		return def
	}
	return s.configStore.GetStringSlice(key)
}
