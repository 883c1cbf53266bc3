package domain

import (
	"fmt"
	"time"
)

// Settings holds the engine's matching, scoring and scheduling
// configuration. Every field has a compile-time-checked default; the
// zero value is not usable, construct via DefaultSettings.
type Settings struct {
	// Threshold is the maximum acceptable match score: 0 requires a
	// perfect match, 1 accepts anything.
	Threshold float64

	// Distance is how far from the expected location a match may drift
	// before being scored as a total mismatch.
	Distance int

	// Location is the expected offset of a match within a field.
	Location int

	// IgnoreLocation scores by edit distance alone.
	IgnoreLocation bool

	// MinMatchCharLength drops matched runs shorter than this.
	MinMatchCharLength int

	// IsCaseSensitive disables the default case folding.
	IsCaseSensitive bool

	// IncludeMatches records matched rune ranges on results.
	IncludeMatches bool

	// FindAllMatches keeps scanning past the first perfect match.
	FindAllMatches bool

	// FieldNormWeight scales how strongly field length affects scores.
	FieldNormWeight float64

	// UseExtendedGrammar enables the =/'/^/$/! query operators.
	UseExtendedGrammar bool

	// NameWeight is the display-name field weight before normalisation.
	NameWeight float64

	// ContentWeight is the content field weight before normalisation.
	ContentWeight float64

	// ResultLimit is the default maximum number of results per query.
	ResultLimit int

	// HydrateTopK is how many top results enqueue content hydration
	// after a query.
	HydrateTopK int

	// HydrationBatchSize is how many documents one hydration batch reads
	// before yielding.
	HydrationBatchSize int

	// BuildBatchSize is how many documents one build batch scans before
	// yielding.
	BuildBatchSize int

	// RecentWindow is the modification age under which a document earns
	// the recency bonus.
	RecentWindow time.Duration

	// SmallFileSize is the size in bytes under which a document earns
	// the small-file bonus.
	SmallFileSize int64

	// PreviewLength caps the hydrated content preview, in runes.
	PreviewLength int

	// Extensions lists the file extensions treated as documents.
	Extensions []string
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Threshold:          0.6,
		Distance:           100,
		Location:           0,
		IgnoreLocation:     false,
		MinMatchCharLength: 1,
		IsCaseSensitive:    false,
		IncludeMatches:     false,
		FindAllMatches:     false,
		FieldNormWeight:    1,
		UseExtendedGrammar: false,
		NameWeight:         0.7,
		ContentWeight:      0.3,
		ResultLimit:        20,
		HydrateTopK:        20,
		HydrationBatchSize: 5,
		BuildBatchSize:     200,
		RecentWindow:       7 * 24 * time.Hour,
		SmallFileSize:      8 * 1024,
		PreviewLength:      2000,
		Extensions:         []string{".md", ".txt"},
	}
}

// Validate checks that the settings are internally consistent.
func (s Settings) Validate() error {
	if s.Threshold < 0 || s.Threshold > 1 {
		return fmt.Errorf("%w: threshold must be within [0, 1], got %v", ErrInvalidInput, s.Threshold)
	}
	if s.Distance < 0 {
		return fmt.Errorf("%w: distance must not be negative, got %d", ErrInvalidInput, s.Distance)
	}
	if s.MinMatchCharLength < 1 {
		return fmt.Errorf("%w: min match length must be at least 1, got %d", ErrInvalidInput, s.MinMatchCharLength)
	}
	if s.NameWeight <= 0 || s.ContentWeight <= 0 {
		return fmt.Errorf("%w: field weights must be positive", ErrInvalidInput)
	}
	if s.ResultLimit < 1 {
		return fmt.Errorf("%w: result limit must be at least 1, got %d", ErrInvalidInput, s.ResultLimit)
	}
	if s.BuildBatchSize < 1 || s.HydrationBatchSize < 1 {
		return fmt.Errorf("%w: batch sizes must be at least 1", ErrInvalidInput)
	}
	return nil
}
