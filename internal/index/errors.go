package index

import "errors"

var (
	// ErrNoKeys is returned when an index is constructed without keys.
	ErrNoKeys = errors.New("index requires at least one key")

	// ErrEmptyKeyName is returned when a key descriptor has a blank name.
	// Key configuration is the one place that fails fast.
	ErrEmptyKeyName = errors.New("index key name must not be empty")

	// ErrNegativeWeight is returned when a key weight is below zero.
	ErrNegativeWeight = errors.New("index key weight must not be negative")
)
