package tui

import "errors"

// ErrNoSearchService is returned when the search service is not provided.
var ErrNoSearchService = errors.New("tui: search service is required")
