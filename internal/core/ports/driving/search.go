package driving

import (
	"context"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search runs every applicable query strategy across the indexed
	// documents and returns merged results, best first.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
