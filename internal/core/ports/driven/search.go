package driven

import (
	"context"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

// SearchClient runs full-text queries against a remote search index.
type SearchClient interface {
	// Search sends the query to the index and returns the raw payload.
	// A non-success response is returned as an error.
	Search(ctx context.Context, index domain.SearchIndex, query domain.SearchQuery) (domain.SearchPayload, error)
}
