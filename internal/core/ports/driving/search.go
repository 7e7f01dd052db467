package driving

import (
	"context"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// SearchCode searches the code index and enriches the top hits with
	// their file content.
	SearchCode(ctx context.Context, query domain.SearchQuery) (domain.CodeSearchResult, error)

	// SearchWiki searches wiki pages.
	SearchWiki(ctx context.Context, query domain.SearchQuery) (domain.SearchPayload, error)

	// SearchWorkItems searches work items.
	SearchWorkItems(ctx context.Context, query domain.SearchQuery) (domain.SearchPayload, error)
}
