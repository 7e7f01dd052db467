package driven

import (
	"context"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

// ContentFetcher retrieves file revisions from source control.
type ContentFetcher interface {
	// FetchItem returns the file at path in the repository, at the given version,
	// including its full content. Errors are those of the transport.
	FetchItem(
		ctx context.Context,
		repositoryID, path, projectID string,
		version domain.VersionDescriptor,
	) (domain.FileItem, error)
}
