// Package domain defines the core types of the Azure DevOps search facade.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SearchQuery: A free-text query with filters and paging
//   - SearchPayload: The raw response of a search index
//   - CodeHit: The addressing view of a single code search hit
//   - EnrichedResult: A hit's fetched file content or its per-item error
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
