package mcp

import (
	"github.com/custodia-labs/azdo-mcp/internal/core/ports/driving"
)

// Ports aggregates the dependencies of the MCP server.
type Ports struct {
	// Search provides search capabilities.
	Search driving.SearchService

	// OnClient, if set, is called with the connected assistant's name and
	// version once a session is initialized. Optional.
	OnClient func(name, version string)
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
