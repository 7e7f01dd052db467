package driven

import (
	"context"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

// TokenProvider provides access tokens for authenticated API calls.
// Acquiring or refreshing tokens is the implementation's concern.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// Returns empty string for no-auth providers.
	GetToken(ctx context.Context) (string, error)

	// AuthMethod returns how the token is presented (bearer, pat, none).
	AuthMethod() domain.AuthMethod
}
