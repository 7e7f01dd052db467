package auth

import (
	"context"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
	"github.com/custodia-labs/azdo-mcp/internal/core/ports/driven"
)

// Ensure NullTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*NullTokenProvider)(nil)

// NullTokenProvider sends no credentials. Used against servers that
// authenticate at the network layer and in tests.
type NullTokenProvider struct{}

// NewNullTokenProvider creates a token provider for unauthenticated access.
func NewNullTokenProvider() *NullTokenProvider {
	return &NullTokenProvider{}
}

// GetToken returns an empty string since no authentication is needed.
func (p *NullTokenProvider) GetToken(_ context.Context) (string, error) {
	return "", nil
}

// AuthMethod returns AuthMethodNone.
func (p *NullTokenProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodNone
}
