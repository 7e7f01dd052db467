package auth

import (
	"context"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
	"github.com/custodia-labs/azdo-mcp/internal/core/ports/driven"
)

// Ensure StaticTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticTokenProvider)(nil)

// StaticTokenProvider returns a fixed token.
// Used for personal access tokens and bearer tokens read once at startup.
type StaticTokenProvider struct {
	token  string
	method domain.AuthMethod
}

// NewStaticTokenProvider creates a provider returning token as method.
func NewStaticTokenProvider(token string, method domain.AuthMethod) *StaticTokenProvider {
	return &StaticTokenProvider{token: token, method: method}
}

// GetToken returns the token, or domain.ErrAuthRequired if none was set.
func (p *StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", domain.ErrAuthRequired
	}
	return p.token, nil
}

// AuthMethod returns the configured method.
func (p *StaticTokenProvider) AuthMethod() domain.AuthMethod {
	return p.method
}
