package auth

import (
	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
	"github.com/custodia-labs/azdo-mcp/internal/core/ports/driven"
)

// NewTokenProvider picks the provider for method.
// The token is read from variable at request time, falling back to token
// (e.g. from the config file) while the variable is unset. An empty
// variable name makes token static.
func NewTokenProvider(method domain.AuthMethod, token, variable string) driven.TokenProvider {
	if method == domain.AuthMethodNone {
		return NewNullTokenProvider()
	}
	if variable == "" {
		return NewStaticTokenProvider(token, method)
	}
	return NewEnvTokenProvider(variable, method).WithFallback(token)
}
