package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
	"github.com/custodia-labs/azdo-mcp/internal/core/ports/driven"
)

// Ensure EnvTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*EnvTokenProvider)(nil)

// EnvTokenProvider reads the token from an environment variable on every
// call, so a token rotated by a wrapper process is picked up without restart.
// When the variable is unset the fallback token, if any, is used.
type EnvTokenProvider struct {
	variable string
	fallback string
	method   domain.AuthMethod
	lookup   func(string) (string, bool)
}

// NewEnvTokenProvider creates a provider reading variable.
func NewEnvTokenProvider(variable string, method domain.AuthMethod) *EnvTokenProvider {
	return &EnvTokenProvider{
		variable: variable,
		method:   method,
		lookup:   os.LookupEnv,
	}
}

// WithFallback sets the token used while the variable is unset.
func (p *EnvTokenProvider) WithFallback(token string) *EnvTokenProvider {
	p.fallback = token
	return p
}

// GetToken returns the current value of the variable.
func (p *EnvTokenProvider) GetToken(_ context.Context) (string, error) {
	if token, ok := p.lookup(p.variable); ok {
		if token = strings.TrimSpace(token); token != "" {
			return token, nil
		}
	}
	if p.fallback != "" {
		return p.fallback, nil
	}
	return "", fmt.Errorf("%w: %s is not set", domain.ErrAuthRequired, p.variable)
}

// AuthMethod returns the configured method.
func (p *EnvTokenProvider) AuthMethod() domain.AuthMethod {
	return p.method
}
