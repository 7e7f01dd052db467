package azdo

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

const (
	// DefaultSearchURL is the host of the Azure DevOps search service.
	DefaultSearchURL = "https://almsearch.dev.azure.com"

	// DefaultOrgURLPrefix is prefixed to the organization name when no
	// organization URL is configured.
	DefaultOrgURLPrefix = "https://dev.azure.com/"

	// DefaultSearchAPIVersion is the api-version sent to the search service.
	DefaultSearchAPIVersion = "7.2-preview.1"

	// DefaultGitAPIVersion is the api-version sent to the Git items service.
	DefaultGitAPIVersion = "7.1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Config holds the connection settings of an organization.
type Config struct {
	// Organization is the Azure DevOps organization name.
	Organization string

	// OrgURL is the organization's base URL. Default: https://dev.azure.com/{Organization}
	OrgURL string

	// SearchURL is the search service host. Default: DefaultSearchURL
	SearchURL string

	// SearchAPIVersion and GitAPIVersion select the REST API versions.
	SearchAPIVersion string
	GitAPIVersion    string

	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds each HTTP request. Default: DefaultTimeout
	Timeout time.Duration

	// RequestsPerSecond sets proactive throttling. Zero uses ProactiveRate.
	RequestsPerSecond float64
}

// withDefaults returns a copy of c with empty fields filled in.
func (c Config) withDefaults() Config {
	if c.OrgURL == "" && c.Organization != "" {
		c.OrgURL = DefaultOrgURLPrefix + url.PathEscape(c.Organization)
	}
	if c.SearchURL == "" {
		c.SearchURL = DefaultSearchURL
	}
	if c.SearchAPIVersion == "" {
		c.SearchAPIVersion = DefaultSearchAPIVersion
	}
	if c.GitAPIVersion == "" {
		c.GitAPIVersion = DefaultGitAPIVersion
	}
	if c.UserAgent == "" {
		c.UserAgent = UserAgent("", "")
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	c.OrgURL = strings.TrimRight(c.OrgURL, "/")
	c.SearchURL = strings.TrimRight(c.SearchURL, "/")
	return c
}

// Validate checks that the configuration can address an organization.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Organization) == "" {
		return domain.ErrMissingOrganization
	}
	for name, raw := range map[string]string{"org URL": c.OrgURL, "search URL": c.SearchURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: invalid %s %q", domain.ErrInvalidInput, name, raw)
		}
	}
	return nil
}
