package azdo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

// SearchURL returns the endpoint of index for the configured organization.
func (c *Client) SearchURL(index domain.SearchIndex) (string, error) {
	endpoint := index.Endpoint()
	if endpoint == "" {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedIndex, index)
	}

	q := url.Values{}
	q.Set("api-version", c.cfg.SearchAPIVersion)

	return fmt.Sprintf("%s/%s/_apis/search/%s?%s",
		c.cfg.SearchURL, url.PathEscape(c.cfg.Organization), endpoint, q.Encode()), nil
}

// Search posts query to the index and returns the raw payload.
func (c *Client) Search(
	ctx context.Context, index domain.SearchIndex, query domain.SearchQuery,
) (domain.SearchPayload, error) {
	endpoint, err := c.SearchURL(index)
	if err != nil {
		return domain.SearchPayload{}, err
	}

	body, err := c.do(ctx, string(index)+" search", http.MethodPost, endpoint, query)
	if err != nil {
		return domain.SearchPayload{}, err
	}

	return domain.ParseSearchPayload(body)
}
