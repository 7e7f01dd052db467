package azdo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

// itemQuery holds the fixed retrieval policy for file items: always the
// full, LFS-resolved, sanitized content with its metadata.
var itemQuery = map[string]string{
	"includeContentMetadata": "true",
	"latestProcessedChange":  "false",
	"download":               "false",
	"includeContent":         "true",
	"resolveLfs":             "true",
	"sanitize":               "true",
}

// ItemURL returns the Git items endpoint for a file at a version.
func (c *Client) ItemURL(repositoryID, path, projectID string, version domain.VersionDescriptor) string {
	q := url.Values{}
	q.Set("path", path)
	for k, v := range itemQuery {
		q.Set(k, v)
	}
	q.Set("versionDescriptor.version", version.Version)
	q.Set("versionDescriptor.versionType", version.VersionType)
	q.Set("versionDescriptor.versionOptions", version.VersionOptions)
	q.Set("api-version", c.cfg.GitAPIVersion)

	return fmt.Sprintf("%s/%s/_apis/git/repositories/%s/items?%s",
		c.cfg.OrgURL, url.PathEscape(projectID), url.PathEscape(repositoryID), q.Encode())
}

// FetchItem retrieves the file at path from the repository at version.
func (c *Client) FetchItem(
	ctx context.Context,
	repositoryID, path, projectID string,
	version domain.VersionDescriptor,
) (domain.FileItem, error) {
	body, err := c.do(ctx, "get item", http.MethodGet, c.ItemURL(repositoryID, path, projectID, version), nil)
	if err != nil {
		return domain.FileItem{}, err
	}

	var item domain.FileItem
	if err := json.Unmarshal(body, &item); err != nil {
		return domain.FileItem{}, fmt.Errorf("decode item %s: %w", path, err)
	}
	return item, nil
}
