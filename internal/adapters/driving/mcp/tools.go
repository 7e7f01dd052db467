package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
	"github.com/custodia-labs/azdo-mcp/internal/logger"
)

// searchTools maps each search index to the tool that exposes it.
var searchTools = map[string]string{
	"code":     "search_code",
	"wiki":     "search_wiki",
	"workitem": "search_workitem",
}

const codeSearchDescription = "Search Azure DevOps code repositories. Returns the top results merged with " +
	"the content of each matching file at the indexed commit, followed by the raw search response."

// CodeSearchInput is the input schema for search_code.
type CodeSearchInput struct {
	SearchText    string   `json:"searchText" jsonschema:"keywords to search for in code repositories"`
	Project       []string `json:"project,omitempty" jsonschema:"filter by project names"`
	Repository    []string `json:"repository,omitempty" jsonschema:"filter by repository names"`
	Path          []string `json:"path,omitempty" jsonschema:"filter by file paths"`
	Branch        []string `json:"branch,omitempty" jsonschema:"filter by branch names"`
	CodeElement   []string `json:"codeElement,omitempty" jsonschema:"filter by code element kinds, e.g. class, def or comment"`
	IncludeFacets bool     `json:"includeFacets,omitempty" jsonschema:"include facet counts in the results"`
	Skip          int      `json:"skip,omitempty" jsonschema:"number of results to skip"`
	Top           *int     `json:"top,omitempty" jsonschema:"maximum number of results to return and enrich with file content (default 5)"`
}

// WikiSearchInput is the input schema for search_wiki.
type WikiSearchInput struct {
	SearchText    string   `json:"searchText" jsonschema:"keywords to search for in wiki pages"`
	Project       []string `json:"project,omitempty" jsonschema:"filter by project names"`
	Wiki          []string `json:"wiki,omitempty" jsonschema:"filter by wiki names"`
	IncludeFacets bool     `json:"includeFacets,omitempty" jsonschema:"include facet counts in the results"`
	Skip          int      `json:"skip,omitempty" jsonschema:"number of results to skip"`
	Top           *int     `json:"top,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// WorkItemSearchInput is the input schema for search_workitem.
type WorkItemSearchInput struct {
	SearchText    string   `json:"searchText" jsonschema:"keywords to search for in work items"`
	Project       []string `json:"project,omitempty" jsonschema:"filter by project names"`
	AreaPath      []string `json:"areaPath,omitempty" jsonschema:"filter by area paths"`
	WorkItemType  []string `json:"workItemType,omitempty" jsonschema:"filter by work item types, e.g. Bug or Task"`
	State         []string `json:"state,omitempty" jsonschema:"filter by states, e.g. Active"`
	AssignedTo    []string `json:"assignedTo,omitempty" jsonschema:"filter by assignee"`
	IncludeFacets bool     `json:"includeFacets,omitempty" jsonschema:"include facet counts in the results"`
	Skip          int      `json:"skip,omitempty" jsonschema:"number of results to skip"`
	Top           *int     `json:"top,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// Query converts the input to a code search query.
func (in CodeSearchInput) Query() domain.SearchQuery {
	q := newQuery(domain.IndexCode, in.SearchText, in.Skip, in.Top, in.IncludeFacets)
	q.AddFilter(domain.FilterProject, in.Project...)
	q.AddFilter(domain.FilterRepository, in.Repository...)
	q.AddFilter(domain.FilterPath, in.Path...)
	q.AddFilter(domain.FilterBranch, in.Branch...)
	q.AddFilter(domain.FilterCodeElement, in.CodeElement...)
	return q
}

// Query converts the input to a wiki search query.
func (in WikiSearchInput) Query() domain.SearchQuery {
	q := newQuery(domain.IndexWiki, in.SearchText, in.Skip, in.Top, in.IncludeFacets)
	q.AddFilter(domain.FilterProject, in.Project...)
	q.AddFilter(domain.FilterWiki, in.Wiki...)
	return q
}

// Query converts the input to a work item search query.
func (in WorkItemSearchInput) Query() domain.SearchQuery {
	q := newQuery(domain.IndexWorkItem, in.SearchText, in.Skip, in.Top, in.IncludeFacets)
	q.AddFilter(domain.FilterTeamProject, in.Project...)
	q.AddFilter(domain.FilterAreaPath, in.AreaPath...)
	q.AddFilter(domain.FilterWorkItemType, in.WorkItemType...)
	q.AddFilter(domain.FilterState, in.State...)
	q.AddFilter(domain.FilterAssignedTo, in.AssignedTo...)
	return q
}

func newQuery(index domain.SearchIndex, text string, skip int, top *int, facets bool) domain.SearchQuery {
	q := domain.SearchQuery{
		SearchText:    text,
		Skip:          skip,
		Top:           index.DefaultTop(),
		IncludeFacets: facets,
	}
	if top != nil {
		q.Top = *top
	}
	return q
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() error {
	readOnly := &mcp.ToolAnnotations{ReadOnlyHint: true, OpenWorldHint: ptr(true)}

	if err := addTool(s, &mcp.Tool{
		Name:        searchTools["code"],
		Description: codeSearchDescription,
		Annotations: readOnly,
	}, s.handleSearchCode); err != nil {
		return err
	}

	if err := addTool(s, &mcp.Tool{
		Name:        searchTools["wiki"],
		Description: "Search Azure DevOps wiki pages.",
		Annotations: readOnly,
	}, s.handleSearchWiki); err != nil {
		return err
	}

	return addTool(s, &mcp.Tool{
		Name:        searchTools["workitem"],
		Description: "Search Azure DevOps work items.",
		Annotations: readOnly,
	}, s.handleSearchWorkItem)
}

// handleSearchCode returns the enriched hits and the raw payload as two
// text blocks.
func (s *Server) handleSearchCode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CodeSearchInput,
) (*mcp.CallToolResult, any, error) {
	ctx = withActivity(ctx, searchTools["code"])

	result, err := s.ports.Search.SearchCode(ctx, input.Query())
	if err != nil {
		return nil, nil, err
	}

	enriched, err := domain.MarshalEnriched(result.Enriched)
	if err != nil {
		return nil, nil, fmt.Errorf("encode enriched results: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(enriched)},
			&mcp.TextContent{Text: string(result.Payload.Raw)},
		},
	}, nil, nil
}

// handleSearchWiki returns the raw payload.
func (s *Server) handleSearchWiki(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input WikiSearchInput,
) (*mcp.CallToolResult, any, error) {
	ctx = withActivity(ctx, searchTools["wiki"])

	payload, err := s.ports.Search.SearchWiki(ctx, input.Query())
	if err != nil {
		return nil, nil, err
	}
	return textResult(payload), nil, nil
}

// handleSearchWorkItem returns the raw payload.
func (s *Server) handleSearchWorkItem(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input WorkItemSearchInput,
) (*mcp.CallToolResult, any, error) {
	ctx = withActivity(ctx, searchTools["workitem"])

	payload, err := s.ports.Search.SearchWorkItems(ctx, input.Query())
	if err != nil {
		return nil, nil, err
	}
	return textResult(payload), nil, nil
}

func textResult(payload domain.SearchPayload) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload.Raw)}},
	}
}

// withActivity tags ctx with a fresh activity id for request correlation.
func withActivity(ctx context.Context, tool string) context.Context {
	id := uuid.NewString()
	logger.With("activity_id", id).Debug("tool call", "tool", tool)
	return domain.WithActivityID(ctx, id)
}

func ptr[T any](v T) *T {
	return &v
}
