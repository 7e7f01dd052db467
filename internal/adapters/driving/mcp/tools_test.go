package mcp

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
	"github.com/custodia-labs/azdo-mcp/internal/logger"
	"github.com/custodia-labs/azdo-mcp/internal/naming"
)

func TestCodeSearchInput_Query(t *testing.T) {
	t.Run("defaults top to 5", func(t *testing.T) {
		q := CodeSearchInput{SearchText: "foo"}.Query()
		assert.Equal(t, 5, q.Top)
		assert.Equal(t, 0, q.Skip)
		assert.Nil(t, q.Filters)
	})

	t.Run("explicit zero top is kept", func(t *testing.T) {
		q := CodeSearchInput{SearchText: "foo", Top: ptr(0)}.Query()
		assert.Equal(t, 0, q.Top)
	})

	t.Run("maps filters", func(t *testing.T) {
		q := CodeSearchInput{
			SearchText:    "foo",
			Project:       []string{"P"},
			Repository:    []string{"R1", "R2"},
			Path:          []string{"/src"},
			Branch:        []string{"main"},
			CodeElement:   []string{"class", "def"},
			IncludeFacets: true,
			Skip:          10,
		}.Query()

		assert.Equal(t, map[string][]string{
			"Project":     {"P"},
			"Repository":  {"R1", "R2"},
			"Path":        {"/src"},
			"Branch":      {"main"},
			"CodeElement": {"class", "def"},
		}, q.Filters)
		assert.True(t, q.IncludeFacets)
		assert.Equal(t, 10, q.Skip)
	})
}

func TestWikiSearchInput_Query(t *testing.T) {
	q := WikiSearchInput{SearchText: "setup", Project: []string{"P"}, Wiki: []string{"P.wiki"}}.Query()

	assert.Equal(t, 10, q.Top)
	assert.Equal(t, map[string][]string{"Project": {"P"}, "Wiki": {"P.wiki"}}, q.Filters)
}

func TestWorkItemSearchInput_Query(t *testing.T) {
	q := WorkItemSearchInput{
		SearchText:   "crash",
		Project:      []string{"P"},
		AreaPath:     []string{"P\\Area"},
		WorkItemType: []string{"Bug"},
		State:        []string{"Active"},
		AssignedTo:   []string{"Jamie"},
		Top:          ptr(3),
	}.Query()

	assert.Equal(t, 3, q.Top)
	assert.Equal(t, map[string][]string{
		"System.TeamProject":  {"P"},
		"System.AreaPath":     {"P\\Area"},
		"System.WorkItemType": {"Bug"},
		"System.State":        {"Active"},
		"System.AssignedTo":   {"Jamie"},
	}, q.Filters)
}

func TestServer_handleSearchCode(t *testing.T) {
	ctx := context.Background()

	t.Run("returns enriched array then raw payload", func(t *testing.T) {
		search := &mockSearchService{code: codeResult()}
		server, err := NewServer(&Ports{Search: search})
		require.NoError(t, err)

		res, _, err := server.handleSearchCode(ctx, nil, CodeSearchInput{SearchText: "foo"})

		require.NoError(t, err)
		require.Len(t, res.Content, 2)
		assert.Contains(t, res.Content[0].(*mcp.TextContent).Text, `"error":"Azure DevOps get item API error: 404 Not Found"`)
		assert.Contains(t, res.Content[1].(*mcp.TextContent).Text, `"count":2`)
		assert.Equal(t, domain.IndexCode, search.lastIndex)
	})

	t.Run("no hits serializes an empty array", func(t *testing.T) {
		search := &mockSearchService{code: domain.CodeSearchResult{Payload: payloadOf(`{"count":0}`)}}
		server, err := NewServer(&Ports{Search: search})
		require.NoError(t, err)

		res, _, err := server.handleSearchCode(ctx, nil, CodeSearchInput{SearchText: "foo"})

		require.NoError(t, err)
		assert.Equal(t, "[]", res.Content[0].(*mcp.TextContent).Text)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		search := &mockSearchService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Search: search})
		require.NoError(t, err)

		_, _, err = server.handleSearchCode(ctx, nil, CodeSearchInput{SearchText: "foo"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleSearchWiki(t *testing.T) {
	search := &mockSearchService{payload: payloadOf(`{"count":1,"results":[{"fileName":"Home.md"}]}`)}
	server, err := NewServer(&Ports{Search: search})
	require.NoError(t, err)

	res, _, err := server.handleSearchWiki(context.Background(), nil, WikiSearchInput{SearchText: "home"})

	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	assert.JSONEq(t, `{"count":1,"results":[{"fileName":"Home.md"}]}`, res.Content[0].(*mcp.TextContent).Text)
	assert.Equal(t, domain.IndexWiki, search.lastIndex)
	assert.NotEmpty(t, search.lastActivity)
}

func TestSearchTools_PassLint(t *testing.T) {
	src, err := os.ReadFile("tools.go")
	require.NoError(t, err)

	names := naming.ExtractOperationNames(string(src))

	assert.Equal(t, []string{"search_code", "search_wiki", "search_workitem"}, names)
	for _, name := range names {
		assert.NoError(t, naming.ValidateOperationName(name))
	}
}

// captureLogs routes verbose logs into a buffer for the duration of t.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	logger.SetOutput(buf)
	logger.SetVerbose(true)
	t.Cleanup(func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	})
	return buf
}
