package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/custodia-labs/azdo-mcp/internal/config"
	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
	"github.com/custodia-labs/azdo-mcp/internal/core/ports/driving"
)

var _ driving.SearchService = (*mockSearchService)(nil)

// mockSearchService records the last query and returns canned results.
type mockSearchService struct {
	index   domain.SearchIndex
	query   domain.SearchQuery
	code    domain.CodeSearchResult
	payload domain.SearchPayload
	err     error
}

func (m *mockSearchService) SearchCode(_ context.Context, q domain.SearchQuery) (domain.CodeSearchResult, error) {
	m.index, m.query = domain.IndexCode, q
	return m.code, m.err
}

func (m *mockSearchService) SearchWiki(_ context.Context, q domain.SearchQuery) (domain.SearchPayload, error) {
	m.index, m.query = domain.IndexWiki, q
	return m.payload, m.err
}

func (m *mockSearchService) SearchWorkItems(_ context.Context, q domain.SearchQuery) (domain.SearchPayload, error) {
	m.index, m.query = domain.IndexWorkItem, q
	return m.payload, m.err
}

// useSearchService injects svc and resets command state for one test.
func useSearchService(t *testing.T, svc driving.SearchService) {
	t.Helper()
	original := searchService
	searchService = svc
	resetFlags()
	t.Cleanup(func() {
		searchService = original
		resetFlags()
	})
}

func resetFlags() {
	searchTop, searchSkip = -1, 0
	searchFacets, searchJSON = false, false
	searchBody = ""
	searchProjects, searchRepos, searchPaths, searchBranches, searchElements = nil, nil, nil, nil, nil
	searchWikis, searchAreaPaths, searchTypes, searchStates, searchAssignedTo = nil, nil, nil, nil, nil

	lintWatch = false
	lintSchemaBuilder = "z"

	verbose, configDir = false, ""
	if f := rootCmd.PersistentFlags().Lookup(config.FlagOrganization); f != nil {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func codeHit(project, repo, path string) json.RawMessage {
	data, _ := json.Marshal(map[string]any{
		"fileName":   path[1:],
		"path":       path,
		"project":    map[string]any{"id": "p-" + project, "name": project},
		"repository": map[string]any{"id": "r-" + repo, "name": repo},
		"versions":   []any{map[string]any{"branchName": "main", "changeId": "0123456789abcdef"}},
	})
	return data
}

func payloadOf(t *testing.T, raw string) domain.SearchPayload {
	t.Helper()
	p, err := domain.ParseSearchPayload([]byte(raw))
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	return p
}
