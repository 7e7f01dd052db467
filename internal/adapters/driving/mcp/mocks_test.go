package mcp

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	code    domain.CodeSearchResult
	payload domain.SearchPayload
	err     error

	lastIndex    domain.SearchIndex
	lastQuery    domain.SearchQuery
	lastActivity string
}

func (m *mockSearchService) record(ctx context.Context, index domain.SearchIndex, q domain.SearchQuery) {
	m.lastIndex = index
	m.lastQuery = q
	m.lastActivity = domain.ActivityID(ctx)
}

func (m *mockSearchService) SearchCode(ctx context.Context, q domain.SearchQuery) (domain.CodeSearchResult, error) {
	m.record(ctx, domain.IndexCode, q)
	return m.code, m.err
}

func (m *mockSearchService) SearchWiki(ctx context.Context, q domain.SearchQuery) (domain.SearchPayload, error) {
	m.record(ctx, domain.IndexWiki, q)
	return m.payload, m.err
}

func (m *mockSearchService) SearchWorkItems(ctx context.Context, q domain.SearchQuery) (domain.SearchPayload, error) {
	m.record(ctx, domain.IndexWorkItem, q)
	return m.payload, m.err
}

// codeResult builds a result with one fetched file and one failure.
func codeResult() domain.CodeSearchResult {
	raw := json.RawMessage(`{"count":2,"results":[{"path":"/a.go"},{"path":"/b.go"}]}`)
	return domain.CodeSearchResult{
		Enriched: []domain.EnrichedResult{
			domain.EnrichedContent{Content: domain.FileItem{Path: "/a.go", Content: "package a"}},
			domain.EnrichedError{Message: "Azure DevOps get item API error: 404 Not Found"},
		},
		Payload: domain.SearchPayload{
			Raw:   raw,
			Count: 2,
			Hits:  []json.RawMessage{json.RawMessage(`{"path":"/a.go"}`), json.RawMessage(`{"path":"/b.go"}`)},
		},
	}
}

// payloadOf wraps a raw search response.
func payloadOf(raw string) domain.SearchPayload {
	p, err := domain.ParseSearchPayload([]byte(raw))
	if err != nil {
		panic(err)
	}
	return p
}
