package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

// mockSearchClient implements driven.SearchClient for testing.
type mockSearchClient struct {
	payload domain.SearchPayload
	err     error

	gotIndex domain.SearchIndex
	gotQuery domain.SearchQuery
	calls    int
}

func (m *mockSearchClient) Search(
	_ context.Context, index domain.SearchIndex, query domain.SearchQuery,
) (domain.SearchPayload, error) {
	m.calls++
	m.gotIndex = index
	m.gotQuery = query
	return m.payload, m.err
}

// mockFetcher implements driven.ContentFetcher for testing.
// Items are keyed by path; failures by path return the mapped error.
type mockFetcher struct {
	mu       sync.Mutex
	failures map[string]error
	delays   map[string]time.Duration
	calls    []string
	versions []domain.VersionDescriptor
	inFlight int
	peak     int
}

func (m *mockFetcher) FetchItem(
	ctx context.Context, repositoryID, path, projectID string, version domain.VersionDescriptor,
) (domain.FileItem, error) {
	m.mu.Lock()
	m.calls = append(m.calls, path)
	m.versions = append(m.versions, version)
	m.inFlight++
	if m.inFlight > m.peak {
		m.peak = m.inFlight
	}
	delay := m.delays[path]
	failure := m.failures[path]
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return domain.FileItem{}, ctx.Err()
		}
	}

	if failure != nil {
		return domain.FileItem{}, failure
	}

	return domain.FileItem{
		ObjectID: repositoryID + ":" + projectID,
		CommitID: version.Version,
		Path:     path,
		Content:  "content of " + path,
	}, nil
}

// codeHit builds a raw hit addressed by path.
func codeHit(path string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"fileName":"f","path":%q,"project":{"id":"proj"},"repository":{"id":"repo"},"versions":[{"branchName":"main","changeId":"c-%s"}]}`,
		path, path))
}

func hitsFor(paths ...string) []json.RawMessage {
	hits := make([]json.RawMessage, len(paths))
	for i, p := range paths {
		hits[i] = codeHit(p)
	}
	return hits
}
