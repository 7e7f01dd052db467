package services

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
	"github.com/custodia-labs/azdo-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/azdo-mcp/internal/logger"
)

// DefaultMaxConcurrentFetches bounds in-flight content fetches per call.
const DefaultMaxConcurrentFetches = 5

// Enricher merges code search hits with their file content.
type Enricher struct {
	fetcher     driven.ContentFetcher
	concurrency int
}

// NewEnricher creates an Enricher. A concurrency below 1 uses
// DefaultMaxConcurrentFetches.
func NewEnricher(fetcher driven.ContentFetcher, concurrency int) *Enricher {
	if concurrency < 1 {
		concurrency = DefaultMaxConcurrentFetches
	}
	return &Enricher{
		fetcher:     fetcher,
		concurrency: concurrency,
	}
}

// Enrich fetches content for the first min(limit, len(hits)) hits.
//
// The result has one entry per processed hit, in hit order. A hit that
// cannot be addressed or whose fetch fails yields an EnrichedError in its
// slot; other hits are unaffected. Only cancellation of ctx fails the call.
func (e *Enricher) Enrich(ctx context.Context, hits []json.RawMessage, limit int) ([]domain.EnrichedResult, error) {
	n := min(max(limit, 0), len(hits))
	results := make([]domain.EnrichedResult, n)
	if n == 0 {
		return results, nil
	}

	logger.Debug("Enriching %d of %d hits", n, len(hits))

	// Each goroutine owns results[i]; errors never reach the group.
	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)
	for i := range n {
		g.Go(func() error {
			results[i] = e.enrichOne(ctx, i, hits[i])
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// enrichOne is the failure boundary for a single hit.
func (e *Enricher) enrichOne(ctx context.Context, index int, hit json.RawMessage) domain.EnrichedResult {
	addr, err := domain.AddressOf(hit)
	if err != nil {
		logger.Warn("Hit %d skipped: %v", index, err)
		return domain.EnrichedError{Message: err.Error()}
	}

	item, err := e.fetcher.FetchItem(ctx, addr.RepositoryID, addr.Path, addr.ProjectID, addr.VersionDescriptor())
	if err != nil {
		logger.Warn("Hit %d fetch failed: %v", index, err)
		return domain.EnrichedError{Message: err.Error()}
	}

	return domain.EnrichedContent{Content: item}
}
