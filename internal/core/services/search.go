package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
	"github.com/custodia-labs/azdo-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/azdo-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/azdo-mcp/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService runs searches against the organization's indexes.
// Code hits are enriched with file content; wiki and work item hits are
// returned as the service sent them.
type SearchService struct {
	client   driven.SearchClient
	enricher *Enricher
	validate *validator.Validate
}

// NewSearchService creates a new search service.
func NewSearchService(client driven.SearchClient, enricher *Enricher) *SearchService {
	return &SearchService{
		client:   client,
		enricher: enricher,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// SearchCode searches the code index and enriches the top hits.
func (s *SearchService) SearchCode(ctx context.Context, query domain.SearchQuery) (domain.CodeSearchResult, error) {
	logger.Section("Code Search")

	payload, err := s.search(ctx, domain.IndexCode, query)
	if err != nil {
		return domain.CodeSearchResult{}, err
	}

	enriched, err := s.enricher.Enrich(ctx, payload.Hits, query.Top)
	if err != nil {
		return domain.CodeSearchResult{}, fmt.Errorf("enrich: %w", err)
	}

	failed := 0
	for _, r := range enriched {
		if _, ok := r.(domain.EnrichedError); ok {
			failed++
		}
	}
	logger.Debug("Enriched %d hits, %d failed", len(enriched), failed)

	return domain.CodeSearchResult{Enriched: enriched, Payload: payload}, nil
}

// SearchWiki searches wiki pages.
func (s *SearchService) SearchWiki(ctx context.Context, query domain.SearchQuery) (domain.SearchPayload, error) {
	logger.Section("Wiki Search")
	return s.search(ctx, domain.IndexWiki, query)
}

// SearchWorkItems searches work items.
func (s *SearchService) SearchWorkItems(ctx context.Context, query domain.SearchQuery) (domain.SearchPayload, error) {
	logger.Section("Work Item Search")
	return s.search(ctx, domain.IndexWorkItem, query)
}

func (s *SearchService) search(
	ctx context.Context, index domain.SearchIndex, query domain.SearchQuery,
) (domain.SearchPayload, error) {
	if err := s.validateQuery(query); err != nil {
		return domain.SearchPayload{}, err
	}

	logger.Debug("Query: %q, skip=%d, top=%d, filters=%v", query.SearchText, query.Skip, query.Top, query.Filters)

	payload, err := s.client.Search(ctx, index, query)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return domain.SearchPayload{}, fmt.Errorf("%s search: %w", index, err)
	}

	logger.Debug("Search returned %d hits (count=%d)", len(payload.Hits), payload.Count)
	return payload, nil
}

// validateQuery checks the struct tags on domain.SearchQuery.
func (s *SearchService) validateQuery(query domain.SearchQuery) error {
	err := s.validate.Struct(query)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, ", "))
}
