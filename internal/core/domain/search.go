package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SearchIndex identifies one of the search indexes of an organization.
type SearchIndex string

const (
	IndexCode     SearchIndex = "code"
	IndexWiki     SearchIndex = "wiki"
	IndexWorkItem SearchIndex = "workitem"
)

// AllSearchIndexes returns every supported index.
func AllSearchIndexes() []SearchIndex {
	return []SearchIndex{IndexCode, IndexWiki, IndexWorkItem}
}

// ParseSearchIndex converts a string to a SearchIndex.
func ParseSearchIndex(s string) (SearchIndex, error) {
	switch SearchIndex(s) {
	case IndexCode, IndexWiki, IndexWorkItem:
		return SearchIndex(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedIndex, s)
	}
}

// Endpoint returns the REST resource name of the index.
func (i SearchIndex) Endpoint() string {
	switch i {
	case IndexCode:
		return "codesearchresults"
	case IndexWiki:
		return "wikisearchresults"
	case IndexWorkItem:
		return "workitemsearchresults"
	default:
		return ""
	}
}

// DefaultTop returns the page size used when the caller gives none.
func (i SearchIndex) DefaultTop() int {
	if i == IndexCode {
		return 5
	}
	return 10
}

// Filter categories understood by the search service.
const (
	FilterProject     = "Project"
	FilterRepository  = "Repository"
	FilterPath        = "Path"
	FilterBranch      = "Branch"
	FilterCodeElement = "CodeElement"
	FilterWiki        = "Wiki"

	FilterTeamProject  = "System.TeamProject"
	FilterAreaPath     = "System.AreaPath"
	FilterWorkItemType = "System.WorkItemType"
	FilterState        = "System.State"
	FilterAssignedTo   = "System.AssignedTo"
)

// SearchQuery is the request body sent to a search index.
type SearchQuery struct {
	// SearchText is the free-text query.
	SearchText string `json:"searchText" validate:"required"`

	// Skip is the number of hits to skip.
	Skip int `json:"$skip" validate:"gte=0"`

	// Top is the page size. It also bounds code search enrichment.
	Top int `json:"$top" validate:"gte=0"`

	// Filters maps a filter category to the accepted values.
	Filters map[string][]string `json:"filters,omitempty"`

	// IncludeFacets asks the index to return facet counts.
	IncludeFacets bool `json:"includeFacets"`
}

// AddFilter appends values to a filter category. Empty values are ignored.
func (q *SearchQuery) AddFilter(category string, values ...string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		if q.Filters == nil {
			q.Filters = make(map[string][]string)
		}
		q.Filters[category] = append(q.Filters[category], v)
	}
}

// ParseSearchQuery decodes a request body. Unknown fields are rejected.
func ParseSearchQuery(data []byte) (SearchQuery, error) {
	return decodeQuery(data, SearchQuery{})
}

// ParseQuery decodes a request body for the index. Fields absent from the
// body keep their defaults, e.g. $top is DefaultTop.
func (i SearchIndex) ParseQuery(data []byte) (SearchQuery, error) {
	return decodeQuery(data, SearchQuery{Top: i.DefaultTop()})
}

func decodeQuery(data []byte, q SearchQuery) (SearchQuery, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&q); err != nil {
		return SearchQuery{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return q, nil
}

// SearchPayload is the untouched response of a search index together with
// its hit records.
type SearchPayload struct {
	// Raw is the response body as returned by the service.
	Raw json.RawMessage

	// Count is the total number of matches reported by the service.
	Count int

	// Hits are the ranked hit records in service order.
	Hits []json.RawMessage
}

// ParseSearchPayload parses a search response body. A body without a
// results field has zero hits; an empty body reads as {}.
func ParseSearchPayload(body []byte) (SearchPayload, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte(`{}`)
	}

	var envelope struct {
		Count   int               `json:"count"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return SearchPayload{}, fmt.Errorf("decode search payload: %w", err)
	}

	return SearchPayload{
		Raw:   json.RawMessage(body),
		Count: envelope.Count,
		Hits:  envelope.Results,
	}, nil
}
