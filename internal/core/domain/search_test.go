package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchIndex(t *testing.T) {
	for _, idx := range AllSearchIndexes() {
		got, err := ParseSearchIndex(string(idx))
		require.NoError(t, err)
		assert.Equal(t, idx, got)
	}

	_, err := ParseSearchIndex("builds")
	assert.True(t, errors.Is(err, ErrUnsupportedIndex))
}

func TestSearchIndex_Endpoint(t *testing.T) {
	assert.Equal(t, "codesearchresults", IndexCode.Endpoint())
	assert.Equal(t, "wikisearchresults", IndexWiki.Endpoint())
	assert.Equal(t, "workitemsearchresults", IndexWorkItem.Endpoint())
	assert.Empty(t, SearchIndex("other").Endpoint())
}

func TestSearchIndex_DefaultTop(t *testing.T) {
	assert.Equal(t, 5, IndexCode.DefaultTop())
	assert.Equal(t, 10, IndexWiki.DefaultTop())
	assert.Equal(t, 10, IndexWorkItem.DefaultTop())
}

func TestSearchQuery_WireFormat(t *testing.T) {
	q := SearchQuery{SearchText: "foo", Skip: 2, Top: 5, IncludeFacets: true}
	q.AddFilter(FilterProject, "alpha", "")
	q.AddFilter(FilterBranch)

	data, err := json.Marshal(q)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"searchText":"foo","$skip":2,"$top":5,"filters":{"Project":["alpha"]},"includeFacets":true}`,
		string(data))
}

func TestSearchQuery_NoFiltersOmitted(t *testing.T) {
	data, err := json.Marshal(SearchQuery{SearchText: "foo", Top: 10})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "filters")
}

func TestParseSearchQuery(t *testing.T) {
	t.Run("accepts known fields", func(t *testing.T) {
		q, err := ParseSearchQuery([]byte(`{"searchText":"foo","$top":3,"filters":{"Path":["/src"]}}`))
		require.NoError(t, err)
		assert.Equal(t, "foo", q.SearchText)
		assert.Equal(t, 3, q.Top)
		assert.Equal(t, []string{"/src"}, q.Filters[FilterPath])
	})

	t.Run("rejects unknown top-level fields", func(t *testing.T) {
		_, err := ParseSearchQuery([]byte(`{"searchText":"foo","orderBy":"path"}`))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func TestSearchIndex_ParseQuery(t *testing.T) {
	q, err := IndexCode.ParseQuery([]byte(`{"searchText":"foo"}`))
	require.NoError(t, err)
	assert.Equal(t, 5, q.Top)

	q, err = IndexWiki.ParseQuery([]byte(`{"searchText":"foo","$top":0}`))
	require.NoError(t, err)
	assert.Equal(t, 0, q.Top)

	_, err = IndexWorkItem.ParseQuery([]byte(`{"searchText":"foo","top":3}`))
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestParseSearchPayload(t *testing.T) {
	t.Run("results in order", func(t *testing.T) {
		body := []byte(`{"count":2,"results":[{"path":"/a"},{"path":"/b"}],"facets":{}}`)
		p, err := ParseSearchPayload(body)
		require.NoError(t, err)
		assert.Equal(t, 2, p.Count)
		require.Len(t, p.Hits, 2)
		assert.JSONEq(t, `{"path":"/a"}`, string(p.Hits[0]))
		assert.Equal(t, string(body), string(p.Raw))
	})

	t.Run("missing results means zero hits", func(t *testing.T) {
		p, err := ParseSearchPayload([]byte(`{"count":0}`))
		require.NoError(t, err)
		assert.Empty(t, p.Hits)
	})

	t.Run("empty body means zero hits", func(t *testing.T) {
		for _, body := range []string{"", "  \n\t"} {
			p, err := ParseSearchPayload([]byte(body))
			require.NoError(t, err)
			assert.Zero(t, p.Count)
			assert.Empty(t, p.Hits)
			assert.JSONEq(t, `{}`, string(p.Raw))
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		_, err := ParseSearchPayload([]byte(`<html>`))
		assert.Error(t, err)
	})
}
