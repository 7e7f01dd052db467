package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

var (
	searchTop    int
	searchSkip   int
	searchFacets bool
	searchJSON   bool
	searchBody   string

	searchProjects   []string
	searchRepos      []string
	searchPaths      []string
	searchBranches   []string
	searchElements   []string
	searchWikis      []string
	searchAreaPaths  []string
	searchTypes      []string
	searchStates     []string
	searchAssignedTo []string
)

var searchCmd = &cobra.Command{
	Use:   "search {code|wiki|workitem} [text...]",
	Short: "Search Azure DevOps",
	Long: `Runs a search against the code, wiki or work item index of the organization.

Code search fetches the content of the top results (--top, default 5) at the
commit the index saw. A file that cannot be fetched is reported in place of
its content; the other results are unaffected.

A request body can be given as JSON with --body instead of flags; unknown
fields are rejected.

Examples:
  azdo-mcp search code "CreateUser" --project Fabrikam --top 3
  azdo-mcp search workitem login --state Active --type Bug
  azdo-mcp search wiki onboarding --json
  azdo-mcp search code --body query.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.IntVarP(&searchTop, "top", "n", -1, "maximum number of results (default 5 for code, 10 otherwise)")
	f.IntVar(&searchSkip, "skip", 0, "number of results to skip")
	f.BoolVar(&searchFacets, "facets", false, "include facet counts")
	f.BoolVar(&searchJSON, "json", false, "output results as JSON")
	f.StringVar(&searchBody, "body", "", "read the query from a JSON file (- for stdin)")

	f.StringSliceVar(&searchProjects, "project", nil, "filter by project")
	f.StringSliceVar(&searchRepos, "repository", nil, "filter by repository (code)")
	f.StringSliceVar(&searchPaths, "path", nil, "filter by path (code)")
	f.StringSliceVar(&searchBranches, "branch", nil, "filter by branch (code)")
	f.StringSliceVar(&searchElements, "code-element", nil, "filter by code element, e.g. class or def (code)")
	f.StringSliceVar(&searchWikis, "wiki", nil, "filter by wiki (wiki)")
	f.StringSliceVar(&searchAreaPaths, "area-path", nil, "filter by area path (workitem)")
	f.StringSliceVar(&searchTypes, "type", nil, "filter by work item type (workitem)")
	f.StringSliceVar(&searchStates, "state", nil, "filter by state (workitem)")
	f.StringSliceVar(&searchAssignedTo, "assigned-to", nil, "filter by assignee (workitem)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	index, err := domain.ParseSearchIndex(args[0])
	if err != nil {
		return err
	}

	query, err := buildQuery(cmd, index, args[1:])
	if err != nil {
		return err
	}

	if err := setupServices(); err != nil {
		return err
	}

	ctx := cmd.Context()
	switch index {
	case domain.IndexCode:
		result, err := searchService.SearchCode(ctx, query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if searchJSON {
			return outputCodeJSON(cmd, result)
		}
		return outputCodeTable(cmd, result)

	case domain.IndexWiki, domain.IndexWorkItem:
		search := searchService.SearchWiki
		if index == domain.IndexWorkItem {
			search = searchService.SearchWorkItems
		}
		payload, err := search(ctx, query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if searchJSON {
			return outputRawJSON(cmd, payload.Raw)
		}
		return outputHitTable(cmd, payload)
	}

	return fmt.Errorf("%w: %s", domain.ErrUnsupportedIndex, index)
}

// buildQuery reads the query from --body or from the arguments and flags.
func buildQuery(cmd *cobra.Command, index domain.SearchIndex, words []string) (domain.SearchQuery, error) {
	if searchBody != "" {
		if len(words) > 0 {
			return domain.SearchQuery{}, errors.New("search text and --body are mutually exclusive")
		}
		data, err := readBody(cmd, searchBody)
		if err != nil {
			return domain.SearchQuery{}, err
		}
		return index.ParseQuery(data)
	}

	if len(words) == 0 {
		return domain.SearchQuery{}, errors.New("search text is required")
	}

	q := domain.SearchQuery{
		SearchText:    strings.Join(words, " "),
		Skip:          searchSkip,
		Top:           index.DefaultTop(),
		IncludeFacets: searchFacets,
	}
	if searchTop >= 0 {
		q.Top = searchTop
	}

	switch index {
	case domain.IndexCode:
		q.AddFilter(domain.FilterProject, searchProjects...)
		q.AddFilter(domain.FilterRepository, searchRepos...)
		q.AddFilter(domain.FilterPath, searchPaths...)
		q.AddFilter(domain.FilterBranch, searchBranches...)
		q.AddFilter(domain.FilterCodeElement, searchElements...)
	case domain.IndexWiki:
		q.AddFilter(domain.FilterProject, searchProjects...)
		q.AddFilter(domain.FilterWiki, searchWikis...)
	case domain.IndexWorkItem:
		q.AddFilter(domain.FilterTeamProject, searchProjects...)
		q.AddFilter(domain.FilterAreaPath, searchAreaPaths...)
		q.AddFilter(domain.FilterWorkItemType, searchTypes...)
		q.AddFilter(domain.FilterState, searchStates...)
		q.AddFilter(domain.FilterAssignedTo, searchAssignedTo...)
	}
	return q, nil
}

func readBody(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(cmd.InOrStdin()); err != nil {
			return nil, fmt.Errorf("read query from stdin: %w", err)
		}
		return []byte(buf.String()), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read query: %w", err)
	}
	return data, nil
}

func outputCodeJSON(cmd *cobra.Command, result domain.CodeSearchResult) error {
	enriched, err := domain.MarshalEnriched(result.Enriched)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	payload := result.Payload.Raw
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}

	data, err := json.MarshalIndent(struct {
		Enriched json.RawMessage `json:"enriched"`
		Payload  json.RawMessage `json:"payload"`
	}{enriched, payload}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRawJSON(cmd *cobra.Command, raw json.RawMessage) error {
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputCodeTable(cmd *cobra.Command, result domain.CodeSearchResult) error {
	if len(result.Enriched) == 0 {
		cmd.Printf("No results found (%d matches).\n", result.Payload.Count)
		return nil
	}

	cmd.Printf("Results: %d of %d matches\n\n", len(result.Enriched), result.Payload.Count)
	for i, r := range result.Enriched {
		title := fmt.Sprintf("result %d", i+1)
		if i < len(result.Payload.Hits) {
			title = hitTitle(result.Payload.Hits[i])
		}
		cmd.Printf("  [%d] %s\n", i+1, title)

		switch r := r.(type) {
		case domain.EnrichedContent:
			cmd.Printf("      %d bytes at %s\n", len(r.Content.Content), shortCommit(r.Content.CommitID))
		case domain.EnrichedError:
			cmd.Printf("      error: %s\n", r.Message)
		}
	}
	return nil
}

func outputHitTable(cmd *cobra.Command, payload domain.SearchPayload) error {
	if len(payload.Hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results: %d of %d matches\n\n", len(payload.Hits), payload.Count)
	for i, hit := range payload.Hits {
		cmd.Printf("  [%d] %s\n", i+1, hitTitle(hit))
	}
	return nil
}

// hitTitle picks a display line from a code, wiki or work item hit.
func hitTitle(raw json.RawMessage) string {
	var hit struct {
		FileName string `json:"fileName"`
		Path     string `json:"path"`
		Project  struct {
			Name string `json:"name"`
		} `json:"project"`
		Repository struct {
			Name string `json:"name"`
		} `json:"repository"`
		Wiki struct {
			Name string `json:"name"`
		} `json:"wiki"`
		Fields map[string]any `json:"fields"`
	}
	if err := json.Unmarshal(raw, &hit); err != nil {
		return "(unreadable hit)"
	}

	if title, ok := hit.Fields["system.title"].(string); ok {
		return fmt.Sprintf("#%v %s [%v, %v]", hit.Fields["system.id"], title,
			hit.Fields["system.workitemtype"], hit.Fields["system.state"])
	}

	container := hit.Repository.Name
	if container == "" {
		container = hit.Wiki.Name
	}
	path := hit.Path
	if path == "" {
		path = hit.FileName
	}
	if container == "" {
		return fmt.Sprintf("%s (%s)", path, hit.Project.Name)
	}
	return fmt.Sprintf("%s/%s:%s", hit.Project.Name, container, path)
}

func shortCommit(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "unknown commit"
	}
	return id
}
