package domain

import "encoding/json"

// Version descriptor values used to address a commit.
const (
	VersionTypeCommit  = "commit"
	VersionOptionsNone = "none"
)

// VersionDescriptor addresses an exact revision of a file.
type VersionDescriptor struct {
	Version        string `json:"version"`
	VersionType    string `json:"versionType"`
	VersionOptions string `json:"versionOptions"`
}

// FileItem is a Git item as returned by the source control service.
type FileItem struct {
	ObjectID        string           `json:"objectId,omitempty"`
	GitObjectType   string           `json:"gitObjectType,omitempty"`
	CommitID        string           `json:"commitId,omitempty"`
	Path            string           `json:"path,omitempty"`
	IsFolder        bool             `json:"isFolder,omitempty"`
	Content         string           `json:"content,omitempty"`
	ContentMetadata *ContentMetadata `json:"contentMetadata,omitempty"`
	URL             string           `json:"url,omitempty"`
}

// ContentMetadata describes the encoding and type of a file item's content.
type ContentMetadata struct {
	Encoding    int    `json:"encoding,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	Extension   string `json:"extension,omitempty"`
	IsBinary    bool   `json:"isBinary,omitempty"`
	IsImage     bool   `json:"isImage,omitempty"`
	VSLink      string `json:"vsLink,omitempty"`
}

// EnrichedResult is the outcome of enriching one hit: either EnrichedContent
// or EnrichedError.
type EnrichedResult interface {
	enrichedResult()
}

// EnrichedContent holds the fetched file of a hit.
type EnrichedContent struct {
	Content FileItem `json:"content"`
}

// EnrichedError holds the reason a hit could not be enriched.
type EnrichedError struct {
	Message string `json:"error"`
}

func (EnrichedContent) enrichedResult() {}
func (EnrichedError) enrichedResult()   {}

// CodeSearchResult combines the enriched hits with the raw search payload,
// so callers keep access to facets and counts.
type CodeSearchResult struct {
	Enriched []EnrichedResult
	Payload  SearchPayload
}

// MarshalEnriched serializes enriched results as a JSON array of
// {"content": ...} and {"error": ...} objects.
func MarshalEnriched(results []EnrichedResult) ([]byte, error) {
	if results == nil {
		results = []EnrichedResult{}
	}
	return json.Marshal(results)
}
