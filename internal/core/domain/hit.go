package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CodeHit is the addressing view of one code search hit.
// Fields the enrichment step does not need are left in the raw record.
type CodeHit struct {
	FileName string `json:"fileName"`
	Path     string `json:"path"`

	Project struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"project"`

	Repository struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"repository"`

	Versions []HitVersion `json:"versions"`
}

// HitVersion is one branch/commit pair a hit was found in.
type HitVersion struct {
	BranchName string `json:"branchName"`
	ChangeID   string `json:"changeId"`
}

// HitAddress locates the exact file revision a hit refers to.
type HitAddress struct {
	ProjectID    string
	RepositoryID string
	Path         string
	ChangeID     string
}

// VersionDescriptor returns the commit descriptor for the address.
func (a HitAddress) VersionDescriptor() VersionDescriptor {
	return VersionDescriptor{
		Version:        a.ChangeID,
		VersionType:    VersionTypeCommit,
		VersionOptions: VersionOptionsNone,
	}
}

// AddressOf extracts the addressing fields of a raw hit. Any missing field
// yields a *MalformedHitError carrying the serialized hit.
func AddressOf(raw json.RawMessage) (HitAddress, error) {
	var hit CodeHit
	if err := json.Unmarshal(raw, &hit); err != nil {
		return HitAddress{}, &MalformedHitError{Hit: raw}
	}

	addr := HitAddress{
		ProjectID:    hit.Project.ID,
		RepositoryID: hit.Repository.ID,
		Path:         hit.Path,
	}
	if len(hit.Versions) > 0 {
		addr.ChangeID = hit.Versions[0].ChangeID
	}

	if addr.ProjectID == "" || addr.RepositoryID == "" || addr.Path == "" || addr.ChangeID == "" {
		return HitAddress{}, &MalformedHitError{Hit: raw}
	}
	return addr, nil
}

// MalformedHitError reports a hit that cannot be enriched.
type MalformedHitError struct {
	Hit json.RawMessage
}

func (e *MalformedHitError) Error() string {
	return fmt.Sprintf("Missing projectId, repositoryId, filePath, or changeId in the result: %s",
		compactJSON(e.Hit))
}

// Unwrap allows errors.Is(err, ErrMalformedHit).
func (e *MalformedHitError) Unwrap() error {
	return ErrMalformedHit
}

func compactJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
