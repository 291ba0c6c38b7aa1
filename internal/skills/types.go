package skills

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	provenanceNameFieldConstant    = "name"
	provenanceVersionFieldConstant = "version"
	provenanceSourceFieldConstant  = "source"
)

// Provenance is origin metadata borrowed from a third-party skill manifest.
type Provenance struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Source  string `json:"source,omitempty"`
}

// UnmarshalJSON accepts numeric or boolean fields, which other lock writers copy
// through from their manifests. A value that is not an object decodes as empty.
func (provenance *Provenance) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if unmarshalError := json.Unmarshal(data, &fields); unmarshalError != nil {
		*provenance = Provenance{}
		return nil
	}
	*provenance = Provenance{
		Name:    scalarString(fields[provenanceNameFieldConstant]),
		Version: scalarString(fields[provenanceVersionFieldConstant]),
		Source:  scalarString(fields[provenanceSourceFieldConstant]),
	}
	return nil
}

// ProvenanceMap maps skill names to provenance.
type ProvenanceMap map[string]Provenance

// Lookup returns the provenance recorded for the skill name, if any.
func (provenanceMap ProvenanceMap) Lookup(skillName string) *Provenance {
	provenance, found := provenanceMap[skillName]
	if !found {
		return nil
	}
	return &provenance
}

// SkillRecord describes one discovered skill. Path is the identity key.
type SkillRecord struct {
	Name       string      `json:"name"`
	Path       string      `json:"path"`
	Digest     string      `json:"hash"`
	FileCount  int         `json:"files"`
	Provenance *Provenance `json:"source"`
}

// LockRecord is the persisted integrity baseline of a workspace.
type LockRecord struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Root        string        `json:"root"`
	Skills      []SkillRecord `json:"skills"`
}

// Status classifies a skill against the lock record.
type Status string

// Reconciliation statuses.
const (
	StatusUnchanged Status = "OK"
	StatusNew       Status = "NEW"
	StatusChanged   Status = "CHANGED"
	StatusMissing   Status = "MISSING"
)

// IsDrift reports whether the status represents a divergence from the lock record.
func (status Status) IsDrift() bool {
	return status != StatusUnchanged
}

// ReconciliationEntry is the classification of a single skill path.
type ReconciliationEntry struct {
	Status Status `json:"status"`
	Name   string `json:"name"`
	Path   string `json:"path"`
}

// ReconciliationResult lists every classified path and whether the workspace matches its lock.
type ReconciliationResult struct {
	OK      bool                  `json:"ok"`
	Entries []ReconciliationEntry `json:"entries"`
}

// Count returns the number of entries carrying the status.
func (result ReconciliationResult) Count(status Status) int {
	count := 0
	for _, entry := range result.Entries {
		if entry.Status == status {
			count++
		}
	}
	return count
}

const (
	hashErrorTemplateConstant = "unable to hash skill %s: reading %s: %v"
)

// HashError reports a file that could not be read while hashing a skill.
// The digest for SkillPath is not produced.
type HashError struct {
	SkillPath string
	FilePath  string
	Err       error
}

// Error describes the failed read.
func (hashError HashError) Error() string {
	return fmt.Sprintf(hashErrorTemplateConstant, hashError.SkillPath, hashError.FilePath, hashError.Err)
}

// Unwrap exposes the underlying read error.
func (hashError HashError) Unwrap() error {
	return hashError.Err
}
