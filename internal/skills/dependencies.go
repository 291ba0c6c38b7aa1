package skills

import "context"

// SkillDiscoverer finds and hashes skills under candidate roots.
type SkillDiscoverer interface {
	Discover(executionContext context.Context, candidateRoots []string, provenanceMap ProvenanceMap) ([]SkillRecord, error)
}

// LockRepository persists and loads workspace lock records.
type LockRepository interface {
	Write(workspacePath string, skillRecords []SkillRecord) (string, LockRecord, error)
	Read(workspacePath string) (LockRecord, bool, error)
}

// ProvenanceResolver loads provenance for a workspace.
type ProvenanceResolver func(workspacePath string) (ProvenanceMap, error)

// Workspace is the resolved location of the skills a command operates on.
type Workspace struct {
	Path             string
	SkillDirectories []string
}

// WorkspaceProvider resolves the workspace at command run time.
type WorkspaceProvider func() Workspace
