package skills

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMarkerFileName is the document that marks a directory as a skill.
	DefaultMarkerFileName = "SKILL.md"
	// DefaultWorkerCount bounds concurrent skill hashing.
	DefaultWorkerCount = 4

	skillHashedLogMessageConstant      = "hashed skill"
	skillRootSkippedLogMessageConstant = "skipping unreadable skill root"
	logFieldSkillPathConstant          = "skill_path"
	logFieldSkillRootConstant          = "skill_root"
	logFieldDigestConstant             = "digest"
	logFieldFileCountConstant          = "file_count"
)

// SkillHasher digests a skill directory.
type SkillHasher interface {
	Hash(skillPath string) (SkillDigest, error)
}

// Discoverer finds skills under candidate roots and hashes them.
type Discoverer struct {
	logger         *zap.Logger
	hasher         SkillHasher
	markerFileName string
	workerCount    int
}

// DiscovererOptions configures a Discoverer. Zero values select defaults.
type DiscovererOptions struct {
	Logger         *zap.Logger
	Hasher         SkillHasher
	MarkerFileName string
	WorkerCount    int
}

// NewDiscoverer constructs a Discoverer.
func NewDiscoverer(options DiscovererOptions) *Discoverer {
	discoverer := &Discoverer{
		logger:         options.Logger,
		hasher:         options.Hasher,
		markerFileName: options.MarkerFileName,
		workerCount:    options.WorkerCount,
	}
	if discoverer.logger == nil {
		discoverer.logger = zap.NewNop()
	}
	if discoverer.hasher == nil {
		discoverer.hasher = NewContentHasher()
	}
	if len(discoverer.markerFileName) == 0 {
		discoverer.markerFileName = DefaultMarkerFileName
	}
	if discoverer.workerCount < 1 {
		discoverer.workerCount = DefaultWorkerCount
	}
	return discoverer
}

// Discover returns one record per qualifying skill in root order, then directory listing order.
// A skill name found under several roots produces several records.
// Hashing runs concurrently and completes before Discover returns; the first HashError aborts discovery.
func (discoverer *Discoverer) Discover(executionContext context.Context, candidateRoots []string, provenanceMap ProvenanceMap) ([]SkillRecord, error) {
	records := discoverer.listSkills(candidateRoots)
	if len(records) == 0 {
		return nil, nil
	}

	hashGroup, groupContext := errgroup.WithContext(executionContext)
	hashGroup.SetLimit(discoverer.workerCount)

	for recordIndex := range records {
		hashGroup.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}

			skillDigest, hashError := discoverer.hasher.Hash(records[recordIndex].Path)
			if hashError != nil {
				return hashError
			}

			records[recordIndex].Digest = skillDigest.Digest
			records[recordIndex].FileCount = skillDigest.FileCount
			discoverer.logger.Debug(
				skillHashedLogMessageConstant,
				zap.String(logFieldSkillPathConstant, records[recordIndex].Path),
				zap.String(logFieldDigestConstant, skillDigest.Digest),
				zap.Int(logFieldFileCountConstant, skillDigest.FileCount),
			)
			return nil
		})
	}

	if waitError := hashGroup.Wait(); waitError != nil {
		return nil, waitError
	}

	for recordIndex := range records {
		records[recordIndex].Provenance = provenanceMap.Lookup(records[recordIndex].Name)
	}

	return records, nil
}

func (discoverer *Discoverer) listSkills(candidateRoots []string) []SkillRecord {
	var records []SkillRecord
	for _, candidateRoot := range candidateRoots {
		entries, readError := os.ReadDir(candidateRoot)
		if readError != nil {
			if !os.IsNotExist(readError) {
				discoverer.logger.Debug(skillRootSkippedLogMessageConstant, zap.String(logFieldSkillRootConstant, candidateRoot), zap.Error(readError))
			}
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			skillPath := filepath.Join(candidateRoot, entry.Name())
			if _, statError := os.Stat(filepath.Join(skillPath, discoverer.markerFileName)); statError != nil {
				continue
			}
			records = append(records, SkillRecord{Name: entry.Name(), Path: skillPath})
		}
	}
	return records
}
