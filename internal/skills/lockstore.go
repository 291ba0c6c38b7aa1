package skills

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/clawshield/internal/utils"
)

const (
	lockDirectoryNameConstant           = ".clawshield"
	lockFileNameConstant                = "skills.lock.json"
	lockTemporaryPatternConstant        = ".skills.lock.*.tmp"
	lockDirectoryPermissionsConstant    = 0o755
	lockFilePermissionsConstant         = 0o644
	lockCreateDirectoryTemplateConstant = "unable to create lock directory %s: %w"
	lockEncodeTemplateConstant          = "unable to encode lock record: %w"
	lockWriteTemplateConstant           = "unable to write lock file %s: %w"
	lockReadTemplateConstant            = "unable to read lock file %s: %w"
	lockGeneratedAtFieldConstant        = "generatedAt"
	lockRootFieldConstant               = "root"
	lockSkillsFieldConstant             = "skills"
)

// LockStore persists lock records under the workspace's private state directory.
type LockStore struct {
	clock utils.Clock
}

// NewLockStore constructs a LockStore. A nil clock uses the system clock.
func NewLockStore(clock utils.Clock) *LockStore {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &LockStore{clock: clock}
}

// LockPath returns the lock file location for a workspace.
func LockPath(workspacePath string) string {
	return filepath.Join(workspacePath, lockDirectoryNameConstant, lockFileNameConstant)
}

// Write replaces the workspace lock file with a fresh record of the skills and returns its path and the record.
// The file is written to a temporary sibling and renamed into place, so readers see either
// the previous record or the new one.
func (store *LockStore) Write(workspacePath string, skillRecords []SkillRecord) (string, LockRecord, error) {
	lockPath := LockPath(workspacePath)
	lockDirectory := filepath.Dir(lockPath)

	if skillRecords == nil {
		skillRecords = []SkillRecord{}
	}
	record := LockRecord{
		GeneratedAt: store.clock.Now().UTC(),
		Root:        workspacePath,
		Skills:      skillRecords,
	}

	encodedRecord, encodeError := json.MarshalIndent(record, "", "  ")
	if encodeError != nil {
		return "", LockRecord{}, fmt.Errorf(lockEncodeTemplateConstant, encodeError)
	}

	if mkdirError := os.MkdirAll(lockDirectory, lockDirectoryPermissionsConstant); mkdirError != nil {
		return "", LockRecord{}, fmt.Errorf(lockCreateDirectoryTemplateConstant, lockDirectory, mkdirError)
	}

	if writeError := writeFileAtomically(lockDirectory, lockPath, encodedRecord); writeError != nil {
		return "", LockRecord{}, fmt.Errorf(lockWriteTemplateConstant, lockPath, writeError)
	}

	return lockPath, record, nil
}

// Read loads the workspace lock record. found is false when no lock file exists.
// A lock file that is not valid JSON yields an empty record rather than an error,
// and skill entries that cannot be decoded are skipped.
func (store *LockStore) Read(workspacePath string) (LockRecord, bool, error) {
	lockPath := LockPath(workspacePath)

	contents, readError := os.ReadFile(lockPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return LockRecord{}, false, nil
		}
		return LockRecord{}, false, fmt.Errorf(lockReadTemplateConstant, lockPath, readError)
	}

	return decodeLockRecord(contents), true, nil
}

// decodeLockRecord decodes each top-level field and skill entry on its own.
// Fields or entries of the wrong shape are dropped instead of discarding the whole record.
func decodeLockRecord(contents []byte) LockRecord {
	var document map[string]json.RawMessage
	if unmarshalError := json.Unmarshal(contents, &document); unmarshalError != nil {
		return LockRecord{}
	}

	var record LockRecord
	if rawGeneratedAt, present := document[lockGeneratedAtFieldConstant]; present {
		_ = json.Unmarshal(rawGeneratedAt, &record.GeneratedAt)
	}
	if rawRoot, present := document[lockRootFieldConstant]; present {
		_ = json.Unmarshal(rawRoot, &record.Root)
	}

	var rawSkills []json.RawMessage
	if unmarshalError := json.Unmarshal(document[lockSkillsFieldConstant], &rawSkills); unmarshalError != nil {
		return record
	}
	for _, rawSkill := range rawSkills {
		var skillRecord SkillRecord
		if unmarshalError := json.Unmarshal(rawSkill, &skillRecord); unmarshalError != nil {
			continue
		}
		record.Skills = append(record.Skills, skillRecord)
	}
	return record
}

func writeFileAtomically(directory string, destinationPath string, contents []byte) error {
	temporaryFile, createError := os.CreateTemp(directory, lockTemporaryPatternConstant)
	if createError != nil {
		return createError
	}
	temporaryPath := temporaryFile.Name()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(temporaryPath)
		}
	}()

	if _, writeError := temporaryFile.Write(contents); writeError != nil {
		_ = temporaryFile.Close()
		return writeError
	}
	if syncError := temporaryFile.Sync(); syncError != nil {
		_ = temporaryFile.Close()
		return syncError
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return closeError
	}
	if chmodError := os.Chmod(temporaryPath, lockFilePermissionsConstant); chmodError != nil {
		return chmodError
	}
	if renameError := os.Rename(temporaryPath, destinationPath); renameError != nil {
		return renameError
	}

	committed = true
	return nil
}
