package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/clawshield/internal/utils"
)

const (
	backupSuffixTemplateConstant       = "%s.bak-%s"
	backupStampLayoutConstant          = "2006-01-02T15:04:05.000Z07:00"
	configurationFileModeConstant      = 0o600
	configurationDirectoryModeConstant = 0o700
	backupErrorTemplateConstant        = "back up %s: %w"
	writeErrorTemplateConstant         = "write %s: %w"
	encodeErrorTemplateConstant        = "encode configuration: %w"
	indentConstant                     = "  "
)

// Plan is the result of merging a profile into a configuration document.
type Plan struct {
	Merged  map[string]any
	Changes []Change
}

// BuildPlan merges profile into document and lists the resulting changes.
func BuildPlan(document map[string]any, profile Document) Plan {
	if document == nil {
		document = map[string]any{}
	}
	merged, _ := DeepMerge(document, profile.Map()).(map[string]any)
	return Plan{Merged: merged, Changes: Diff(document, merged)}
}

// Writer persists merged configuration documents.
type Writer struct {
	clock utils.Clock
}

// NewWriter constructs a Writer. A nil clock uses the system clock.
func NewWriter(clock utils.Clock) *Writer {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &Writer{clock: clock}
}

// BackupPath returns the backup location for configPath at the writer's current time.
func (writer *Writer) BackupPath(configPath string) string {
	stamp := writer.clock.Now().UTC().Format(backupStampLayoutConstant)
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return fmt.Sprintf(backupSuffixTemplateConstant, configPath, stamp)
}

// Write copies an existing file at configPath to a timestamped backup and then writes
// document as indented JSON. The returned backup path is empty when no file existed.
func (writer *Writer) Write(configPath string, document map[string]any) (string, error) {
	encoded, encodeError := json.MarshalIndent(document, "", indentConstant)
	if encodeError != nil {
		return "", fmt.Errorf(encodeErrorTemplateConstant, encodeError)
	}
	encoded = append(encoded, '\n')

	fileMode := fs.FileMode(configurationFileModeConstant)
	backupPath := ""
	existing, readError := os.ReadFile(configPath)
	switch {
	case readError == nil:
		if info, statError := os.Stat(configPath); statError == nil {
			fileMode = info.Mode().Perm()
		}
		backupPath = writer.BackupPath(configPath)
		if backupError := os.WriteFile(backupPath, existing, fileMode); backupError != nil {
			return "", fmt.Errorf(backupErrorTemplateConstant, configPath, backupError)
		}
	case errors.Is(readError, fs.ErrNotExist):
		if directoryError := os.MkdirAll(filepath.Dir(configPath), configurationDirectoryModeConstant); directoryError != nil {
			return "", fmt.Errorf(writeErrorTemplateConstant, configPath, directoryError)
		}
	default:
		return "", fmt.Errorf(backupErrorTemplateConstant, configPath, readError)
	}

	if writeError := os.WriteFile(configPath, encoded, fileMode); writeError != nil {
		return backupPath, fmt.Errorf(writeErrorTemplateConstant, configPath, writeError)
	}
	return backupPath, nil
}
