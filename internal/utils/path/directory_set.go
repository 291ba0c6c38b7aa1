package pathutils

import (
	"path/filepath"
	"runtime"
	"strings"
)

const windowsOperatingSystemConstant = "windows"

// DirectorySetNormalizer turns loosely specified directory lists into an ordered set of absolute paths.
type DirectorySetNormalizer struct {
	homeExpander *HomeExpander
}

// NewDirectorySetNormalizer constructs a normalizer that expands home shortcuts with the provided expander.
func NewDirectorySetNormalizer(homeExpander *HomeExpander) *DirectorySetNormalizer {
	if homeExpander == nil {
		homeExpander = NewUserHomeExpander()
	}
	return &DirectorySetNormalizer{homeExpander: homeExpander}
}

// Normalize trims, expands, and absolutizes each candidate, drops empty entries, and removes duplicates.
// The first occurrence of a directory keeps its position.
func (normalizer *DirectorySetNormalizer) Normalize(candidatePaths []string) []string {
	var homeExpander *HomeExpander
	if normalizer != nil {
		homeExpander = normalizer.homeExpander
	}

	seenComparisonPaths := make(map[string]struct{}, len(candidatePaths))
	normalizedPaths := make([]string, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		trimmedCandidate := strings.TrimSpace(candidatePath)
		if len(trimmedCandidate) == 0 {
			continue
		}

		canonicalPath := CanonicalizePath(homeExpander.Expand(trimmedCandidate))
		comparison := comparisonPath(canonicalPath)
		if _, alreadySeen := seenComparisonPaths[comparison]; alreadySeen {
			continue
		}

		seenComparisonPaths[comparison] = struct{}{}
		normalizedPaths = append(normalizedPaths, canonicalPath)
	}

	if len(normalizedPaths) == 0 {
		return nil
	}
	return normalizedPaths
}

// CanonicalizePath cleans the path and resolves it against the working directory when it is relative.
func CanonicalizePath(path string) string {
	cleanedPath := filepath.Clean(path)
	absolutePath, absoluteError := filepath.Abs(cleanedPath)
	if absoluteError == nil {
		return filepath.Clean(absolutePath)
	}
	return cleanedPath
}

func comparisonPath(path string) string {
	comparison := filepath.Clean(path)
	if runtime.GOOS == windowsOperatingSystemConstant {
		comparison = strings.ToLower(comparison)
	}
	return comparison
}
