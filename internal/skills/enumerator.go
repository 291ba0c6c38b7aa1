package skills

import (
	"io/fs"
	"path/filepath"
	"strings"
)

const hiddenEntryPrefixConstant = "."

var excludedDirectoryNames = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".clawdhub":    {},
	".clawshield":  {},
	"dist":         {},
}

// EnumerateFiles returns the regular files beneath root.
// Hidden entries and excluded directories are skipped, as are unreadable subtrees.
// A missing or unreadable root yields no files. Symbolic links are not followed.
func EnumerateFiles(root string) []string {
	var files []string

	_ = filepath.WalkDir(root, func(currentPath string, entry fs.DirEntry, walkError error) error {
		if walkError != nil {
			if entry != nil && entry.IsDir() && currentPath != root {
				return filepath.SkipDir
			}
			return nil
		}

		if currentPath == root {
			return nil
		}

		entryName := entry.Name()
		if strings.HasPrefix(entryName, hiddenEntryPrefixConstant) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if _, excluded := excludedDirectoryNames[entryName]; excluded {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type().IsRegular() {
			files = append(files, currentPath)
		}
		return nil
	})

	return files
}
