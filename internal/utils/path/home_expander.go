package pathutils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	homeShortcutConstant          = "~"
	homeShortcutSlashConstant     = "~/"
	unixPathSeparatorCharConstant = '/'
)

// HomeExpander resolves "~" shortcuts against a fixed home directory.
type HomeExpander struct {
	homeDirectory string
}

// NewHomeExpander returns an expander for homeDirectory. An empty home leaves every path unchanged.
func NewHomeExpander(homeDirectory string) *HomeExpander {
	return &HomeExpander{homeDirectory: strings.TrimSpace(homeDirectory)}
}

// NewUserHomeExpander returns an expander for the current user's home directory.
func NewUserHomeExpander() *HomeExpander {
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		return NewHomeExpander("")
	}
	return NewHomeExpander(homeDirectory)
}

// HomeDirectory reports the directory shortcuts expand to.
func (expander *HomeExpander) HomeDirectory() string {
	if expander == nil {
		return ""
	}
	return expander.homeDirectory
}

// Expand replaces a leading "~" or "~/" with the home directory.
// The native separator form is honored on Windows. Other-user forms such as "~alice/skills" are returned unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	homeDirectory := expander.HomeDirectory()
	if len(homeDirectory) == 0 || !strings.HasPrefix(candidatePath, homeShortcutConstant) {
		return candidatePath
	}

	if candidatePath == homeShortcutConstant {
		return homeDirectory
	}
	if relativePath, found := strings.CutPrefix(candidatePath, homeShortcutSlashConstant); found {
		return filepath.Join(homeDirectory, relativePath)
	}
	if os.PathSeparator != unixPathSeparatorCharConstant {
		if relativePath, found := strings.CutPrefix(candidatePath, homeShortcutConstant+string(os.PathSeparator)); found {
			return filepath.Join(homeDirectory, relativePath)
		}
	}
	return candidatePath
}
