package skills_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testMarkerContentsConstant       = "# skill\n"
	testFilePermissionsConstant      = 0o644
	testDirectoryPermissionsConstant = 0o755
)

// writeTree creates files relative to root, creating parent directories as needed.
func writeTree(testInstance *testing.T, root string, files map[string]string) {
	testInstance.Helper()
	for relativePath, contents := range files {
		absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
		require.NoError(testInstance, os.MkdirAll(filepath.Dir(absolutePath), testDirectoryPermissionsConstant))
		require.NoError(testInstance, os.WriteFile(absolutePath, []byte(contents), testFilePermissionsConstant))
	}
}

// writeSkill creates a skill directory with a marker document plus the provided files.
func writeSkill(testInstance *testing.T, skillsRoot string, skillName string, files map[string]string) string {
	testInstance.Helper()
	skillPath := filepath.Join(skillsRoot, skillName)
	treeFiles := map[string]string{"SKILL.md": testMarkerContentsConstant}
	for relativePath, contents := range files {
		treeFiles[relativePath] = contents
	}
	writeTree(testInstance, skillPath, treeFiles)
	return skillPath
}

func removeDirectory(path string) error {
	return os.RemoveAll(path)
}
