package pathutils_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/clawshield/internal/utils/path"
)

const (
	testHomeDirectoryConstant = "/home/operator"
)

func TestDirectorySetNormalizerNormalize(testInstance *testing.T) {
	normalizer := pathutils.NewDirectorySetNormalizer(pathutils.NewHomeExpander(testHomeDirectoryConstant))

	workspaceSkills := filepath.Join(testHomeDirectoryConstant, ".openclaw", "workspace", "skills")
	sharedSkills := filepath.Join(testHomeDirectoryConstant, ".openclaw", "skills")

	testCases := []struct {
		name          string
		candidates    []string
		expectedPaths []string
	}{
		{
			name:          "keeps_order_and_expands_home",
			candidates:    []string{workspaceSkills, "~/.openclaw/skills"},
			expectedPaths: []string{workspaceSkills, sharedSkills},
		},
		{
			name:          "drops_blank_and_duplicate_entries",
			candidates:    []string{"  ", workspaceSkills, sharedSkills + "/", "~/.openclaw/skills", ""},
			expectedPaths: []string{workspaceSkills, sharedSkills},
		},
		{
			name:          "empty_input",
			candidates:    []string{" "},
			expectedPaths: nil,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPaths, normalizer.Normalize(testCase.candidates))
		})
	}
}

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name          string
		homeDirectory string
		candidate     string
		expectedPath  string
	}{
		{name: "bare_tilde", homeDirectory: testHomeDirectoryConstant, candidate: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_prefix", homeDirectory: testHomeDirectoryConstant, candidate: "~/.openclaw/workspace", expectedPath: filepath.Join(testHomeDirectoryConstant, ".openclaw", "workspace")},
		{name: "absolute_path", homeDirectory: testHomeDirectoryConstant, candidate: "/srv/skills", expectedPath: "/srv/skills"},
		{name: "other_user_shortcut", homeDirectory: testHomeDirectoryConstant, candidate: "~someone/skills", expectedPath: "~someone/skills"},
		{name: "unknown_home_leaves_path", homeDirectory: " ", candidate: "~/.openclaw/skills", expectedPath: "~/.openclaw/skills"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, pathutils.NewHomeExpander(testCase.homeDirectory).Expand(testCase.candidate))
		})
	}
}

func TestNilHomeExpanderLeavesPathsUnchanged(testInstance *testing.T) {
	var homeExpander *pathutils.HomeExpander
	require.Equal(testInstance, "~/skills", homeExpander.Expand("~/skills"))
	require.Empty(testInstance, homeExpander.HomeDirectory())
}
