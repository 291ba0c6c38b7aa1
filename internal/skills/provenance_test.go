package skills_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/clawshield/internal/skills"
)

func TestParseProvenanceManifest(testInstance *testing.T) {
	testCases := []struct {
		name        string
		manifest    string
		expectError bool
		expected    skills.ProvenanceMap
	}{
		{
			name:     "skills_collection",
			manifest: `{"skills": [{"name": "weather", "version": "1.2.0", "source": "clawdhub"}]}`,
			expected: skills.ProvenanceMap{"weather": {Name: "weather", Version: "1.2.0", Source: "clawdhub"}},
		},
		{
			name:     "packages_with_alternate_fields",
			manifest: `{"packages": [{"slug": "notes", "tag": "v2", "registry": "https://hub.example"}, {"id": 7, "commit": "abc123", "repo": "git@example:x"}]}`,
			expected: skills.ProvenanceMap{
				"notes": {Name: "notes", Version: "v2", Source: "https://hub.example"},
				"7":     {Name: "7", Version: "abc123", Source: "git@example:x"},
			},
		},
		{
			name:     "items_first_duplicate_wins",
			manifest: `{"items": [{"name": "dup", "version": "1"}, {"name": "dup", "version": "2"}, {"version": "orphan"}, "bogus"]}`,
			expected: skills.ProvenanceMap{"dup": {Name: "dup", Version: "1"}},
		},
		{
			name:     "no_known_collection",
			manifest: `{"other": []}`,
			expected: skills.ProvenanceMap{},
		},
		{
			name:     "comments_and_trailing_commas",
			manifest: "{\n  // pinned by the hub client\n  \"skills\": [{\"name\": \"weather\", \"version\": 3,},],\n}",
			expected: skills.ProvenanceMap{"weather": {Name: "weather", Version: "3"}},
		},
		{
			name:        "corrupt_manifest",
			manifest:    `{"skills": [`,
			expectError: true,
			expected:    skills.ProvenanceMap{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			provenanceMap, parseError := skills.ParseProvenanceManifest([]byte(testCase.manifest))
			if testCase.expectError {
				require.Error(testInstance, parseError)
			} else {
				require.NoError(testInstance, parseError)
			}
			require.Equal(testInstance, testCase.expected, provenanceMap)
		})
	}
}

func TestResolveProvenanceAbsentManifest(testInstance *testing.T) {
	workspacePath := testInstance.TempDir()

	provenanceMap, resolveError := skills.ResolveProvenance(skills.ProvenanceManifestPath(workspacePath))
	require.NoError(testInstance, resolveError)
	require.Empty(testInstance, provenanceMap)

	manifestPath := skills.ProvenanceManifestPath(workspacePath)
	require.Equal(testInstance, filepath.Join(workspacePath, ".clawdhub", "lock.json"), manifestPath)
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(manifestPath), 0o755))
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte(`{"skills":[{"name":"a","version":"1"}]}`), 0o644))

	provenanceMap, resolveError = skills.ResolveProvenance(manifestPath)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, &skills.Provenance{Name: "a", Version: "1"}, provenanceMap.Lookup("a"))
	require.Nil(testInstance, provenanceMap.Lookup("b"))
}
