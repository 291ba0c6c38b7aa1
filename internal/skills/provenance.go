package skills

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tidwall/jsonc"
)

const (
	provenanceDirectoryNameConstant = ".clawdhub"
	provenanceFileNameConstant      = "lock.json"
)

var (
	manifestCollectionKeys = []string{"skills", "packages", "items"}
	manifestNameKeys       = []string{"name", "slug", "id"}
	manifestVersionKeys    = []string{"version", "tag", "commit"}
	manifestSourceKeys     = []string{"source", "registry", "repo"}
)

// ProvenanceManifestPath returns the location of the third-party skill manifest for a workspace.
func ProvenanceManifestPath(workspacePath string) string {
	return filepath.Join(workspacePath, provenanceDirectoryNameConstant, provenanceFileNameConstant)
}

// ResolveProvenance reads the manifest at manifestPath. An absent or unparseable
// manifest yields an empty map; the returned error is informational only.
func ResolveProvenance(manifestPath string) (ProvenanceMap, error) {
	contents, readError := os.ReadFile(manifestPath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return ProvenanceMap{}, nil
		}
		return ProvenanceMap{}, readError
	}
	return ParseProvenanceManifest(contents)
}

// ParseProvenanceManifest extracts provenance entries from manifest contents.
// Comments and trailing commas are accepted. When a name appears more than once the first entry wins.
func ParseProvenanceManifest(contents []byte) (ProvenanceMap, error) {
	var manifest map[string]any
	if unmarshalError := json.Unmarshal(jsonc.ToJSON(contents), &manifest); unmarshalError != nil {
		return ProvenanceMap{}, unmarshalError
	}

	provenanceMap := ProvenanceMap{}
	for _, entry := range manifestEntries(manifest) {
		entryFields, isObject := entry.(map[string]any)
		if !isObject {
			continue
		}

		skillName := firstScalar(entryFields, manifestNameKeys)
		if len(skillName) == 0 {
			continue
		}
		if _, alreadyMapped := provenanceMap[skillName]; alreadyMapped {
			continue
		}

		provenanceMap[skillName] = Provenance{
			Name:    skillName,
			Version: firstScalar(entryFields, manifestVersionKeys),
			Source:  firstScalar(entryFields, manifestSourceKeys),
		}
	}

	return provenanceMap, nil
}

func manifestEntries(manifest map[string]any) []any {
	for _, collectionKey := range manifestCollectionKeys {
		if entries, isList := manifest[collectionKey].([]any); isList {
			return entries
		}
	}
	return nil
}

func firstScalar(fields map[string]any, keys []string) string {
	for _, key := range keys {
		if value := scalarString(fields[key]); len(value) > 0 {
			return value
		}
	}
	return ""
}

func scalarString(value any) string {
	switch typedValue := value.(type) {
	case string:
		return typedValue
	case float64:
		return strconv.FormatFloat(typedValue, 'f', -1, 64)
	case bool:
		if typedValue {
			return strconv.FormatBool(typedValue)
		}
		return ""
	case nil:
		return ""
	default:
		return fmt.Sprint(typedValue)
	}
}
