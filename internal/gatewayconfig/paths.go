package gatewayconfig

import (
	"os"
	"path/filepath"
	"strings"

	pathutils "github.com/temirov/clawshield/internal/utils/path"
)

const (
	// ConfigPathEnvironmentVariable overrides the default gateway configuration location.
	ConfigPathEnvironmentVariable = "OPENCLAW_CONFIG_PATH"

	openClawDirectoryNameConstant  = ".openclaw"
	configFileNameConstant         = "openclaw.json"
	workspaceDirectoryNameConstant = "workspace"
	skillsDirectoryNameConstant    = "skills"
)

// EnvironmentLookup resolves an environment variable.
type EnvironmentLookup func(name string) (string, bool)

// Environment carries the process state path resolution depends on.
type Environment struct {
	HomeDirectory  string
	LookupVariable EnvironmentLookup
}

// ProcessEnvironment captures the current user's home directory and environment lookup.
func ProcessEnvironment() Environment {
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		homeDirectory = ""
	}
	return Environment{HomeDirectory: homeDirectory, LookupVariable: os.LookupEnv}
}

func (environment Environment) lookup(name string) string {
	if environment.LookupVariable == nil {
		return ""
	}
	value, found := environment.LookupVariable(name)
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}

func (environment Environment) homeExpander() *pathutils.HomeExpander {
	return pathutils.NewHomeExpander(environment.HomeDirectory)
}

// ResolveConfigPath returns the override, else OPENCLAW_CONFIG_PATH, else ~/.openclaw/openclaw.json.
func ResolveConfigPath(overridePath string, environment Environment) string {
	expander := environment.homeExpander()
	if trimmedOverride := strings.TrimSpace(overridePath); len(trimmedOverride) > 0 {
		return expander.Expand(trimmedOverride)
	}
	if environmentPath := environment.lookup(ConfigPathEnvironmentVariable); len(environmentPath) > 0 {
		return expander.Expand(environmentPath)
	}
	return filepath.Join(environment.HomeDirectory, openClawDirectoryNameConstant, configFileNameConstant)
}

// ResolveWorkspacePath returns agents.defaults.workspace, else workspace, else ~/.openclaw/workspace.
func ResolveWorkspacePath(configuration Config, environment Environment) string {
	expander := environment.homeExpander()
	for _, candidate := range []string{configuration.Agents.Defaults.Workspace, configuration.Workspace} {
		if trimmedCandidate := strings.TrimSpace(candidate); len(trimmedCandidate) > 0 {
			return expander.Expand(trimmedCandidate)
		}
	}
	return filepath.Join(environment.HomeDirectory, openClawDirectoryNameConstant, workspaceDirectoryNameConstant)
}

// SkillDirectories lists the candidate skill roots in enumeration order:
// the workspace skills directory, the shared user directory, then configured extras.
func SkillDirectories(workspacePath string, configuration Config, environment Environment) []string {
	candidates := []string{
		filepath.Join(workspacePath, skillsDirectoryNameConstant),
		filepath.Join(environment.HomeDirectory, openClawDirectoryNameConstant, skillsDirectoryNameConstant),
	}
	candidates = append(candidates, configuration.Skills.ExtraDirectories()...)

	return pathutils.NewDirectorySetNormalizer(environment.homeExpander()).Normalize(candidates)
}

// Snapshot is the resolved view of the gateway environment handed to commands.
type Snapshot struct {
	ConfigPath       string
	Load             LoadResult
	WorkspacePath    string
	SkillDirectories []string
}

// Resolve locates, loads, and interprets the gateway configuration once.
func Resolve(overridePath string, environment Environment) Snapshot {
	return ResolveWithReader(overridePath, environment, os.ReadFile)
}

// ResolveWithReader is Resolve with an explicit file reader.
func ResolveWithReader(overridePath string, environment Environment, readFile FileReader) Snapshot {
	configPath := ResolveConfigPath(overridePath, environment)
	loadResult := LoadWithReader(configPath, readFile)
	workspacePath := ResolveWorkspacePath(loadResult.Config, environment)

	return Snapshot{
		ConfigPath:       configPath,
		Load:             loadResult,
		WorkspacePath:    workspacePath,
		SkillDirectories: SkillDirectories(workspacePath, loadResult.Config, environment),
	}
}
