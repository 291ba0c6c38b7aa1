package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	integrationBinaryNameConstant             = "clawshield"
	integrationCommandTimeout                 = 30 * time.Second
	integrationBuildTimeout                   = 3 * time.Minute
	integrationLogLevelEnvironmentKeyConstant = "CLAWSHIELD_COMMON_LOG_LEVEL"
	integrationGatewayEnvironmentKeyConstant  = "OPENCLAW_CONFIG_PATH"
	integrationConfigurationMessageConstant   = "\"msg\":\"configuration initialized\""
	integrationHelpDescriptionSnippetConstant = "clawshield audits the gateway configuration"
	integrationEnvironmentAssignmentTemplate  = "%s=%s"
	integrationSkipShortMessageConstant       = "integration tests build the clawshield binary"
)

var integrationBinaryPath string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	buildDirectory, directoryError := os.MkdirTemp("", "clawshield-integration-*")
	if directoryError != nil {
		fmt.Fprintln(os.Stderr, directoryError)
		os.Exit(1)
	}

	binaryName := integrationBinaryNameConstant
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	integrationBinaryPath = filepath.Join(buildDirectory, binaryName)

	buildContext, cancelBuild := context.WithTimeout(context.Background(), integrationBuildTimeout)
	buildCommand := exec.CommandContext(buildContext, "go", "build", "-o", integrationBinaryPath, ".")
	buildOutput, buildError := buildCommand.CombinedOutput()
	cancelBuild()
	if buildError != nil {
		fmt.Fprintf(os.Stderr, "%v\n%s", buildError, buildOutput)
		_ = os.RemoveAll(buildDirectory)
		os.Exit(1)
	}

	exitCode := m.Run()
	_ = os.RemoveAll(buildDirectory)
	os.Exit(exitCode)
}

type integrationResult struct {
	standardOutput string
	standardError  string
	exitCode       int
}

func runIntegrationBinary(testInstance *testing.T, homeDirectory string, extraEnvironment []string, arguments ...string) integrationResult {
	testInstance.Helper()
	if testing.Short() || len(integrationBinaryPath) == 0 {
		testInstance.Skip(integrationSkipShortMessageConstant)
	}

	executionContext, cancel := context.WithTimeout(context.Background(), integrationCommandTimeout)
	defer cancel()

	command := exec.CommandContext(executionContext, integrationBinaryPath, arguments...)
	command.Dir = homeDirectory
	command.Env = append(os.Environ(), fmt.Sprintf(integrationEnvironmentAssignmentTemplate, "HOME", homeDirectory))
	command.Env = append(command.Env, extraEnvironment...)

	var standardOutput, standardError bytes.Buffer
	command.Stdout = &standardOutput
	command.Stderr = &standardError

	runError := command.Run()
	result := integrationResult{standardOutput: standardOutput.String(), standardError: standardError.String()}
	var exitError *exec.ExitError
	switch {
	case runError == nil:
	case errors.As(runError, &exitError):
		result.exitCode = exitError.ExitCode()
	default:
		require.NoError(testInstance, runError)
	}
	return result
}

func writeIntegrationFile(testInstance *testing.T, path string, contents string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(testInstance, os.WriteFile(path, []byte(contents), 0o600))
}

func TestIntegrationDisplaysHelpWhenNoArgumentsProvided(testInstance *testing.T) {
	result := runIntegrationBinary(testInstance, testInstance.TempDir(), nil)
	require.Equal(testInstance, 0, result.exitCode, result.standardError)
	require.Contains(testInstance, result.standardOutput, "Usage:")
	require.Contains(testInstance, result.standardOutput, integrationHelpDescriptionSnippetConstant)
}

func TestIntegrationLogLevels(testInstance *testing.T) {
	testCases := []struct {
		name             string
		environment      []string
		arguments        []string
		expectDiagnostic bool
	}{
		{
			name:             "default_info",
			arguments:        []string{"paths"},
			expectDiagnostic: false,
		},
		{
			name:             "environment_debug",
			environment:      []string{fmt.Sprintf(integrationEnvironmentAssignmentTemplate, integrationLogLevelEnvironmentKeyConstant, "debug")},
			arguments:        []string{"paths"},
			expectDiagnostic: true,
		},
		{
			name:             "flag_overrides_environment",
			environment:      []string{fmt.Sprintf(integrationEnvironmentAssignmentTemplate, integrationLogLevelEnvironmentKeyConstant, "debug")},
			arguments:        []string{"--log-level", "error", "paths"},
			expectDiagnostic: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			result := runIntegrationBinary(testInstance, testInstance.TempDir(), testCase.environment, testCase.arguments...)
			require.Equal(testInstance, 0, result.exitCode, result.standardError)
			if testCase.expectDiagnostic {
				require.Contains(testInstance, result.standardError, integrationConfigurationMessageConstant)
			} else {
				require.NotContains(testInstance, result.standardError, integrationConfigurationMessageConstant)
			}
		})
	}
}

func TestIntegrationPathsUsesGatewayEnvironmentOverride(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	gatewayConfig := filepath.Join(homeDirectory, "custom", "openclaw.json")
	writeIntegrationFile(testInstance, gatewayConfig, `{"workspace": "~/agent"}`)

	result := runIntegrationBinary(testInstance, homeDirectory, []string{fmt.Sprintf(integrationEnvironmentAssignmentTemplate, integrationGatewayEnvironmentKeyConstant, gatewayConfig)}, "paths")
	require.Equal(testInstance, 0, result.exitCode, result.standardError)
	require.Contains(testInstance, result.standardOutput, "Config: "+gatewayConfig+"\n")
	require.Contains(testInstance, result.standardOutput, "Workspace: "+filepath.Join(homeDirectory, "agent")+"\n")
}

func TestIntegrationVerifyExitCodes(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	skillDirectory := filepath.Join(homeDirectory, ".openclaw", "workspace", "skills", "calendar")
	writeIntegrationFile(testInstance, filepath.Join(skillDirectory, "SKILL.md"), "# calendar")

	missingLock := runIntegrationBinary(testInstance, homeDirectory, nil, "verify")
	require.Equal(testInstance, 2, missingLock.exitCode)
	require.Contains(testInstance, missingLock.standardOutput, "No lockfile found at ")

	lockResult := runIntegrationBinary(testInstance, homeDirectory, nil, "lock")
	require.Equal(testInstance, 0, lockResult.exitCode, lockResult.standardError)

	cleanResult := runIntegrationBinary(testInstance, homeDirectory, nil, "verify")
	require.Equal(testInstance, 0, cleanResult.exitCode, cleanResult.standardError)

	require.NoError(testInstance, os.RemoveAll(skillDirectory))
	driftResult := runIntegrationBinary(testInstance, homeDirectory, nil, "verify")
	require.Equal(testInstance, 2, driftResult.exitCode)
	require.Contains(testInstance, driftResult.standardOutput, "MISSING calendar (")
}

func TestIntegrationUnknownProfileFails(testInstance *testing.T) {
	result := runIntegrationBinary(testInstance, testInstance.TempDir(), nil, "apply", "lenient")
	require.Equal(testInstance, 1, result.exitCode)
	require.Contains(testInstance, result.standardError, "unknown profile: lenient")
}
