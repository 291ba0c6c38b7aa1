package gatewayconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/clawshield/internal/gatewayconfig"
)

const (
	testConfigWithCommentsConstant = `{
  // gateway surface
  "gateway": {
    "bind": "0.0.0.0",
    "port": "18790",
    "auth": { "mode": "token", "token": "secret" },
    "controlUi": { "enabled": true },
  },
  "session": { "dmScope": "pairing" },
  "channels": {
    "telegram": {
      "dm": { "policy": "open" },
      "groups": { "family": { "requireMention": true }, "work": {} }
    },
    "slack": { "dmPolicy": "pairing", "groups": [] }
  },
  "agents": { "defaults": { "workspace": "~/agents", "sandbox": { "mode": "non-main" } } },
  "tools": { "deny": "exec" },
  "skills": { "load": { "extraDirs": ["/opt/skills"] } },
  "custom": { "kept": [1, 2] }
}`
	testConfigPathConstant = "/etc/openclaw/openclaw.json"
)

func TestParseDecodesCommentedConfiguration(testInstance *testing.T) {
	configuration, document, parseError := gatewayconfig.Parse([]byte(testConfigWithCommentsConstant))
	require.NoError(testInstance, parseError)

	require.NotNil(testInstance, configuration.Gateway.Bind)
	require.Equal(testInstance, "0.0.0.0", *configuration.Gateway.Bind)
	require.Equal(testInstance, 18790, configuration.Gateway.Port)
	require.True(testInstance, configuration.Gateway.Auth.HasSecret())
	require.True(testInstance, configuration.Gateway.ControlUI.Enabled)
	require.Equal(testInstance, "pairing", configuration.Session.DMScope)
	require.Equal(testInstance, "open", configuration.Channels["telegram"].EffectiveDMPolicy())
	require.Equal(testInstance, "pairing", configuration.Channels["slack"].EffectiveDMPolicy())
	require.Nil(testInstance, configuration.Channels["slack"].GroupSettings())

	telegramGroups := configuration.Channels["telegram"].GroupSettings()
	require.True(testInstance, telegramGroups["family"].RequiresMention())
	require.False(testInstance, telegramGroups["work"].RequiresMention())

	require.Equal(testInstance, "non-main", configuration.Agents.Defaults.Sandbox.Mode)
	require.Equal(testInstance, []string{"exec"}, configuration.Tools.Deny)
	require.True(testInstance, configuration.Tools.HasPolicy())
	require.Equal(testInstance, []string{"/opt/skills"}, configuration.Skills.ExtraDirectories())
	require.Contains(testInstance, document, "custom")
}

func TestParseRejectsInvalidDocuments(testInstance *testing.T) {
	testCases := []struct {
		name     string
		contents string
	}{
		{name: "malformed", contents: `{"gateway": `},
		{name: "null_document", contents: `null`},
		{name: "array_document", contents: `[1, 2]`},
		{name: "wrong_shape", contents: `{"gateway": "loopback"}`},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, _, parseError := gatewayconfig.Parse([]byte(testCase.contents))
			require.Error(testInstance, parseError)
		})
	}
}

func TestLoadReportsFailuresInResult(testInstance *testing.T) {
	testCases := []struct {
		name         string
		reader       gatewayconfig.FileReader
		expectFailed bool
		expectedBind string
	}{
		{
			name: "readable_config",
			reader: func(string) ([]byte, error) {
				return []byte(`{"gateway": {"bind": "loopback"}}`), nil
			},
			expectedBind: "loopback",
		},
		{
			name: "unreadable_config",
			reader: func(string) ([]byte, error) {
				return nil, errors.New("permission denied")
			},
			expectFailed: true,
		},
		{
			name: "corrupt_config",
			reader: func(string) ([]byte, error) {
				return []byte(`{{`), nil
			},
			expectFailed: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			result := gatewayconfig.LoadWithReader(testConfigPathConstant, testCase.reader)
			require.Equal(testInstance, testConfigPathConstant, result.Path)
			require.Equal(testInstance, testCase.expectFailed, result.Failed())
			require.NotNil(testInstance, result.Document)
			if testCase.expectFailed {
				require.Nil(testInstance, result.Config.Gateway.Bind)
				return
			}
			require.Equal(testInstance, testCase.expectedBind, *result.Config.Gateway.Bind)
		})
	}
}

func TestLoadReadsFromDisk(testInstance *testing.T) {
	configPath := filepath.Join(testInstance.TempDir(), "openclaw.json")
	require.NoError(testInstance, os.WriteFile(configPath, []byte(`{"workspace": "/srv/ws",}`), 0o600))

	result := gatewayconfig.Load(configPath)
	require.False(testInstance, result.Failed())
	require.Equal(testInstance, "/srv/ws", result.Config.Workspace)

	missingResult := gatewayconfig.Load(filepath.Join(testInstance.TempDir(), "absent.json"))
	require.True(testInstance, missingResult.Failed())
}
