package gatewayconfig

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Config captures the gateway settings clawshield inspects.
type Config struct {
	Gateway   GatewayConfig            `json:"gateway"`
	Session   SessionConfig            `json:"session"`
	Channels  map[string]ChannelConfig `json:"channels"`
	Agents    AgentsConfig             `json:"agents"`
	Tools     ToolsConfig              `json:"tools"`
	Skills    SkillsConfig             `json:"skills"`
	Workspace string                   `json:"workspace"`
}

// GatewayConfig describes the network surface of the gateway.
type GatewayConfig struct {
	Bind      *string         `json:"bind"`
	Port      int             `json:"port"`
	Auth      GatewayAuth     `json:"auth"`
	ControlUI ControlUIConfig `json:"controlUi"`
}

// GatewayAuth describes how clients authenticate against the gateway.
type GatewayAuth struct {
	Mode     string `json:"mode"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// HasSecret reports whether a token or password is configured.
func (auth GatewayAuth) HasSecret() bool {
	return len(auth.Token) > 0 || len(auth.Password) > 0
}

// ControlUIConfig toggles the browser control panel.
type ControlUIConfig struct {
	Enabled bool `json:"enabled"`
}

// SessionConfig holds session routing settings.
type SessionConfig struct {
	DMScope string `json:"dmScope"`
}

// ChannelConfig holds per-channel messaging policy.
type ChannelConfig struct {
	DMPolicy string              `json:"dmPolicy"`
	DM       DirectMessageConfig `json:"dm"`
	Groups   any                 `json:"groups"`
}

// DirectMessageConfig is the nested form of the DM policy.
type DirectMessageConfig struct {
	Policy   string `json:"policy"`
	DMPolicy string `json:"dmPolicy"`
}

// GroupConfig holds the mention gating flags of a group chat.
type GroupConfig struct {
	RequireMention  bool `json:"requireMention"`
	MentionRequired bool `json:"mentionRequired"`
}

// RequiresMention reports whether either mention flag is set.
func (group GroupConfig) RequiresMention() bool {
	return group.RequireMention || group.MentionRequired
}

// EffectiveDMPolicy returns the first DM policy found among the accepted spellings.
func (channel ChannelConfig) EffectiveDMPolicy() string {
	for _, candidate := range []string{channel.DMPolicy, channel.DM.Policy, channel.DM.DMPolicy} {
		if len(candidate) > 0 {
			return candidate
		}
	}
	return ""
}

// GroupSettings returns the keyed group settings. Array forms and undecodable entries are ignored.
func (channel ChannelConfig) GroupSettings() map[string]GroupConfig {
	rawGroups, isMap := channel.Groups.(map[string]any)
	if !isMap {
		return nil
	}

	groups := make(map[string]GroupConfig, len(rawGroups))
	for groupName, rawGroup := range rawGroups {
		var group GroupConfig
		if decodeError := decodeDocument(rawGroup, &group); decodeError != nil {
			groups[groupName] = GroupConfig{}
			continue
		}
		groups[groupName] = group
	}
	return groups
}

// AgentsConfig holds agent-wide settings.
type AgentsConfig struct {
	Defaults AgentDefaults `json:"defaults"`
}

// AgentDefaults holds settings applied to every agent.
type AgentDefaults struct {
	Workspace string        `json:"workspace"`
	Sandbox   SandboxConfig `json:"sandbox"`
}

// SandboxConfig describes agent sandboxing.
type SandboxConfig struct {
	Mode string `json:"mode"`
}

// ToolsConfig describes the tool restriction policy.
type ToolsConfig struct {
	Allow   []string `json:"allow"`
	Deny    []string `json:"deny"`
	Profile any      `json:"profile"`
}

// HasPolicy reports whether any allow, deny, or profile restriction is present.
func (tools ToolsConfig) HasPolicy() bool {
	if len(tools.Allow) > 0 || len(tools.Deny) > 0 {
		return true
	}
	switch profile := tools.Profile.(type) {
	case nil:
		return false
	case string:
		return len(strings.TrimSpace(profile)) > 0
	case bool:
		return profile
	default:
		return true
	}
}

// SkillsConfig describes extra skill locations.
type SkillsConfig struct {
	Load      SkillsLoadConfig `json:"load"`
	ExtraDirs []string         `json:"extraDirs"`
}

// SkillsLoadConfig is the nested form of the extra skill directories.
type SkillsLoadConfig struct {
	ExtraDirs []string `json:"extraDirs"`
}

// ExtraDirectories prefers skills.load.extraDirs over skills.extraDirs.
func (skills SkillsConfig) ExtraDirectories() []string {
	if len(skills.Load.ExtraDirs) > 0 {
		return skills.Load.ExtraDirs
	}
	return skills.ExtraDirs
}

const jsonTagNameConstant = "json"

func decodeDocument(input any, target any) error {
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          jsonTagNameConstant,
		WeaklyTypedInput: true,
		Result:           target,
	})
	if decoderError != nil {
		return decoderError
	}
	return decoder.Decode(input)
}
