package profile

import (
	"errors"
	"fmt"
)

const (
	// SafeProfileName names the hardened profile.
	SafeProfileName = "safe"
	// TokenPlaceholder stands in for the gateway token when none is supplied.
	TokenPlaceholder = "REPLACE_WITH_STRONG_TOKEN"

	loopbackBindConstant       = "loopback"
	tokenAuthModeConstant      = "token"
	pairingScopeConstant       = "pairing"
	nonMainSandboxModeConstant = "non-main"

	gatewayKeyConstant  = "gateway"
	bindKeyConstant     = "bind"
	authKeyConstant     = "auth"
	modeKeyConstant     = "mode"
	tokenKeyConstant    = "token"
	sessionKeyConstant  = "session"
	dmScopeKeyConstant  = "dmScope"
	agentsKeyConstant   = "agents"
	defaultsKeyConstant = "defaults"
	sandboxKeyConstant  = "sandbox"
)

// ErrUnknownProfile indicates a profile name other than the supported ones.
var ErrUnknownProfile = errors.New("unknown profile")

// Document is a gateway configuration fragment. Field order matches the rendered snippet.
type Document struct {
	Gateway GatewaySection `json:"gateway" yaml:"gateway"`
	Session SessionSection `json:"session" yaml:"session"`
	Agents  AgentsSection  `json:"agents" yaml:"agents"`
}

// GatewaySection configures the gateway listener.
type GatewaySection struct {
	Bind string      `json:"bind" yaml:"bind"`
	Auth AuthSection `json:"auth" yaml:"auth"`
}

// AuthSection configures gateway authentication.
type AuthSection struct {
	Mode  string `json:"mode" yaml:"mode"`
	Token string `json:"token" yaml:"token"`
}

// SessionSection configures session scoping.
type SessionSection struct {
	DMScope string `json:"dmScope" yaml:"dmScope"`
}

// AgentsSection configures agent defaults.
type AgentsSection struct {
	Defaults AgentDefaultsSection `json:"defaults" yaml:"defaults"`
}

// AgentDefaultsSection holds the default agent sandbox.
type AgentDefaultsSection struct {
	Sandbox SandboxSection `json:"sandbox" yaml:"sandbox"`
}

// SandboxSection selects which agents run sandboxed.
type SandboxSection struct {
	Mode string `json:"mode" yaml:"mode"`
}

// SafeProfile binds the gateway to loopback, requires token auth, scopes DMs to pairing,
// and sandboxes non-main agents. An empty token selects TokenPlaceholder.
func SafeProfile(token string) Document {
	if len(token) == 0 {
		token = TokenPlaceholder
	}
	return Document{
		Gateway: GatewaySection{Bind: loopbackBindConstant, Auth: AuthSection{Mode: tokenAuthModeConstant, Token: token}},
		Session: SessionSection{DMScope: pairingScopeConstant},
		Agents:  AgentsSection{Defaults: AgentDefaultsSection{Sandbox: SandboxSection{Mode: nonMainSandboxModeConstant}}},
	}
}

// Lookup returns the named profile.
func Lookup(name string, token string) (Document, error) {
	if name != SafeProfileName {
		return Document{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return SafeProfile(token), nil
}

// Map returns the profile as a generic document suitable for merging.
func (document Document) Map() map[string]any {
	return map[string]any{
		gatewayKeyConstant: map[string]any{
			bindKeyConstant: document.Gateway.Bind,
			authKeyConstant: map[string]any{
				modeKeyConstant:  document.Gateway.Auth.Mode,
				tokenKeyConstant: document.Gateway.Auth.Token,
			},
		},
		sessionKeyConstant: map[string]any{
			dmScopeKeyConstant: document.Session.DMScope,
		},
		agentsKeyConstant: map[string]any{
			defaultsKeyConstant: map[string]any{
				sandboxKeyConstant: map[string]any{
					modeKeyConstant: document.Agents.Defaults.Sandbox.Mode,
				},
			},
		},
	}
}
