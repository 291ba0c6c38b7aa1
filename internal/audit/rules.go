package audit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/temirov/clawshield/internal/gatewayconfig"
)

const (
	authModeNoneConstant       = "none"
	dmPolicyPairingConstant    = "pairing"
	sandboxModeOffConstant     = "off"
	sandboxModeNonMainConstant = "non-main"
	sandboxModeAllConstant     = "all"
	unsetValueConstant         = "unset"
)

type bindClassification int

const (
	bindUnknown bindClassification = iota
	bindLoopback
	bindExposed
)

var (
	loopbackBindValues = map[string]struct{}{"loopback": {}, "localhost": {}, "::1": {}}
	exposedBindValues  = map[string]struct{}{"0.0.0.0": {}, "::": {}, "*": {}, "lan": {}, "tailnet": {}, "public": {}}
)

func classifyBind(bind *string) bindClassification {
	if bind == nil || len(*bind) == 0 {
		return bindUnknown
	}
	normalizedBind := strings.ToLower(*bind)
	if _, loopback := loopbackBindValues[normalizedBind]; loopback || strings.HasPrefix(normalizedBind, "127.") {
		return bindLoopback
	}
	if _, exposed := exposedBindValues[normalizedBind]; exposed {
		return bindExposed
	}
	return bindUnknown
}

// Evaluate applies every rule to the configuration. loadError is the read or parse
// failure reported by the configuration loader, if any.
func Evaluate(configuration gatewayconfig.Config, configPath string, loadError string) []Finding {
	var findings []Finding
	add := func(level Level, title string, details string, fix string) {
		findings = append(findings, Finding{Level: level, Title: title, Details: details, Fix: fix})
	}

	if len(loadError) > 0 {
		add(LevelWarn,
			"Config not readable",
			fmt.Sprintf("Could not read config at %s: %s", configPath, loadError),
			"Set OPENCLAW_CONFIG_PATH or fix file permissions.")
	}

	evaluateGateway(configuration.Gateway, add)

	if len(configuration.Session.DMScope) == 0 {
		add(LevelInfo,
			"No session dmScope configured",
			"session.dmScope is not set.",
			"Consider setting session.dmScope=pairing for safer DM routing.")
	}

	evaluateChannels(configuration.Channels, add)

	sandboxMode := configuration.Agents.Defaults.Sandbox.Mode
	switch sandboxMode {
	case "", sandboxModeOffConstant:
		reportedMode := sandboxMode
		if len(reportedMode) == 0 {
			reportedMode = unsetValueConstant
		}
		add(LevelWarn,
			"Non-main agents sandbox is not enabled",
			"agents.defaults.sandbox.mode="+reportedMode,
			"Set agents.defaults.sandbox.mode=non-main to restrict non-main agents.")
	case sandboxModeNonMainConstant, sandboxModeAllConstant:
		add(LevelPass,
			"Non-main agents sandbox enabled",
			"agents.defaults.sandbox.mode="+sandboxMode,
			"")
	}

	if !configuration.Tools.HasPolicy() {
		add(LevelInfo,
			"No tool restriction policy configured",
			"tools.allow/tools.deny/tools.profile are not set.",
			"Consider restricting tools for non-main agents.")
	}

	return findings
}

type findingRecorder func(level Level, title string, details string, fix string)

func evaluateGateway(gateway gatewayconfig.GatewayConfig, add findingRecorder) {
	switch classifyBind(gateway.Bind) {
	case bindExposed:
		authMode := gateway.Auth.Mode
		if len(authMode) == 0 || authMode == authModeNoneConstant {
			add(LevelFail,
				"Gateway bound to non-loopback without auth",
				fmt.Sprintf("gateway.bind=%s and gateway.auth.mode is not set. This can expose your control panel to your network or internet.", *gateway.Bind),
				"Set gateway.bind=loopback or set gateway.auth.mode=token with a strong token.")
		} else if !gateway.Auth.HasSecret() {
			add(LevelWarn,
				"Gateway auth enabled without token/password",
				"gateway.auth.mode is set, but no token/password is present.",
				"Set gateway.auth.token (or password) to a strong value.")
		}

		if gateway.ControlUI.Enabled {
			add(LevelWarn,
				"Control UI enabled on non-loopback",
				"gateway.controlUi.enabled is true while gateway.bind is non-loopback.",
				"Disable control UI or bind to loopback.")
		}
	case bindLoopback:
		add(LevelPass,
			"Gateway bind is loopback",
			fmt.Sprintf("gateway.bind=%s keeps control UI local.", *gateway.Bind),
			"")
	default:
		reportedBind := unsetValueConstant
		if gateway.Bind != nil {
			reportedBind = *gateway.Bind
		}
		add(LevelInfo,
			"Gateway bind is not explicitly set",
			fmt.Sprintf("gateway.bind is %s.", reportedBind),
			"Consider setting gateway.bind=loopback for safety.")
	}
}

func evaluateChannels(channels map[string]gatewayconfig.ChannelConfig, add findingRecorder) {
	if len(channels) == 0 {
		add(LevelInfo,
			"No channels configured",
			"channels is empty or missing.",
			"Skip channel-level checks.")
		return
	}

	for _, channelName := range sortedKeys(channels) {
		channel := channels[channelName]

		switch dmPolicy := channel.EffectiveDMPolicy(); {
		case dmPolicy == dmPolicyPairingConstant:
			add(LevelPass, fmt.Sprintf("Channel %s: DM policy is pairing", channelName), "", "")
		case len(dmPolicy) > 0:
			add(LevelWarn,
				fmt.Sprintf("Channel %s: DM policy is not pairing", channelName),
				"dmPolicy="+dmPolicy,
				"Set dmPolicy=pairing to require DM pairing.")
		}

		groups := channel.GroupSettings()
		for _, groupName := range sortedKeys(groups) {
			if groups[groupName].RequiresMention() {
				continue
			}
			add(LevelWarn,
				fmt.Sprintf("Channel %s group %s: mention not required", channelName, groupName),
				"Group chats without mention gating can be noisy or risky.",
				"Set requireMention=true for group chats.")
			break
		}
	}
}

func sortedKeys[Value any](values map[string]Value) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
