package exposure

import (
	"context"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/clawshield/internal/execshell"
)

const (
	// DefaultPort is the gateway's default listening port.
	DefaultPort = 18789

	windowsOperatingSystemConstant    = "windows"
	lsofNoHostLookupFlagConstant      = "-nP"
	lsofPortSelectorPrefixConstant    = "-iTCP:"
	lsofListenStateFlagConstant       = "-sTCP:LISTEN"
	netstatAllFlagConstant            = "-an"
	netstatWindowsFlagConstant        = "-ano"
	netstatProtocolFlagConstant       = "-p"
	netstatTCPProtocolConstant        = "TCP"
	detectionFailedMessageConstant    = "Unable to detect listeners"
	toolUnavailableLogMessageConstant = "listener source unavailable"
	logFieldToolConstant              = "tool"
)

// Checker inspects listening sockets on a port.
type Checker struct {
	executor        CommandExecutor
	logger          *zap.Logger
	operatingSystem string
}

// NewChecker constructs a Checker for the current operating system.
func NewChecker(executor CommandExecutor, logger *zap.Logger) *Checker {
	return NewCheckerForOperatingSystem(executor, logger, runtime.GOOS)
}

// NewCheckerForOperatingSystem constructs a Checker that issues the netstat flags of the named operating system.
func NewCheckerForOperatingSystem(executor CommandExecutor, logger *zap.Logger, operatingSystem string) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{executor: executor, logger: logger, operatingSystem: operatingSystem}
}

// Check reports the listeners on port. A non-positive port selects DefaultPort.
func (checker *Checker) Check(executionContext context.Context, port int) Report {
	if port <= 0 {
		port = DefaultPort
	}

	lsofResult, lsofError := checker.executor.ExecuteLsof(executionContext, execshell.CommandDetails{
		Arguments: []string{lsofNoHostLookupFlagConstant, lsofPortSelectorPrefixConstant + strconv.Itoa(port), lsofListenStateFlagConstant},
	})
	if lsofError == nil && len(strings.TrimSpace(lsofResult.StandardOutput)) > 0 {
		return buildReport(ToolLsof, port, ParseLsof(lsofResult.StandardOutput))
	}
	if lsofError != nil {
		checker.logger.Debug(toolUnavailableLogMessageConstant, zap.String(logFieldToolConstant, string(ToolLsof)), zap.Error(lsofError))
	}

	netstatResult, netstatError := checker.executor.ExecuteNetstat(executionContext, execshell.CommandDetails{Arguments: checker.netstatArguments()})
	if netstatError == nil && len(strings.TrimSpace(netstatResult.StandardOutput)) > 0 {
		return buildReport(ToolNetstat, port, ParseNetstat(netstatResult.StandardOutput, port))
	}
	if netstatError != nil {
		checker.logger.Debug(toolUnavailableLogMessageConstant, zap.String(logFieldToolConstant, string(ToolNetstat)), zap.Error(netstatError))
	}

	return Report{OK: false, Tool: ToolNone, Port: port, Listeners: []Listener{}, Error: detectionFailedMessageConstant}
}

func (checker *Checker) netstatArguments() []string {
	if checker.operatingSystem == windowsOperatingSystemConstant {
		return []string{netstatWindowsFlagConstant, netstatProtocolFlagConstant, netstatTCPProtocolConstant}
	}
	return []string{netstatAllFlagConstant}
}

func buildReport(tool Tool, port int, listeners []Listener) Report {
	if listeners == nil {
		listeners = []Listener{}
	}
	report := Report{OK: true, Tool: tool, Port: port, Listeners: listeners}
	for _, listener := range listeners {
		if listener.Exposed {
			report.OK = false
			break
		}
	}
	return report
}
