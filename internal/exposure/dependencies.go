package exposure

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/clawshield/internal/execshell"
)

// CommandExecutor runs the listener inspection tools.
type CommandExecutor interface {
	ExecuteLsof(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteNetstat(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// PortProvider supplies the gateway port recorded in the gateway configuration, or zero.
type PortProvider func() int

// CommandEventsObserverProvider supplies the observer notified about lsof and netstat invocations, or nil.
type CommandEventsObserverProvider func() execshell.CommandEventObserver

func resolveCommandExecutor(executor CommandExecutor, logger *zap.Logger, observerProvider CommandEventsObserverProvider) (CommandExecutor, error) {
	if executor != nil {
		return executor, nil
	}
	var observer execshell.CommandEventObserver
	if observerProvider != nil {
		observer = observerProvider()
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), observer)
}
