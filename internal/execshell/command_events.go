package execshell

// CommandEventObserver receives lifecycle notifications for lsof and netstat invocations.
type CommandEventObserver interface {
	// CommandStarted is called before the runner starts the command.
	CommandStarted(command ShellCommand)
	// CommandCompleted is called once the command exits, whatever its exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed is called when the command could not be run at all.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
