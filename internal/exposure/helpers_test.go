package exposure_test

import (
	"context"
	"errors"

	"github.com/temirov/clawshield/internal/execshell"
)

var errToolMissing = errors.New("executable not found")

type stubCommandExecutor struct {
	lsofOutput       string
	lsofError        error
	netstatOutput    string
	netstatError     error
	lsofArguments    [][]string
	netstatArguments [][]string
}

func (executor *stubCommandExecutor) ExecuteLsof(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.lsofArguments = append(executor.lsofArguments, details.Arguments)
	if executor.lsofError != nil {
		return execshell.ExecutionResult{}, executor.lsofError
	}
	return execshell.ExecutionResult{StandardOutput: executor.lsofOutput}, nil
}

func (executor *stubCommandExecutor) ExecuteNetstat(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.netstatArguments = append(executor.netstatArguments, details.Arguments)
	if executor.netstatError != nil {
		return execshell.ExecutionResult{}, executor.netstatError
	}
	return execshell.ExecutionResult{StandardOutput: executor.netstatOutput}, nil
}
