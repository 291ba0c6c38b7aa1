package utils

import "fmt"

const (
	exitCodeErrorTemplateConstant = "exit status %d"
)

// ExitCodeError reports a failing command outcome that carries its own process exit code.
// Commands return it after they have already written their report, so Message is usually empty.
type ExitCodeError struct {
	Code    int
	Message string
}

// Error describes the failing outcome.
func (exitCodeError ExitCodeError) Error() string {
	if len(exitCodeError.Message) > 0 {
		return exitCodeError.Message
	}
	return fmt.Sprintf(exitCodeErrorTemplateConstant, exitCodeError.Code)
}
