package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/clawshield/cmd/cli"
	"github.com/temirov/clawshield/internal/utils"
)

const (
	exitErrorTemplateConstant = "%v\n"
	failureExitCodeConstant   = 1
)

// main executes the clawshield command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	var exitCodeError utils.ExitCodeError
	if errors.As(executionError, &exitCodeError) {
		if len(exitCodeError.Message) > 0 {
			fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, exitCodeError.Message)
		}
		os.Exit(exitCodeError.Code)
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	os.Exit(failureExitCodeConstant)
}
