package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess        = 0 // All scenarios passed
	ExitScenarioFailed = 1 // One or more scenarios failed
	ExitError          = 2 // Configuration or runtime error
)

// ScenarioFailureError indicates that the suite ran successfully,
// but one or more scenarios failed grading.
type ScenarioFailureError struct {
	Message string
}

func (e *ScenarioFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var failureErr *ScenarioFailureError
		if errors.As(err, &failureErr) {
			os.Exit(ExitScenarioFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
