package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess         = 0 // Comparison produced at least one successful outcome
	ExitAllModelsFailed = 1 // The comparison ran but every model failed
	ExitError           = 2 // Configuration or runtime error
)

// AllModelsFailedError indicates that the comparison itself ran, but every
// requested model failed.
type AllModelsFailedError struct {
	Message string
}

func (e *AllModelsFailedError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var allFailed *AllModelsFailedError
		if errors.As(err, &allFailed) {
			os.Exit(ExitAllModelsFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
