package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"carnorm/internal/errors"
)

// Exit codes.
const (
	exitFailure      = 1
	exitInvalidInput = 2
	exitIOFailure    = 3
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// reportError prints err and, for CarErrors, the first suggested fix.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var carErr *errors.CarError
	if stderrors.As(err, &carErr) && len(carErr.SuggestedFixes) > 0 {
		fmt.Fprintf(w, "Hint: %s\n", carErr.SuggestedFixes[0].Description)
	}
}

func exitCode(err error) int {
	var carErr *errors.CarError
	if !stderrors.As(err, &carErr) {
		return exitFailure
	}
	switch carErr.Code {
	case errors.MalformedField, errors.InvalidDocument:
		return exitInvalidInput
	case errors.IOFailure:
		return exitIOFailure
	default:
		return exitFailure
	}
}
