package main

import (
	"errors"
	"fmt"
)

// Exit codes for admin commands.
const (
	exitFailure      = 1 // the check ran and found a problem
	exitCommandError = 2 // the command could not run
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code    int
	message string
	err     error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *exitError) Unwrap() error {
	return e.err
}

func wrapExitError(code int, message string, err error) *exitError {
	return &exitError{code: code, message: message, err: err}
}

func exitCode(err error) int {
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitCommandError
}
