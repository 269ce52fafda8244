package cli

import (
	"errors"
	"fmt"
)

const (
	CodeFailure = 1
	CodeUsage   = 2
)

// ExitError carries the process exit code for a failed command. Message is
// printed before exiting when it is not empty.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Message
}

func fail(format string, a ...any) error {
	return &ExitError{Code: CodeFailure, Message: fmt.Sprintf(format, a...)}
}

// failErr reports err's own message with the failure code.
func failErr(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: CodeFailure, Message: err.Error()}
}

// engineExit passes the engine's exit status through without a message.
func engineExit(code int) error {
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}
