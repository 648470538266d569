package cli

import (
	"errors"
	"fmt"
	"io"
)

// ExitError carries a nonzero exit status out of a command. Its message is
// empty: whatever ran has already reported the failure.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return ""
}

// ExitCode turns the result of executing the command tree into a process
// exit status, reporting errors other than ExitError on w.
func ExitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintf(w, "rush: %v\n", err)
	return 2
}

func exitStatus(code int) error {
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}
