// Package cmdutil holds the plumbing shared by sourcedb subcommands: input
// collection, environment setup and exit status handling.
package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"
)

// UsageExitCode is the process status for malformed invocations.
const UsageExitCode = 2

// ExitError asks the entry point to exit with Code. Err, when set, is printed
// to stderr first.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// UsageError reports an invocation that names no usable input.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// WriteUsageError prints err as {"error": "..."} on w and returns the
// ExitError carrying the usage status.
func WriteUsageError(w io.Writer, err *UsageError) error {
	if writeErr := WriteJSON(w, map[string]string{"error": err.Message}, true); writeErr != nil {
		return writeErr
	}
	return &ExitError{Code: UsageExitCode}
}

// WriteJSON encodes v on w, two-space indented unless compact is requested.
func WriteJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}
