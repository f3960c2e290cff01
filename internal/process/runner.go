package process

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Runner executes a command and returns its stdout and trimmed stderr.
// Stdout is returned even when the command exits non-zero so callers can decide
// whether partial output is usable.
type Runner func(ctx context.Context, args ...string) (stdout []byte, stderr string, err error)

// Exec returns a Runner that invokes binary with the given arguments in dir.
// An empty dir runs the command in the current working directory.
func Exec(binary, dir string) Runner {
	return func(ctx context.Context, args ...string) ([]byte, string, error) {
		cmd := exec.CommandContext(ctx, binary, args...)
		cmd.Dir = dir

		var stdout bytes.Buffer
		var stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err := cmd.Run()
		stderrText := strings.TrimSpace(stderr.String())
		if err != nil && errors.Is(ctx.Err(), context.Canceled) {
			return nil, stderrText, ctx.Err()
		}
		return stdout.Bytes(), stderrText, err
	}
}

// ExitCode reports the exit status carried by err (an *exec.ExitError or any
// error with an ExitCode method), or -1 when there is none.
func ExitCode(err error) int {
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return -1
}

// Lines splits command output into trimmed, non-empty lines.
func Lines(output []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
