package bazel

import (
	"fmt"
	"strings"
)

// QueryError reports a Bazel invocation that failed without producing output.
// It is fatal for the run: no partial database is emitted.
type QueryError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *QueryError) Error() string {
	msg := fmt.Sprintf("bazel %s failed: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
