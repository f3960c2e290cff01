// Package bazeltest provides an in-memory Bazel stand-in that replays canned
// query responses and records every invocation.
package bazeltest

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Response is a canned result for one Bazel invocation.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExitError is returned for responses with a non-zero exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) ExitCode() int {
	return e.Code
}

// Target describes a rule in the fake build graph.
type Target struct {
	Label string
	Kind  string
	Srcs  []string
	Deps  []string
}

// Fake answers `bazel info workspace` and `bazel query` invocations from a
// response table. Unknown invocations fail with exit code 2 and no output.
type Fake struct {
	mu        sync.Mutex
	workspace string
	responses map[string]Response
	calls     [][]string
}

// New returns a Fake rooted at workspace.
func New(workspace string) *Fake {
	return &Fake{
		workspace: workspace,
		responses: make(map[string]Response),
	}
}

// Run implements process.Runner.
func (f *Fake) Run(_ context.Context, args ...string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), args...))

	if len(args) >= 2 && args[0] == "info" && args[1] == "workspace" {
		return []byte(f.workspace + "\n"), "", nil
	}

	resp, ok := f.responses[key(args)]
	if !ok {
		return nil, fmt.Sprintf("ERROR: no canned response for %q", strings.Join(args, " ")), &ExitError{Code: 2}
	}
	if resp.ExitCode != 0 {
		return []byte(resp.Stdout), resp.Stderr, &ExitError{Code: resp.ExitCode}
	}
	return []byte(resp.Stdout), resp.Stderr, nil
}

// SetQuery registers the output lines of `bazel query expr`.
func (f *Fake) SetQuery(expr string, lines ...string) {
	f.SetResponse(expr, "", Response{Stdout: joinLines(lines)})
}

// SetResponse registers a full response for `bazel query expr --output output`.
func (f *Fake) SetResponse(expr, output string, resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[expr+"\x00"+output] = resp
}

// SetKind registers the label_kind answer for label.
func (f *Fake) SetKind(label, kind string) {
	f.SetResponse(label, "label_kind", Response{Stdout: fmt.Sprintf("%s rule %s\n", kind, label)})
}

// AddTarget registers the kind, srcs and deps queries of a rule.
func (f *Fake) AddTarget(t Target) {
	f.SetKind(t.Label, t.Kind)
	f.SetQuery(fmt.Sprintf("labels('srcs', %s)", t.Label), t.Srcs...)
	f.SetQuery(fmt.Sprintf("labels('deps', %s)", t.Label), t.Deps...)
}

// SetPythonTargets registers the answer to the Python rule enumeration.
func (f *Fake) SetPythonTargets(labels ...string) {
	f.SetQuery("kind('py_.* rule', //...)", labels...)
}

// Calls returns every recorded invocation in order.
func (f *Fake) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

// QueryCalls returns the expressions of recorded `bazel query` invocations
// using the given output format ("" for the default).
func (f *Fake) QueryCalls(output string) []string {
	var exprs []string
	for _, args := range f.Calls() {
		if len(args) < 2 || args[0] != "query" {
			continue
		}
		if outputOf(args) == output {
			exprs = append(exprs, args[1])
		}
	}
	return exprs
}

func key(args []string) string {
	if len(args) < 2 || args[0] != "query" {
		return strings.Join(args, " ")
	}
	return args[1] + "\x00" + outputOf(args)
}

func outputOf(args []string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "--output" {
			return args[i+1]
		}
	}
	return ""
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
