// Package bazel wraps the handful of Bazel queries needed to map Python source
// files to the targets that own them.
package bazel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LegacyCodeHQ/sourcedb/internal/logging"
	"github.com/LegacyCodeHQ/sourcedb/internal/process"
)

// PythonRuleKindPattern selects every Python rule in the workspace.
const PythonRuleKindPattern = "kind('py_.* rule', //...)"

var defaultQueryFlags = []string{"--keep_going", "--noshow_progress"}

// Client issues blocking queries against a Bazel workspace. Every method is one
// round trip to the Bazel server; there is no caching or retry at this level.
type Client struct {
	run        process.Runner
	extraFlags []string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithQueryFlags appends flags to every `bazel query` invocation.
func WithQueryFlags(flags ...string) Option {
	return func(c *Client) {
		c.extraFlags = append(c.extraFlags, flags...)
	}
}

// WithLogger sets the logger used for tolerated query warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient returns a Client that runs Bazel through run.
func NewClient(run process.Runner, opts ...Option) *Client {
	c := &Client{
		run:    run,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Workspace returns the absolute path of the workspace root.
func (c *Client) Workspace(ctx context.Context) (string, error) {
	lines, err := c.invoke(ctx, []string{"info", "workspace"})
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("bazel info workspace returned no output")
	}
	return lines[0], nil
}

// ListPythonNodes enumerates every Python rule target in the workspace, in the
// order Bazel reports them.
func (c *Client) ListPythonNodes(ctx context.Context) ([]string, error) {
	return c.Query(ctx, PythonRuleKindPattern, "")
}

// SourceFileLabels returns the file labels registered in the srcs of label.
func (c *Client) SourceFileLabels(ctx context.Context, label string) ([]string, error) {
	return c.Query(ctx, fmt.Sprintf("labels('srcs', %s)", label), "")
}

// DependencyLabels returns every label in the deps of label, regardless of kind.
func (c *Client) DependencyLabels(ctx context.Context, label string) ([]string, error) {
	return c.Query(ctx, fmt.Sprintf("labels('deps', %s)", label), "")
}

// KindOf returns the rule class of label (for example "py_library" or
// "source"), or an empty string when Bazel reports nothing for it.
func (c *Client) KindOf(ctx context.Context, label string) (string, error) {
	lines, err := c.Query(ctx, label, "label_kind")
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", nil
	}
	kind, _ := ParseLabelKind(lines[0])
	return kind, nil
}

// Query runs `bazel query expr` and returns the non-empty output lines. An empty
// output selects Bazel's default label output.
func (c *Client) Query(ctx context.Context, expr, output string) ([]string, error) {
	return c.invoke(ctx, QueryArgs(expr, output, c.extraFlags))
}

// QueryArgs builds the argument list for a `bazel query` invocation.
func QueryArgs(expr, output string, extraFlags []string) []string {
	args := append([]string{"query", expr}, defaultQueryFlags...)
	args = append(args, extraFlags...)
	if output != "" {
		args = append(args, "--output", output)
	}
	return args
}

// invoke runs Bazel and applies the exit status policy: a non-zero exit is only a
// warning when some output was produced (for example with --keep_going on a
// partially broken graph).
func (c *Client) invoke(ctx context.Context, args []string) ([]string, error) {
	stdout, stderr, err := c.run(ctx, args...)
	lines := process.Lines(stdout)
	if err == nil {
		return lines, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(lines) == 0 {
		return nil, &QueryError{Args: args, Stderr: stderr, Err: err}
	}

	c.logger.Warn("bazel exited with non-zero status, using partial output",
		"args", strings.Join(args, " "),
		"exit_code", process.ExitCode(err),
		"stderr", stderr)
	return lines, nil
}

// ParseLabelKind splits a label_kind output line such as
// "py_library rule //pkg:target" into its kind and label.
func ParseLabelKind(line string) (kind, label string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], fields[len(fields)-1]
}
