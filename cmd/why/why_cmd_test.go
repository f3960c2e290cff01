package why

import (
	"bytes"
	"context"
	"testing"

	"github.com/LegacyCodeHQ/sourcedb/bazel/bazeltest"
	"github.com/LegacyCodeHQ/sourcedb/cmd/cmdutil"
	"github.com/LegacyCodeHQ/sourcedb/internal/testhelpers"
	"github.com/LegacyCodeHQ/sourcedb/sourcedb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory(root string, fake *bazeltest.Fake) *cmdutil.Factory {
	return &cmdutil.Factory{
		BazelRunner: fake.Run,
		PythonRunner: func(context.Context, ...string) ([]byte, string, error) {
			return []byte("3.11\n"), "", nil
		},
		Getenv: func(string) string { return "" },
		Getwd:  func() (string, error) { return root, nil },
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root, fake := testhelpers.NewPythonWorkspace(t)
	cmd := NewCommand(newFactory(root, fake))
	cmd.SetArgs(append([]string{}, args...))

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestWhy_TextChain(t *testing.T) {
	out, err := execute(t, "//colorama:colorama_lib", "services/reporting/report_cli.py")

	require.NoError(t, err)
	assert.Equal(t, "//colorama:colorama_lib is reached from //services/reporting:report_cli:\n"+
		"  //services/reporting:report_cli (py_binary)\n"+
		"  -> //click:click_lib (py_library)\n"+
		"  -> //colorama:colorama_lib (py_library)\n", out)
}

func TestWhy_JSONChain(t *testing.T) {
	out, err := execute(t, "//libs/common:common_utils", "-f", "json", "--file", "my_project/main.py")

	require.NoError(t, err)
	assert.JSONEq(t, `{
  "target": "//libs/common:common_utils",
  "chain": [
    {"label": "//my_project:main", "kind": "py_binary"},
    {"label": "//my_project:app_lib", "kind": "py_library"},
    {"label": "//libs/common:common_utils", "kind": "py_library"}
  ]
}`, out)
}

func TestWhy_MermaidChain(t *testing.T) {
	out, err := execute(t, "//colorama:colorama_lib", "-f", "mermaid", "services/reporting/report_cli.py")

	require.NoError(t, err)
	g := testhelpers.MermaidGoldie(t)
	g.Assert(t, "why_colorama", []byte(out))
}

func TestWhy_TargetOwningRequestedFile(t *testing.T) {
	out, err := execute(t, "//my_project:main", "my_project/main.py")

	require.NoError(t, err)
	assert.Equal(t, "//my_project:main (py_binary) owns one of the requested files.\n", out)
}

func TestWhy_TargetNotReached(t *testing.T) {
	_, err := execute(t, "//plugins:analyzer", "my_project/main.py")

	assert.ErrorIs(t, err, sourcedb.ErrTargetNotReached)
}

func TestWhy_UnknownFormat(t *testing.T) {
	_, err := execute(t, "//plugins:analyzer", "-f", "svg", "my_project/main.py")

	var exitErr *cmdutil.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, cmdutil.UsageExitCode, exitErr.Code)
}

func TestWhy_NoFiles(t *testing.T) {
	out, err := execute(t, "//plugins:analyzer")

	var exitErr *cmdutil.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, cmdutil.UsageExitCode, exitErr.Code)
	assert.JSONEq(t, `{"error": "Usage: sourcedb why //pkg:target @/path/to/list.txt"}`, out)
}
