package testhelpers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LegacyCodeHQ/sourcedb/bazel/bazeltest"
	"github.com/stretchr/testify/require"
)

// WorkspacePlaceholder replaces the temporary workspace root in golden output.
const WorkspacePlaceholder = "$WORKSPACE"

// PythonTargets is the build graph of the sample workspace. Targets are listed in
// the (unsorted) order the fake reports them from the Python rule enumeration.
var PythonTargets = []bazeltest.Target{
	{
		Label: "//my_project:main",
		Kind:  "py_binary",
		Srcs:  []string{"//my_project:main.py"},
		Deps:  []string{"//my_project:app_lib"},
	},
	{
		Label: "//my_project:app_lib",
		Kind:  "py_library",
		Srcs:  []string{"//my_project:app.py"},
		Deps:  []string{"//my_project/utils:formatting", "//libs/common:common_utils", "//proto:api_proto"},
	},
	{
		Label: "//my_project/utils:formatting",
		Kind:  "py_library",
		Srcs:  []string{"//my_project/utils:formatting.py"},
	},
	{
		Label: "//libs/common:common_utils",
		Kind:  "py_library",
		Srcs:  []string{"//libs/common:__init__.py", "//libs/common:formatters.py", "//libs/common:parsers.py"},
	},
	{
		Label: "//click:click_lib",
		Kind:  "py_library",
		Srcs:  []string{"//click:__init__.py", "//click:core.py"},
		Deps:  []string{"//colorama:colorama_lib"},
	},
	{
		Label: "//colorama:colorama_lib",
		Kind:  "py_library",
		Srcs:  []string{"//colorama:__init__.py"},
	},
	{
		Label: "//plugins:analyzer",
		Kind:  "py_library",
		Srcs:  []string{"//plugins:__init__.py", "//plugins:analyzer.py"},
		Deps:  []string{"//libs/common:common_utils"},
	},
	{
		Label: "//scripts:run_report",
		Kind:  "py_binary",
		Srcs:  []string{"//scripts:run_report.py"},
		Deps:  []string{"//services/reporting:reporting_lib"},
	},
	{
		Label: "//services/reporting:reporting_lib",
		Kind:  "py_library",
		Srcs: []string{
			"//services/reporting:__init__.py",
			"//services/reporting:generator.py",
			"//services/reporting:metrics.py",
		},
		Deps: []string{"//libs/common:common_utils"},
	},
	{
		Label: "//services/reporting:report_cli",
		Kind:  "py_binary",
		Srcs:  []string{"//services/reporting:report_cli.py"},
		Deps:  []string{"//click:click_lib", "//services/reporting:reporting_lib", "//services/reporting:templates"},
	},
	{
		Label: "//tests:test_app",
		Kind:  "py_test",
		Srcs:  []string{"//tests:test_app.py"},
		Deps:  []string{"//my_project:app_lib"},
	},
}

// otherKinds are non-Python rules referenced from Python deps.
var otherKinds = map[string]string{
	"//proto:api_proto":              "proto_library",
	"//services/reporting:templates": "filegroup",
}

// buildFiles lists the build file of each package. colorama deliberately has none.
var buildFiles = []string{
	"my_project/BUILD.bazel",
	"my_project/utils/BUILD.bazel",
	"libs/common/BUILD",
	"click/BUILD.bazel",
	"plugins/BUILD.bazel",
	"scripts/BUILD.bazel",
	"services/reporting/BUILD.bazel",
	"tests/BUILD.bazel",
	"proto/BUILD.bazel",
}

// NewPythonWorkspace lays out the sample workspace in a temporary directory and
// returns its root with a fake Bazel that answers queries about it.
func NewPythonWorkspace(t *testing.T) (string, *bazeltest.Fake) {
	t.Helper()

	root := t.TempDir()
	for _, bf := range buildFiles {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(bf)), "# generated for tests\n")
	}

	fake := bazeltest.New(root)
	labels := make([]string, 0, len(PythonTargets))
	for _, target := range PythonTargets {
		fake.AddTarget(target)
		labels = append(labels, target.Label)
		for _, src := range target.Srcs {
			rel := strings.Replace(strings.TrimPrefix(src, "//"), ":", "/", 1)
			WriteFile(t, filepath.Join(root, filepath.FromSlash(rel)), "")
		}
	}
	for label, kind := range otherKinds {
		fake.SetKind(label, kind)
	}
	fake.SetPythonTargets(labels...)

	return root, fake
}

// WriteFile creates path and its parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// NormalizeWorkspace replaces the workspace root in output with a placeholder.
func NormalizeWorkspace(output, root string) string {
	return strings.ReplaceAll(output, root, WorkspacePlaceholder)
}
