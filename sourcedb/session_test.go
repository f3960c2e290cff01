package sourcedb

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/LegacyCodeHQ/sourcedb/bazel"
	"github.com/LegacyCodeHQ/sourcedb/bazel/bazeltest"
	"github.com/LegacyCodeHQ/sourcedb/internal/testhelpers"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFixture(t *testing.T, files ...string) (*Result, string, *bazeltest.Fake) {
	t.Helper()
	root, fake := testhelpers.NewPythonWorkspace(t)
	session := NewSession(bazel.NewClient(fake.Run), root, Options{Interpreter: testInterpreter})

	result, err := session.Build(context.Background(), files)
	require.NoError(t, err)
	return result, root, fake
}

func TestSession_Build_TransitiveClosureKeepsDirectDeps(t *testing.T) {
	result, root, _ := buildFixture(t, "my_project/main.py")

	assert.Equal(t, root, result.Root)
	assert.ElementsMatch(t, []string{
		"//my_project:main",
		"//my_project:app_lib",
		"//my_project/utils:formatting",
		"//libs/common:common_utils",
	}, keys(result.DB))

	assert.Equal(t, []string{"//my_project:app_lib"}, result.DB["//my_project:main"].Deps)
	assert.Equal(t, []string{"//my_project/utils:formatting", "//libs/common:common_utils"},
		result.DB["//my_project:app_lib"].Deps)
	assert.Empty(t, result.DB["//libs/common:common_utils"].Deps)
}

func TestSession_Build_DependencyFilteringAndScope(t *testing.T) {
	result, _, _ := buildFixture(t, "services/reporting/report_cli.py")

	db := result.DB
	assert.Equal(t, []string{"//click:click_lib", "//services/reporting:reporting_lib"},
		db["//services/reporting:report_cli"].Deps)
	assert.NotContains(t, db, "//plugins:analyzer")
	assert.NotContains(t, db, "//services/reporting:templates")
	assert.Equal(t, []string{"//libs/common:common_utils"}, db["//services/reporting:reporting_lib"].Deps)
	assert.Equal(t, []string{"//colorama:colorama_lib"}, db["//click:click_lib"].Deps)
}

func TestSession_Build_ModuleKeys(t *testing.T) {
	result, _, _ := buildFixture(t, "scripts/run_report.py", "click/core.py", "plugins/analyzer.py")

	db := result.DB
	assert.Equal(t, ModuleMap{"run_report": {"scripts/run_report.py"}}, db["//scripts:run_report"].Srcs)
	assert.Equal(t, ModuleMap{
		"click":      {"click/__init__.py"},
		"click.core": {"click/core.py"},
	}, db["//click:click_lib"].Srcs)
	assert.Equal(t, ModuleMap{
		"plugins":          {"plugins/__init__.py"},
		"plugins.analyzer": {"plugins/analyzer.py"},
	}, db["//plugins:analyzer"].Srcs)
}

func TestSession_Build_BuildfilePaths(t *testing.T) {
	result, _, _ := buildFixture(t, "click/core.py", "plugins/analyzer.py")

	db := result.DB
	assert.Equal(t, "//click/BUILD.bazel", db["//click:click_lib"].BuildfilePath)
	assert.Equal(t, "//libs/common/BUILD", db["//libs/common:common_utils"].BuildfilePath)
	assert.Empty(t, db["//colorama:colorama_lib"].BuildfilePath)
}

func TestSession_Build_InterpreterMetadataOnEveryEntry(t *testing.T) {
	result, _, _ := buildFixture(t, "my_project/main.py", "click/core.py")

	for label, entry := range result.DB {
		assert.Equal(t, "3.11", entry.PythonVersion, label)
		assert.Equal(t, "linux", entry.PythonPlatform, label)
	}
}

func TestSession_Build_UnmatchedFileYieldsEmptyDatabase(t *testing.T) {
	result, root, _ := buildFixture(t, "nonexistent/file.py")

	assert.Empty(t, result.DB)
	assert.NotNil(t, result.DB)
	assert.Equal(t, root, result.Root)
}

func TestSession_Build_KindQueriedOncePerLabel(t *testing.T) {
	_, _, fake := buildFixture(t,
		"my_project/main.py",
		"libs/common/formatters.py",
		"plugins/analyzer.py",
		"scripts/run_report.py",
		"services/reporting/report_cli.py",
	)

	kindCalls := fake.QueryCalls("label_kind")
	require.NotEmpty(t, kindCalls)

	seen := make(map[string]bool)
	for _, label := range kindCalls {
		assert.False(t, seen[label], "label_kind queried twice for %s", label)
		seen[label] = true
	}
	assert.Contains(t, seen, "//proto:api_proto")
	assert.Contains(t, seen, "//services/reporting:templates")
}

func TestSession_Build_SourcesQueriedOncePerLabel(t *testing.T) {
	_, _, fake := buildFixture(t, "my_project/main.py")

	counts := make(map[string]int)
	for _, expr := range fake.QueryCalls("") {
		counts[expr]++
	}
	for expr, n := range counts {
		assert.Equal(t, 1, n, expr)
	}
}

func TestSession_Build_IsDeterministic(t *testing.T) {
	files := []string{"services/reporting/report_cli.py", "my_project/main.py", "plugins/analyzer.py"}
	root, fake := testhelpers.NewPythonWorkspace(t)

	var results []*Result
	var outputs [][]byte
	for i := 0; i < 2; i++ {
		session := NewSession(bazel.NewClient(fake.Run), root, Options{Interpreter: testInterpreter})
		result, err := session.Build(context.Background(), files)
		require.NoError(t, err)

		data, err := json.Marshal(result)
		require.NoError(t, err)
		results = append(results, result)
		outputs = append(outputs, data)
	}

	if diff := cmp.Diff(results[0], results[1]); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, string(outputs[0]), string(outputs[1]))
}

func TestSession_Build_SessionsDoNotShareCaches(t *testing.T) {
	root, fake := testhelpers.NewPythonWorkspace(t)
	client := bazel.NewClient(fake.Run)

	_, err := NewSession(client, root, Options{}).Build(context.Background(), []string{"click/core.py"})
	require.NoError(t, err)
	first := len(fake.QueryCalls("label_kind"))

	_, err = NewSession(client, root, Options{}).Build(context.Background(), []string{"click/core.py"})
	require.NoError(t, err)

	assert.Equal(t, 2*first, len(fake.QueryCalls("label_kind")))
}

func TestSession_Build_QueryFailureAbortsRun(t *testing.T) {
	root, fake := testhelpers.NewPythonWorkspace(t)
	fake.SetResponse("labels('deps', //click:click_lib)", "", bazeltest.Response{
		Stderr:   "ERROR: server crashed",
		ExitCode: 37,
	})
	session := NewSession(bazel.NewClient(fake.Run), root, Options{})

	result, err := session.Build(context.Background(), []string{"click/core.py"})

	assert.Nil(t, result)
	var queryErr *bazel.QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Equal(t, "ERROR: server crashed", queryErr.Stderr)
}

func TestSession_Build_ToleratesWarningsWithOutput(t *testing.T) {
	root, fake := testhelpers.NewPythonWorkspace(t)
	fake.SetResponse("labels('deps', //click:click_lib)", "", bazeltest.Response{
		Stdout:   "//colorama:colorama_lib\n",
		Stderr:   "WARNING: some Bazel warning about embedded tools",
		ExitCode: 3,
	})
	session := NewSession(bazel.NewClient(fake.Run), root, Options{})

	result, err := session.Build(context.Background(), []string{"click/core.py"})

	require.NoError(t, err)
	assert.Contains(t, result.DB, "//click:click_lib")
}

func keys(db Database) []string {
	result := make([]string, 0, len(db))
	for k := range db {
		result = append(result, k)
	}
	return result
}
