package mermaid_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/LegacyCodeHQ/sourcedb/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/sourcedb/cmd/graph/formatters/mermaid"
	"github.com/LegacyCodeHQ/sourcedb/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetGraph_ToMermaid(t *testing.T) {
	graph := testhelpers.TargetGraph(t, map[string]string{
		"//app:main":        "py_binary",
		"//app:lib":         "py_library",
		"//tests:lib_test":  "py_test",
		"//third_party:six": "py_library",
	}, map[string][]string{
		"//app:main":       {"//app:lib"},
		"//app:lib":        {"//third_party:six"},
		"//tests:lib_test": {"//app:lib"},
	})

	output, err := (&mermaid.Formatter{}).Format(graph, formatters.RenderOptions{})
	require.NoError(t, err)

	g := testhelpers.MermaidGoldie(t)
	g.Assert(t, t.Name(), []byte(output))
}

func TestTargetGraph_ToMermaid_LibrariesOnlyWithTitle(t *testing.T) {
	graph := testhelpers.TargetGraph(t, map[string]string{
		"//click:click_lib":       "py_library",
		"//colorama:colorama_lib": "py_library",
	}, map[string][]string{
		"//click:click_lib": {"//colorama:colorama_lib"},
	})

	output, err := (&mermaid.Formatter{}).Format(graph, formatters.RenderOptions{Label: "cli • 2 targets"})

	require.NoError(t, err)
	assert.Equal(t, "---\n"+
		"title: cli • 2 targets\n"+
		"---\n"+
		"flowchart LR\n"+
		"    n0[\"//click:click_lib\"]\n"+
		"    n1[\"//colorama:colorama_lib\"]\n"+
		"\n"+
		"    n0 --> n1", output)
}

func TestFormatter_GenerateURL(t *testing.T) {
	output := "flowchart LR\n    n0[\"//a:a\"]"

	urlStr, ok := (&mermaid.Formatter{}).GenerateURL(output)

	require.True(t, ok)
	prefix := "https://mermaid.live/edit#base64:"
	require.True(t, strings.HasPrefix(urlStr, prefix))

	raw, err := base64.URLEncoding.DecodeString(strings.TrimPrefix(urlStr, prefix))
	require.NoError(t, err)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, output, payload["code"])
}
