package testhelpers

import (
	"testing"

	"github.com/dominikbraun/graph"
	"github.com/stretchr/testify/require"
)

// TargetGraph builds a directed target graph with a "kind" attribute per vertex.
// Every label in edges must appear in kinds.
func TargetGraph(t *testing.T, kinds map[string]string, edges map[string][]string) graph.Graph[string, string] {
	t.Helper()

	g := graph.New(graph.StringHash, graph.Directed())
	for label, kind := range kinds {
		require.NoError(t, g.AddVertex(label, graph.VertexAttribute("kind", kind)))
	}
	for from, deps := range edges {
		for _, to := range deps {
			require.NoError(t, g.AddEdge(from, to))
		}
	}
	return g
}
